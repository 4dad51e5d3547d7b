package categorizer

import (
	"context"
	"strings"

	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"
)

// DefaultSubcategoryRules is the built-in subcategory table, first match
// wins. The DEPOSIT rule only applies to inflows.
var DefaultSubcategoryRules = []models.SubcategoryRule{
	{Pattern: "ELECTRIC", Category: "Utilities", Subcategory: "Electric"},
	{Pattern: "MORTGAGE", Category: "Housing", Subcategory: "Mortgage"},
	{Pattern: "PROPERTY MGMT", Category: "Housing", Subcategory: "Rent"},
	{Pattern: "COMCAST", Category: "Utilities", Subcategory: "Internet"},
	{Pattern: "WATER", Category: "Utilities", Subcategory: "Water"},
	{Pattern: "STARBUCKS", Category: "Food", Subcategory: "Coffee"},
	{Pattern: "UBER EATS", Category: "Food", Subcategory: "Restaurants"},
	{Pattern: "DOORDASH", Category: "Food", Subcategory: "Restaurants"},
	{Pattern: "COSTCO", Category: "Food", Subcategory: "Groceries"},
	{Pattern: "TRADER JOES", Category: "Food", Subcategory: "Groceries"},
	{Pattern: "WHOLE FOODS", Category: "Food", Subcategory: "Groceries"},
	{Pattern: "TARGET", Category: "Shopping", Subcategory: "General"},
	{Pattern: "WALMART", Category: "Shopping", Subcategory: "General"},
	{Pattern: "AMAZON", Category: "Shopping", Subcategory: "Online"},
	{Pattern: "SHELL", Category: "Transportation", Subcategory: "Fuel"},
	{Pattern: "CHEVRON", Category: "Transportation", Subcategory: "Fuel"},
	{Pattern: "EXXONMOBIL", Category: "Transportation", Subcategory: "Fuel"},
	{Pattern: "UBER", Category: "Transportation", Subcategory: "Rideshare"},
	{Pattern: "LYFT", Category: "Transportation", Subcategory: "Rideshare"},
	{Pattern: "NETFLIX", Category: "Entertainment", Subcategory: "Streaming"},
	{Pattern: "SPOTIFY", Category: "Entertainment", Subcategory: "Streaming"},
	{Pattern: "PAYROLL", Category: models.CategoryIncome, Subcategory: models.SubcategoryWork},
	{Pattern: "DEPOSIT", Category: models.CategoryIncome, Subcategory: models.SubcategoryWork, PositiveOnly: true},
}

// DefaultPayoreeRules is the built-in payoree table, first match wins.
var DefaultPayoreeRules = []models.PayoreeRule{
	{Pattern: "STARBUCKS", Payoree: "Starbucks"},
	{Pattern: "TARGET", Payoree: "Target"},
	{Pattern: "AMAZON", Payoree: "Amazon"},
	{Pattern: "WALMART", Payoree: "Walmart"},
	{Pattern: "COSTCO", Payoree: "Costco"},
	{Pattern: "TRADER JOES", Payoree: "Trader Joe's"},
	{Pattern: "WHOLE FOODS", Payoree: "Whole Foods"},
	{Pattern: "SHELL", Payoree: "Shell"},
	{Pattern: "CHEVRON", Payoree: "Chevron"},
	{Pattern: "EXXONMOBIL", Payoree: "ExxonMobil"},
	{Pattern: "NETFLIX", Payoree: "Netflix"},
	{Pattern: "SPOTIFY", Payoree: "Spotify"},
	{Pattern: "UBER EATS", Payoree: "Uber Eats"},
	{Pattern: "UBER", Payoree: "Uber"},
	{Pattern: "LYFT", Payoree: "Lyft"},
	{Pattern: "DOORDASH", Payoree: "DoorDash"},
	{Pattern: "COMCAST", Payoree: "Comcast"},
}

// KeywordStrategy matches the merchant key against ordered substring rule
// tables.
type KeywordStrategy struct {
	subcategories []models.SubcategoryRule
	payorees      []models.PayoreeRule
	logger        logging.Logger
}

// NewKeywordStrategy creates a KeywordStrategy. Nil tables fall back to the
// built-in defaults; empty non-nil tables disable that kind.
func NewKeywordStrategy(subcategories []models.SubcategoryRule, payorees []models.PayoreeRule, logger logging.Logger) *KeywordStrategy {
	if subcategories == nil {
		subcategories = DefaultSubcategoryRules
	}
	if payorees == nil {
		payorees = DefaultPayoreeRules
	}
	return &KeywordStrategy{
		subcategories: subcategories,
		payorees:      payorees,
		logger:        logging.OrDefault(logger),
	}
}

// Name returns the name of this strategy for logging and debugging.
func (s *KeywordStrategy) Name() string {
	return "Keyword"
}

// Suggest returns the first rule whose pattern appears in the merchant key.
func (s *KeywordStrategy) Suggest(_ context.Context, q Query) (string, bool, error) {
	key := strings.ToUpper(strings.TrimSpace(q.MerchantKey))
	if key == "" {
		return "", false, nil
	}

	switch q.Kind {
	case models.TargetSubcategory:
		if rule, ok := s.matchSubcategory(key, q); ok {
			s.logMatch(q, rule.Pattern, rule.Subcategory)
			return rule.Subcategory, true, nil
		}
	case models.TargetPayoree:
		for _, rule := range s.payorees {
			if strings.Contains(key, strings.ToUpper(rule.Pattern)) {
				s.logMatch(q, rule.Pattern, rule.Payoree)
				return rule.Payoree, true, nil
			}
		}
	}
	return "", false, nil
}

func (s *KeywordStrategy) matchSubcategory(key string, q Query) (models.SubcategoryRule, bool) {
	for _, rule := range s.subcategories {
		if rule.PositiveOnly && !q.Amount.IsPositive() {
			continue
		}
		if strings.Contains(key, strings.ToUpper(rule.Pattern)) {
			return rule, true
		}
	}
	return models.SubcategoryRule{}, false
}

// CategoryFor returns the parent category the rule table associates with a
// subcategory name.
func (s *KeywordStrategy) CategoryFor(subcategory string) (string, bool) {
	for _, rule := range s.subcategories {
		if strings.EqualFold(rule.Subcategory, subcategory) && rule.Category != "" {
			return rule.Category, true
		}
	}
	return "", false
}

func (s *KeywordStrategy) logMatch(q Query, pattern, target string) {
	s.logger.Debug("Keyword rule matched",
		logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
		logging.Field{Key: logging.FieldMerchantKey, Value: q.MerchantKey},
		logging.Field{Key: "keyword", Value: pattern},
		logging.Field{Key: string(q.Kind), Value: target},
	)
}
