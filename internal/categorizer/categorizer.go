// Package categorizer proposes a subcategory and a payoree for a statement
// line. Suggestions come from an ordered strategy chain:
// 1. Learned: the target humans confirmed most often for the merchant key
// 2. Keyword: ordered substring rules on the merchant key
// When neither answers there is no suggestion, which is not an error.
package categorizer

import (
	"context"
	"strings"

	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/merchant"
	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/parsererror"

	"github.com/shopspring/decimal"
)

// Categorizer runs the strategy chain for descriptions.
type Categorizer struct {
	extractor  *merchant.Extractor
	strategies []SuggestionStrategy
	keywords   *KeywordStrategy
	learned    LearnedStore
	logger     logging.Logger
}

// Option configures a Categorizer.
type Option func(*Categorizer)

// WithExtractor replaces the default merchant key extractor.
func WithExtractor(e *merchant.Extractor) Option {
	return func(c *Categorizer) {
		if e != nil {
			c.extractor = e
		}
	}
}

// WithRules replaces the built-in keyword tables.
func WithRules(tables models.RuleTables) Option {
	return func(c *Categorizer) {
		c.keywords = NewKeywordStrategy(tables.Subcategories, tables.Payorees, c.logger)
	}
}

// NewCategorizer creates a Categorizer. A nil learned store leaves only the
// keyword rules in the chain.
func NewCategorizer(learned LearnedStore, logger logging.Logger, opts ...Option) *Categorizer {
	c := &Categorizer{
		extractor: merchant.Default(),
		logger:    logging.OrDefault(logger),
	}
	c.keywords = NewKeywordStrategy(nil, nil, c.logger)
	for _, opt := range opts {
		opt(c)
	}

	c.learned = learned
	c.buildChain()
	return c
}

func (c *Categorizer) buildChain() {
	c.strategies = nil
	if c.learned != nil {
		c.strategies = append(c.strategies, NewLearnedStrategy(c.learned, c.logger))
	}
	c.strategies = append(c.strategies, c.keywords)
}

// WithLearnedStore returns a copy reading learned counts from learned, for
// example a store bound to an open transaction. A Categorizer built without
// a learned store stays without one.
func (c *Categorizer) WithLearnedStore(learned LearnedStore) *Categorizer {
	if c.learned == nil || learned == nil {
		return c
	}
	clone := *c
	clone.learned = learned
	clone.buildChain()
	return &clone
}

// MerchantKey returns the merchant key of description.
func (c *Categorizer) MerchantKey(description string) string {
	return c.extractor.Extract(description)
}

// SuggestSubcategory proposes a subcategory for description. amount only
// matters for inflow-only rules.
func (c *Categorizer) SuggestSubcategory(ctx context.Context, description string, amount decimal.Decimal) (string, bool, error) {
	return c.suggest(ctx, Query{Kind: models.TargetSubcategory, MerchantKey: c.MerchantKey(description), Amount: amount})
}

// SuggestPayoree proposes a payoree for description.
func (c *Categorizer) SuggestPayoree(ctx context.Context, description string) (string, bool, error) {
	return c.suggest(ctx, Query{Kind: models.TargetPayoree, MerchantKey: c.MerchantKey(description)})
}

// Suggest proposes both targets. Strategy errors are logged and treated as
// no suggestion.
func (c *Categorizer) Suggest(ctx context.Context, description string, amount decimal.Decimal) models.Suggestions {
	var s models.Suggestions
	if sub, ok, err := c.SuggestSubcategory(ctx, description, amount); err != nil {
		c.logger.WithError(err).Warn("Subcategory suggestion failed")
	} else if ok {
		s.Subcategory = sub
	}
	if pay, ok, err := c.SuggestPayoree(ctx, description); err != nil {
		c.logger.WithError(err).Warn("Payoree suggestion failed")
	} else if ok {
		s.Payoree = pay
	}
	return s
}

// SuggestCategoryFor returns the parent category of a subcategory according
// to the keyword rules.
func (c *Categorizer) SuggestCategoryFor(subcategory string) (string, bool) {
	if strings.TrimSpace(subcategory) == "" {
		return "", false
	}
	return c.keywords.CategoryFor(subcategory)
}

// Explain runs every strategy and reports each outcome.
func (c *Categorizer) Explain(ctx context.Context, kind models.TargetKind, description string, amount decimal.Decimal) (string, StrategyResults) {
	q := Query{Kind: kind, MerchantKey: c.MerchantKey(description), Amount: amount}
	var results StrategyResults
	for _, s := range c.strategies {
		target, found, err := s.Suggest(ctx, q)
		results.Results = append(results.Results, StrategyResult{
			Strategy: s.Name(),
			Target:   target,
			Found:    found,
			Error:    err,
		})
	}
	return q.MerchantKey, results
}

// suggest walks the chain and stops at the first answer. Failing strategies
// are skipped; their error is returned only when no later strategy answers.
func (c *Categorizer) suggest(ctx context.Context, q Query) (string, bool, error) {
	var results StrategyResults
	for _, s := range c.strategies {
		target, found, err := s.Suggest(ctx, q)
		results.Results = append(results.Results, StrategyResult{Strategy: s.Name(), Target: target, Found: found, Error: err})
		if err != nil {
			c.logger.WithError(err).Warn("Suggestion strategy failed",
				logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
				logging.Field{Key: logging.FieldMerchantKey, Value: q.MerchantKey},
			)
			continue
		}
		if found {
			return target, true, nil
		}
	}

	if err := results.Err(); err != nil {
		return "", false, &parsererror.CategorizationError{
			MerchantKey: q.MerchantKey,
			Strategies:  results.Summary(),
			Err:         err,
		}
	}
	return "", false, nil
}
