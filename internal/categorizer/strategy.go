package categorizer

import (
	"context"

	"fjacquet/ledger-import/internal/models"

	"github.com/shopspring/decimal"
)

// Query is what a strategy is asked about.
type Query struct {
	Kind        models.TargetKind
	MerchantKey string
	Amount      decimal.Decimal
}

// SuggestionStrategy defines one way of proposing a subcategory or payoree.
type SuggestionStrategy interface {
	// Suggest returns the proposed target name, whether the strategy had an
	// answer, and any error encountered. A missing answer is not an error.
	Suggest(ctx context.Context, q Query) (string, bool, error)

	// Name returns the name of this strategy for logging and debugging purposes.
	Name() string
}
