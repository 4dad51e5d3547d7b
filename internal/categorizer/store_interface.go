package categorizer

import (
	"context"

	"fjacquet/ledger-import/internal/models"
)

// LearnedStore is the learned-frequency store the suggestion engine reads
// and the feedback loop writes.
type LearnedStore interface {
	// TopLearned returns the target with the highest summed count for
	// merchantKey. Ties resolve to the alphabetically first target.
	TopLearned(ctx context.Context, kind models.TargetKind, merchantKey string) (string, bool, error)

	// IncrementLearned adds one to the counter for (merchantKey, target),
	// creating it with a count of one.
	IncrementLearned(ctx context.Context, kind models.TargetKind, merchantKey, target string) error
}
