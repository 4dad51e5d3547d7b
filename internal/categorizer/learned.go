package categorizer

import (
	"context"
	"strings"

	"fjacquet/ledger-import/internal/logging"
)

// LearnedStrategy proposes the target most often confirmed by a human for
// the same merchant key.
type LearnedStrategy struct {
	store  LearnedStore
	logger logging.Logger
}

// NewLearnedStrategy creates a new LearnedStrategy instance.
func NewLearnedStrategy(store LearnedStore, logger logging.Logger) *LearnedStrategy {
	return &LearnedStrategy{store: store, logger: logging.OrDefault(logger)}
}

// Name returns the name of this strategy for logging and debugging.
func (s *LearnedStrategy) Name() string {
	return "Learned"
}

// Suggest looks the merchant key up in the learned store.
func (s *LearnedStrategy) Suggest(ctx context.Context, q Query) (string, bool, error) {
	if s.store == nil || strings.TrimSpace(q.MerchantKey) == "" {
		return "", false, nil
	}

	target, found, err := s.store.TopLearned(ctx, q.Kind, q.MerchantKey)
	if err != nil {
		return "", false, err
	}
	if found {
		s.logger.Debug("Learned suggestion",
			logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
			logging.Field{Key: logging.FieldMerchantKey, Value: q.MerchantKey},
			logging.Field{Key: string(q.Kind), Value: target},
		)
	}
	return target, found, nil
}
