package categorizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"
)

var (
	// ErrEmptyMerchantKey is returned when a correction has no merchant key.
	ErrEmptyMerchantKey = errors.New("merchant key is required")
	// ErrEmptyTarget is returned when a correction names no target.
	ErrEmptyTarget = errors.New("target name is required")
)

// Feedback records human corrections into the learned store.
type Feedback struct {
	store  LearnedStore
	keys   *Categorizer
	logger logging.Logger
}

// NewFeedback creates a Feedback writing to store. keys derives merchant
// keys from descriptions.
func NewFeedback(store LearnedStore, keys *Categorizer, logger logging.Logger) *Feedback {
	return &Feedback{store: store, keys: keys, logger: logging.OrDefault(logger)}
}

// RecordCorrection increments the learned counter for (merchantKey,
// targetName) of the given kind, creating it with a count of one.
func (f *Feedback) RecordCorrection(ctx context.Context, merchantKey string, kind models.TargetKind, targetName string) error {
	merchantKey = strings.TrimSpace(merchantKey)
	targetName = strings.TrimSpace(targetName)
	if merchantKey == "" {
		return ErrEmptyMerchantKey
	}
	if targetName == "" {
		return ErrEmptyTarget
	}
	if !kind.Valid() {
		return fmt.Errorf("unknown correction kind %q", kind)
	}

	if err := f.store.IncrementLearned(ctx, kind, merchantKey, targetName); err != nil {
		return fmt.Errorf("failed to record %s correction for %s: %w", kind, merchantKey, err)
	}

	f.logger.Info("Recorded correction",
		logging.Field{Key: logging.FieldMerchantKey, Value: merchantKey},
		logging.Field{Key: "kind", Value: string(kind)},
		logging.Field{Key: "target", Value: targetName},
	)
	return nil
}

// RecordDescriptionCorrection derives the merchant key from description and
// records the correction under it.
func (f *Feedback) RecordDescriptionCorrection(ctx context.Context, description string, kind models.TargetKind, targetName string) (string, error) {
	key := f.keys.MerchantKey(description)
	return key, f.RecordCorrection(ctx, key, kind, targetName)
}
