package importer

import (
	"context"
	"fmt"
	"strings"

	"fjacquet/ledger-import/internal/categorizer"
	"fjacquet/ledger-import/internal/common"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/store"
)

// Correction is a human edit of a ledger record's categorization. Empty
// fields leave the current value in place.
type Correction struct {
	TransactionID int64
	Subcategory   string
	Payoree       string
}

// CorrectTransaction applies a correction to a ledger record and, when
// learning is enabled, records it under the record's merchant key so later
// suggestions for the same merchant follow it.
func (s *Service) CorrectTransaction(ctx context.Context, c Correction) (*models.Transaction, error) {
	c.Subcategory = strings.TrimSpace(c.Subcategory)
	c.Payoree = strings.TrimSpace(c.Payoree)
	if c.Subcategory == "" && c.Payoree == "" {
		return nil, ErrNothingToCorrect
	}

	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		rec, err := tx.GetTransaction(ctx, c.TransactionID)
		if err != nil {
			return err
		}
		categoryID, subcategoryID, payoreeID := rec.CategoryID, rec.SubcategoryID, rec.PayoreeID

		if c.Subcategory != "" {
			// Without a rule parent the record keeps its current category.
			if parent, ok := s.categorizer.SuggestCategoryFor(c.Subcategory); ok {
				cat, err := tx.GetOrCreateCategory(ctx, parent, nil)
				if err != nil {
					return err
				}
				categoryID = &cat.ID
			}
			sub, err := tx.GetOrCreateCategory(ctx, c.Subcategory, categoryID)
			if err != nil {
				return err
			}
			subcategoryID = &sub.ID
		}
		if c.Payoree != "" {
			p, err := tx.GetOrCreatePayoree(ctx, c.Payoree)
			if err != nil {
				return err
			}
			payoreeID = &p.ID
		}

		if err := tx.UpdateTransactionCategorization(ctx, rec.ID, categoryID, subcategoryID, payoreeID); err != nil {
			return err
		}
		if !s.learning {
			return nil
		}

		feedback := categorizer.NewFeedback(tx, s.categorizer, s.logger)
		key := rec.MerchantKey
		if key == "" {
			key = s.categorizer.MerchantKey(rec.Description)
		}
		if key == "" {
			s.logger.Warn("No merchant key for corrected record, nothing learned",
				logging.Field{Key: logging.FieldTransaction, Value: rec.ID})
			return nil
		}
		if c.Subcategory != "" {
			if err := feedback.RecordCorrection(ctx, key, models.TargetSubcategory, c.Subcategory); err != nil {
				return err
			}
		}
		if c.Payoree != "" {
			if err := feedback.RecordCorrection(ctx, key, models.TargetPayoree, c.Payoree); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.store.GetTransaction(ctx, c.TransactionID)
}

// RecordCorrection records a correction for a merchant key directly.
func (s *Service) RecordCorrection(ctx context.Context, merchantKey string, kind models.TargetKind, target string) error {
	return categorizer.NewFeedback(s.store, s.categorizer, s.logger).RecordCorrection(ctx, merchantKey, kind, target)
}

// ImportCorrections records a file of corrections in one transaction. Rows
// without a merchant key are keyed by their description. The first invalid
// row aborts the import and nothing is recorded.
func (s *Service) ImportCorrections(ctx context.Context, rows []common.CorrectionCSVRow) (int, error) {
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		feedback := categorizer.NewFeedback(tx, s.categorizer, s.logger)
		for i, row := range rows {
			kind := models.TargetKind(strings.ToLower(strings.TrimSpace(row.Kind)))
			var err error
			if strings.TrimSpace(row.MerchantKey) != "" {
				err = feedback.RecordCorrection(ctx, row.MerchantKey, kind, row.Target)
			} else {
				_, err = feedback.RecordDescriptionCorrection(ctx, row.Description, kind, row.Target)
			}
			if err != nil {
				return fmt.Errorf("correction %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}
