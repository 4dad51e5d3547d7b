package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fjacquet/ledger-import/internal/categorizer"
	"fjacquet/ledger-import/internal/duplicate"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/mapping"
	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/store"
)

type rowOutcome int

const (
	outcomeImported rowOutcome = iota
	outcomeDuplicate
	outcomeSkipped
)

// Commit writes the previewed rows of a batch into the ledger under account.
// Each row runs in its own savepoint inside one transaction, so a failing
// row is rolled back and skipped while its siblings commit. The batch ends
// committed whatever the row outcomes; if the transaction itself fails the
// batch is marked failed and the error returned.
func (s *Service) Commit(ctx context.Context, batchID, account string) (*models.CommitResult, error) {
	account = strings.TrimSpace(account)
	if account == "" {
		return nil, ErrAccountRequired
	}

	batch, err := s.store.GetBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch.Status != models.BatchStatusPreviewed {
		return nil, fmt.Errorf("%w: batch %s is %s, preview it first", ErrInvalidTransition, batch.ID, batch.Status)
	}

	logger := s.logger.WithFields(
		logging.Field{Key: logging.FieldBatchID, Value: batch.ID},
		logging.Field{Key: logging.FieldAccount, Value: account},
		logging.Field{Key: logging.FieldOperation, Value: "commit"},
	)

	if err := s.store.UpdateBatchStatus(ctx, batch.ID, models.BatchStatusCommitting); err != nil {
		return nil, err
	}

	start := time.Now()
	var result *models.CommitResult
	err = s.store.WithTx(ctx, func(tx *store.Store) error {
		result = models.NewCommitResult(batch.ID, account)
		rows, err := tx.ListRows(ctx, batch.ID)
		if err != nil {
			return err
		}

		detector := duplicate.NewDetector(tx, logger)
		cat := s.categorizer.WithLearnedStore(tx)
		for i := range rows {
			outcome, err := s.commitRow(ctx, tx, cat, detector, &rows[i], account, logger)
			if err != nil {
				return err
			}
			idx := rows[i].RowIndex
			switch outcome {
			case outcomeImported:
				result.Imported = append(result.Imported, idx)
			case outcomeDuplicate:
				result.Duplicates = append(result.Duplicates, idx)
			default:
				result.Skipped = append(result.Skipped, idx)
			}
			if len(rows[i].Errors) > 0 {
				result.RowErrors[idx] = rows[i].Errors.Strings()
			}
		}
		return tx.UpdateBatchStatus(ctx, batch.ID, models.BatchStatusCommitted)
	})
	if err != nil {
		logger.WithError(err).Error("Commit failed")
		if markErr := s.store.UpdateBatchStatus(ctx, batch.ID, models.BatchStatusFailed); markErr != nil {
			logger.WithError(markErr).Warn("Could not mark batch as failed")
		}
		return nil, fmt.Errorf("commit batch %s: %w", batch.ID, err)
	}

	logger.Info("Committed batch",
		logging.Field{Key: "imported", Value: len(result.Imported)},
		logging.Field{Key: "duplicates", Value: len(result.Duplicates)},
		logging.Field{Key: "skipped", Value: len(result.Skipped)},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})
	return result, nil
}

// commitRow settles one row. Only datastore failures outside the row's
// savepoint are returned as errors.
func (s *Service) commitRow(ctx context.Context, tx *store.Store, cat *categorizer.Categorizer, detector *duplicate.Detector, row *models.ImportRow, account string, logger logging.Logger) (rowOutcome, error) {
	if row.CommittedTransactionID != nil {
		return outcomeImported, nil
	}
	if row.IsDuplicate {
		return outcomeDuplicate, nil
	}
	if !row.HasRequired() {
		if !row.Errors.Has(models.RowErrMissingRequired) {
			row.AddError(models.RowErrMissingRequired, "")
		}
		return outcomeSkipped, tx.UpdateRow(ctx, row)
	}

	if csvAccount := row.ParsedValue(models.FieldAccount); csvAccount != "" {
		account = csvAccount
	}

	candidate, err := duplicate.CandidateFromRow(row, account)
	if err != nil {
		return outcomeSkipped, err
	}
	candidate.ExcludeSource = row.BatchID
	dup, err := detector.IsDuplicate(ctx, candidate)
	if err != nil {
		return outcomeSkipped, err
	}
	if dup {
		row.IsDuplicate = true
		return outcomeDuplicate, tx.UpdateRow(ctx, row)
	}

	var txID int64
	err = tx.Savepoint(ctx, func() error {
		rec, err := buildTransaction(ctx, tx, cat, row, account)
		if err != nil {
			return err
		}
		if err := tx.InsertTransaction(ctx, rec); err != nil {
			return err
		}
		committed := *row
		committed.CommittedTransactionID = &rec.ID
		if err := tx.UpdateRow(ctx, &committed); err != nil {
			return err
		}
		txID = rec.ID
		return nil
	})
	if err != nil {
		logger.WithError(err).Warn("Row commit failed",
			logging.Field{Key: logging.FieldRowIndex, Value: row.RowIndex})
		row.AddError(models.RowErrCommitFailed, "")
		return outcomeSkipped, tx.UpdateRow(ctx, row)
	}

	row.CommittedTransactionID = &txID
	return outcomeImported, nil
}

// buildTransaction resolves categorization and reference ids for a row.
// CSV values win over preview suggestions, which win over a fresh
// derivation from the row text.
func buildTransaction(ctx context.Context, tx *store.Store, cat *categorizer.Categorizer, row *models.ImportRow, account string) (*models.Transaction, error) {
	text := mapping.SuggestionText(row.Parsed)
	rec := &models.Transaction{
		Date:        *row.NormDate,
		Amount:      *row.NormAmount,
		Description: row.NormDescription,
		Account:     account,
		Memo:        row.ParsedValue(models.FieldMemo),
		CheckNumber: row.ParsedValue(models.FieldCheckNumber),
		Source:      row.BatchID,
		MerchantKey: row.ParsedValue(models.ParsedKeyMerchantKey),
	}
	if rec.MerchantKey == "" && text != "" {
		rec.MerchantKey = cat.MerchantKey(text)
	}

	var catErrs []string
	subName := firstNonEmpty(row.ParsedValue(models.FieldSubcategory), row.Suggestions.Subcategory)
	if subName == "" && text != "" {
		name, _, err := cat.SuggestSubcategory(ctx, text, rec.Amount)
		if err != nil {
			catErrs = append(catErrs, err.Error())
		}
		subName = name
	}
	payName := firstNonEmpty(row.ParsedValue(models.FieldPayoree), row.Suggestions.Payoree)
	if payName == "" && text != "" {
		name, _, err := cat.SuggestPayoree(ctx, text)
		if err != nil {
			catErrs = append(catErrs, err.Error())
		}
		payName = name
	}
	catName := row.ParsedValue(models.FieldCategory)
	if catName == "" && subName != "" {
		catName, _ = cat.SuggestCategoryFor(subName)
	}
	rec.CategorizationError = strings.Join(catErrs, "; ")

	if catName != "" {
		c, err := tx.GetOrCreateCategory(ctx, catName, nil)
		if err != nil {
			return nil, err
		}
		rec.CategoryID = &c.ID
		rec.Category = c.Name
	}
	if subName != "" && !strings.EqualFold(subName, catName) {
		c, err := tx.GetOrCreateCategory(ctx, subName, rec.CategoryID)
		if err != nil {
			return nil, err
		}
		rec.SubcategoryID = &c.ID
		rec.Subcategory = c.Name
	}
	if payName != "" {
		p, err := tx.GetOrCreatePayoree(ctx, payName)
		if err != nil {
			return nil, err
		}
		rec.PayoreeID = &p.ID
		rec.Payoree = p.Name
	}
	return rec, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
