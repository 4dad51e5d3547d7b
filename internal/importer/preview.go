package importer

import (
	"context"
	"errors"
	"fmt"

	"fjacquet/ledger-import/internal/duplicate"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/store"
)

// MappingOptions selects the profile and duplicate scope of a preview.
type MappingOptions struct {
	// ProfileName overrides the batch's profile when set.
	ProfileName string
	// AccountHint scopes duplicate detection; empty searches every account.
	AccountHint string
}

// ApplyMapping maps every row of a batch in index order, stores typed
// fields, suggestions, errors and duplicate flags, then marks the batch
// previewed. With no usable profile the result has NeedsProfile set and the
// batch is left untouched.
func (s *Service) ApplyMapping(ctx context.Context, batchID string, opts MappingOptions) (*models.PreviewResult, error) {
	batch, err := s.store.GetBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch.Status != models.BatchStatusUploaded && batch.Status != models.BatchStatusPreviewed {
		return nil, fmt.Errorf("%w: cannot preview a %s batch", ErrInvalidTransition, batch.Status)
	}

	logger := s.logger.WithFields(
		logging.Field{Key: logging.FieldBatchID, Value: batch.ID},
		logging.Field{Key: logging.FieldOperation, Value: "preview"},
	)

	profile, err := s.resolveProfile(ctx, batch, opts.ProfileName)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		logger.Warn("No mapping profile matches the batch headers")
		return &models.PreviewResult{BatchID: batch.ID, NeedsProfile: true, Status: batch.Status}, nil
	}
	logger = logger.WithField(logging.FieldProfile, profile.Name)

	rows, err := s.store.ListRows(ctx, batch.ID)
	if err != nil {
		return nil, err
	}

	detector := duplicate.NewDetector(s.store, logger)
	var stats models.PreviewStats
	for i := range rows {
		row := &rows[i]
		if err := s.mapOne(ctx, row, *profile, detector, opts.AccountHint, logger); err != nil {
			row.Errors = models.RowErrors{{Kind: models.RowErrMappingFailed}}
			row.IsDuplicate = false
			logger.WithError(err).Error("Row mapping failed",
				logging.Field{Key: logging.FieldRowIndex, Value: row.RowIndex})
		}
		if err := s.store.UpdateRow(ctx, row); err != nil {
			return nil, err
		}
		stats.Record(row)
	}

	if err := s.store.SetBatchProfile(ctx, batch.ID, &profile.ID); err != nil {
		return nil, err
	}
	if err := s.store.UpdateBatchStatus(ctx, batch.ID, models.BatchStatusPreviewed); err != nil {
		return nil, err
	}
	stats.LogSummary(logger, batch.ID)

	return &models.PreviewResult{
		BatchID: batch.ID,
		Profile: profile.Name,
		Status:  models.BatchStatusPreviewed,
		Stats:   stats,
	}, nil
}

// mapOne maps a single row and checks it for duplicates. A panic inside
// mapping is returned as an error. The row's account column, when mapped,
// scopes the duplicate check instead of account.
func (s *Service) mapOne(ctx context.Context, row *models.ImportRow, profile models.MappingProfile, detector *duplicate.Detector, account string, logger logging.Logger) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic while mapping row %d: %v", row.RowIndex, p)
		}
	}()

	mapped := s.mapper.MapRow(ctx, row.Raw, profile)
	mapped.Apply(row)
	row.IsDuplicate = false
	for _, perr := range mapped.ParseErrors {
		logger.WithError(perr).Debug("Row value did not parse",
			logging.Field{Key: logging.FieldRowIndex, Value: row.RowIndex})
	}

	candidate, cErr := duplicate.CandidateFromRow(row, account)
	if errors.Is(cErr, duplicate.ErrIncompleteCandidate) {
		return nil
	}
	candidate.ExcludeSource = row.BatchID
	dup, err := detector.IsDuplicate(ctx, candidate)
	if err != nil {
		return err
	}
	row.IsDuplicate = dup
	return nil
}

// resolveProfile picks the explicit profile, then the batch's stored one,
// then the first profile whose columns all appear in the batch headers.
// A nil profile without error means none applies.
func (s *Service) resolveProfile(ctx context.Context, batch *models.ImportBatch, explicit string) (*models.MappingProfile, error) {
	if explicit != "" {
		return s.store.GetProfileByName(ctx, explicit)
	}
	if batch.ProfileID != nil {
		p, err := s.store.GetProfile(ctx, *batch.ProfileID)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, store.ErrProfileNotFound) {
			return nil, err
		}
	}

	profiles, err := s.store.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		if profiles[i].MatchesHeaders(batch.Headers) {
			s.logger.Debug("Auto-detected mapping profile",
				logging.Field{Key: logging.FieldBatchID, Value: batch.ID},
				logging.Field{Key: logging.FieldProfile, Value: profiles[i].Name})
			return &profiles[i], nil
		}
	}
	return nil, nil
}
