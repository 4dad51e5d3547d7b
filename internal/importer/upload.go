package importer

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"fjacquet/ledger-import/internal/common"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"
)

// Upload stages a statement: one batch plus one row per non-blank line,
// indexed in input order. An empty or header-only upload yields a batch with
// no rows. Unreadable input creates nothing and returns the error.
// profileName, when set, is stored as the batch's profile.
func (s *Service) Upload(ctx context.Context, filename string, r io.Reader, profileName string) (*models.ImportBatch, error) {
	logger := s.logger.WithField(logging.FieldFile, filename)

	reader, err := common.OpenUpload(filename, r, s.delimiter, logger)
	if err != nil {
		return nil, err
	}

	var rows []models.ImportRow
	for rec := range reader.All() {
		rows = append(rows, models.ImportRow{
			RowIndex: len(rows),
			Raw:      rec,
		})
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("read upload %s: %w", filename, err)
	}

	batch := &models.ImportBatch{
		SourceFilename: filepath.Base(filename),
		Headers:        reader.Headers(),
		Status:         models.BatchStatusUploaded,
	}
	if profileName != "" {
		profile, err := s.store.GetProfileByName(ctx, profileName)
		if err != nil {
			return nil, err
		}
		batch.ProfileID = &profile.ID
		batch.ProfileName = profile.Name
	}

	if err := s.store.CreateBatch(ctx, batch, rows); err != nil {
		return nil, err
	}
	return batch, nil
}
