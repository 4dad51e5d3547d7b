package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"

	"github.com/google/uuid"
)

const batchColumns = `b.id, b.source_filename, b.headers, b.row_count, b.profile_id,
	COALESCE(p.name, ''), b.status, b.notes, b.created_at, b.updated_at`

// CreateBatch inserts a batch and its rows in one transaction. An empty batch
// ID is replaced by a fresh UUID; timestamps and row count are set here.
func (s *Store) CreateBatch(ctx context.Context, batch *models.ImportBatch, rows []models.ImportRow) error {
	if batch.ID == "" {
		batch.ID = uuid.NewString()
	}
	if batch.Status == "" {
		batch.Status = models.BatchStatusUploaded
	}
	if batch.Headers == nil {
		batch.Headers = []string{}
	}
	now := time.Now().UTC()
	batch.CreatedAt = now
	batch.UpdatedAt = now
	batch.RowCount = len(rows)

	headers, err := json.Marshal(batch.Headers)
	if err != nil {
		return fmt.Errorf("encode headers: %w", err)
	}

	err = s.WithTx(ctx, func(tx *Store) error {
		if _, err := tx.exec(ctx, `INSERT INTO import_batches
			(id, source_filename, headers, row_count, profile_id, status, notes, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			batch.ID, batch.SourceFilename, string(headers), batch.RowCount, nullInt64(batch.ProfileID),
			string(batch.Status), batch.Notes, formatTime(now), formatTime(now)); err != nil {
			return fmt.Errorf("insert batch: %w", err)
		}
		for i := range rows {
			rows[i].BatchID = batch.ID
		}
		return tx.InsertRows(ctx, rows)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Created import batch",
		logging.Field{Key: logging.FieldBatchID, Value: batch.ID},
		logging.Field{Key: logging.FieldFile, Value: batch.SourceFilename},
		logging.Field{Key: logging.FieldCount, Value: batch.RowCount})
	return nil
}

// GetBatch loads a batch with its profile name.
func (s *Store) GetBatch(ctx context.Context, id string) (*models.ImportBatch, error) {
	row := s.queryRow(ctx, `SELECT `+batchColumns+`
		FROM import_batches b LEFT JOIN mapping_profiles p ON p.id = b.profile_id
		WHERE b.id = ?`, id)
	b, err := scanBatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrBatchNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get batch %s: %w", id, err)
	}
	return b, nil
}

// ListBatches returns every batch, newest first.
func (s *Store) ListBatches(ctx context.Context) ([]models.ImportBatch, error) {
	rows, err := s.query(ctx, `SELECT `+batchColumns+`
		FROM import_batches b LEFT JOIN mapping_profiles p ON p.id = b.profile_id
		ORDER BY b.created_at DESC, b.id`)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.ImportBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// UpdateBatchStatus moves a batch to a new status. Transitions the lifecycle
// does not allow are rejected with ErrInvalidTransition.
func (s *Store) UpdateBatchStatus(ctx context.Context, id string, status models.BatchStatus) error {
	current, err := s.GetBatch(ctx, id)
	if err != nil {
		return err
	}
	if !current.Status.CanTransitionTo(status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, status)
	}
	return s.updateBatch(ctx, id, `status = ?`, string(status))
}

// SetBatchProfile records the profile a batch was mapped with. A nil id
// clears the reference.
func (s *Store) SetBatchProfile(ctx context.Context, id string, profileID *int64) error {
	return s.updateBatch(ctx, id, `profile_id = ?`, nullInt64(profileID))
}

// UpdateBatchNotes replaces the free-text notes.
func (s *Store) UpdateBatchNotes(ctx context.Context, id, notes string) error {
	return s.updateBatch(ctx, id, `notes = ?`, notes)
}

func (s *Store) updateBatch(ctx context.Context, id, set string, value any) error {
	res, err := s.exec(ctx, `UPDATE import_batches SET `+set+`, updated_at = ? WHERE id = ?`,
		value, formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("update batch %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update batch %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrBatchNotFound, id)
	}
	return nil
}

// DeleteBatch removes a batch; its rows go with it.
func (s *Store) DeleteBatch(ctx context.Context, id string) error {
	res, err := s.exec(ctx, `DELETE FROM import_batches WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete batch %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrBatchNotFound, id)
	}
	s.logger.Info("Deleted import batch", logging.Field{Key: logging.FieldBatchID, Value: id})
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBatch(sc scanner) (*models.ImportBatch, error) {
	var (
		b                models.ImportBatch
		headers, status  string
		created, updated string
		profileID        sql.NullInt64
	)
	if err := sc.Scan(&b.ID, &b.SourceFilename, &headers, &b.RowCount, &profileID,
		&b.ProfileName, &status, &b.Notes, &created, &updated); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(headers), &b.Headers); err != nil {
		return nil, fmt.Errorf("decode headers: %w", err)
	}
	b.ProfileID = int64Ptr(profileID)
	b.Status = models.BatchStatus(status)
	b.CreatedAt = parseTime(created)
	b.UpdatedAt = parseTime(updated)
	return &b, nil
}
