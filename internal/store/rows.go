package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"fjacquet/ledger-import/internal/dateutils"
	"fjacquet/ledger-import/internal/models"

	"github.com/shopspring/decimal"
)

const rowColumns = `id, batch_id, row_index, raw, parsed, norm_date, norm_amount,
	norm_description, suggestions, errors, is_duplicate, committed_transaction_id`

// InsertRows bulk-inserts staged rows. The (batch_id, row_index) pair is
// unique; a repeated index fails the insert.
func (s *Store) InsertRows(ctx context.Context, rows []models.ImportRow) error {
	if len(rows) == 0 {
		return nil
	}
	return s.WithTx(ctx, func(tx *Store) error {
		for i := range rows {
			r := &rows[i]
			cols, err := encodeRow(r)
			if err != nil {
				return fmt.Errorf("row %d: %w", r.RowIndex, err)
			}
			err = tx.queryRow(ctx, `INSERT INTO import_rows
				(batch_id, row_index, raw, parsed, norm_date, norm_amount, norm_description,
				 suggestions, errors, is_duplicate, committed_transaction_id)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
				r.BatchID, r.RowIndex, cols.raw, cols.parsed, cols.date, cols.amount, r.NormDescription,
				cols.suggestions, cols.errors, boolInt(r.IsDuplicate), nullInt64(r.CommittedTransactionID),
			).Scan(&r.ID)
			if err != nil {
				return fmt.Errorf("insert row %d: %w", r.RowIndex, err)
			}
		}
		return nil
	})
}

// ListRows returns the rows of a batch in row_index order.
func (s *Store) ListRows(ctx context.Context, batchID string) ([]models.ImportRow, error) {
	rows, err := s.query(ctx, `SELECT `+rowColumns+` FROM import_rows
		WHERE batch_id = ? ORDER BY row_index`, batchID)
	if err != nil {
		return nil, fmt.Errorf("list rows of %s: %w", batchID, err)
	}
	defer func() { _ = rows.Close() }()

	out := []models.ImportRow{}
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// GetRow loads one row by batch and index.
func (s *Store) GetRow(ctx context.Context, batchID string, index int) (*models.ImportRow, error) {
	r, err := scanRow(s.queryRow(ctx, `SELECT `+rowColumns+` FROM import_rows
		WHERE batch_id = ? AND row_index = ?`, batchID, index))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s[%d]", ErrRowNotFound, batchID, index)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateRow writes back every mutable column of a row identified by
// (batch_id, row_index).
func (s *Store) UpdateRow(ctx context.Context, r *models.ImportRow) error {
	cols, err := encodeRow(r)
	if err != nil {
		return fmt.Errorf("row %d: %w", r.RowIndex, err)
	}
	res, err := s.exec(ctx, `UPDATE import_rows SET
		parsed = ?, norm_date = ?, norm_amount = ?, norm_description = ?,
		suggestions = ?, errors = ?, is_duplicate = ?, committed_transaction_id = ?
		WHERE batch_id = ? AND row_index = ?`,
		cols.parsed, cols.date, cols.amount, r.NormDescription,
		cols.suggestions, cols.errors, boolInt(r.IsDuplicate), nullInt64(r.CommittedTransactionID),
		r.BatchID, r.RowIndex)
	if err != nil {
		return fmt.Errorf("update row %d: %w", r.RowIndex, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s[%d]", ErrRowNotFound, r.BatchID, r.RowIndex)
	}
	return nil
}

type encodedRow struct {
	raw, parsed, suggestions, errors string
	date, amount                     sql.NullString
}

func encodeRow(r *models.ImportRow) (encodedRow, error) {
	var (
		out encodedRow
		err error
	)
	raw := r.Raw
	if raw == nil {
		raw = map[string]string{}
	}
	parsed := r.Parsed
	if parsed == nil {
		parsed = map[string]string{}
	}
	errs := r.Errors
	if errs == nil {
		errs = models.RowErrors{}
	}
	if out.raw, err = encodeJSON(raw); err != nil {
		return out, err
	}
	if out.parsed, err = encodeJSON(parsed); err != nil {
		return out, err
	}
	if out.suggestions, err = encodeJSON(r.Suggestions); err != nil {
		return out, err
	}
	if out.errors, err = encodeJSON(errs); err != nil {
		return out, err
	}
	if r.NormDate != nil {
		out.date = sql.NullString{String: dateutils.ToISODate(*r.NormDate), Valid: true}
	}
	if r.NormAmount != nil {
		out.amount = sql.NullString{String: models.CanonicalAmount(*r.NormAmount), Valid: true}
	}
	return out, nil
}

func scanRow(sc scanner) (*models.ImportRow, error) {
	var (
		r                                models.ImportRow
		raw, parsed, suggestions, errStr string
		date, amount                     sql.NullString
		dup                              int
		txID                             sql.NullInt64
	)
	if err := sc.Scan(&r.ID, &r.BatchID, &r.RowIndex, &raw, &parsed, &date, &amount,
		&r.NormDescription, &suggestions, &errStr, &dup, &txID); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(raw), &r.Raw); err != nil {
		return nil, fmt.Errorf("decode raw row: %w", err)
	}
	if err := json.Unmarshal([]byte(parsed), &r.Parsed); err != nil {
		return nil, fmt.Errorf("decode parsed row: %w", err)
	}
	if err := json.Unmarshal([]byte(suggestions), &r.Suggestions); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}
	if err := json.Unmarshal([]byte(errStr), &r.Errors); err != nil {
		return nil, fmt.Errorf("decode row errors: %w", err)
	}
	if date.Valid {
		t, err := dateutils.FromISODate(date.String)
		if err != nil {
			return nil, fmt.Errorf("decode norm_date: %w", err)
		}
		r.NormDate = &t
	}
	if amount.Valid {
		d, err := decimal.NewFromString(amount.String)
		if err != nil {
			return nil, fmt.Errorf("decode norm_amount: %w", err)
		}
		r.NormAmount = &d
	}
	r.IsDuplicate = dup != 0
	r.CommittedTransactionID = int64Ptr(txID)
	return &r, nil
}

func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
