package store

import (
	"context"
	"testing"
	"time"

	"fjacquet/ledger-import/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stagedRows(n int) []models.ImportRow {
	rows := make([]models.ImportRow, n)
	for i := range rows {
		rows[i] = models.ImportRow{
			RowIndex: i,
			Raw:      map[string]string{"Date": "2024-01-15", "Amount": "-1.00"},
		}
	}
	return rows
}

func TestCreateBatch_AssignsIDAndRows(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	batch := &models.ImportBatch{SourceFilename: "chase.csv", Headers: []string{"Date", "Amount"}}
	require.NoError(t, s.CreateBatch(ctx, batch, stagedRows(3)))
	assert.NotEmpty(t, batch.ID)
	assert.Equal(t, 3, batch.RowCount)

	got, err := s.GetBatch(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, "chase.csv", got.SourceFilename)
	assert.Equal(t, []string{"Date", "Amount"}, got.Headers)
	assert.Equal(t, models.BatchStatusUploaded, got.Status)
	assert.Nil(t, got.ProfileID)
	assert.False(t, got.CreatedAt.IsZero())

	rows, err := s.ListRows(ctx, batch.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for i, r := range rows {
		assert.Equal(t, i, r.RowIndex)
		assert.Equal(t, "-1.00", r.Raw["Amount"])
		assert.Empty(t, r.Errors)
		assert.Nil(t, r.NormDate)
	}
}

func TestCreateBatch_EmptyUpload(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	batch := &models.ImportBatch{SourceFilename: "empty.csv"}
	require.NoError(t, s.CreateBatch(ctx, batch, nil))

	rows, err := s.ListRows(ctx, batch.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestInsertRows_DuplicateIndexRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	batch := &models.ImportBatch{SourceFilename: "a.csv"}
	require.NoError(t, s.CreateBatch(ctx, batch, stagedRows(1)))

	dup := []models.ImportRow{{BatchID: batch.ID, RowIndex: 0, Raw: map[string]string{}}}
	assert.Error(t, s.InsertRows(ctx, dup))

	rows, err := s.ListRows(ctx, batch.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestGetBatch_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetBatch(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrBatchNotFound)
}

func TestUpdateBatchStatus_Transitions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	batch := &models.ImportBatch{SourceFilename: "a.csv"}
	require.NoError(t, s.CreateBatch(ctx, batch, nil))

	require.NoError(t, s.UpdateBatchStatus(ctx, batch.ID, models.BatchStatusPreviewed))
	require.NoError(t, s.UpdateBatchStatus(ctx, batch.ID, models.BatchStatusPreviewed))
	require.NoError(t, s.UpdateBatchStatus(ctx, batch.ID, models.BatchStatusCommitting))
	require.NoError(t, s.UpdateBatchStatus(ctx, batch.ID, models.BatchStatusCommitted))

	err := s.UpdateBatchStatus(ctx, batch.ID, models.BatchStatusPreviewed)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	got, err := s.GetBatch(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BatchStatusCommitted, got.Status)
}

func TestUpdateRow_RoundTripsTypedFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	batch := &models.ImportBatch{SourceFilename: "a.csv"}
	require.NoError(t, s.CreateBatch(ctx, batch, stagedRows(2)))

	row, err := s.GetRow(ctx, batch.ID, 1)
	require.NoError(t, err)

	date := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	amount := decimal.RequireFromString("-1234.50")
	row.Parsed = map[string]string{"date": "2024-02-29", "amount": "-1234.50", models.ParsedKeyMerchantKey: "STARBUCKS"}
	row.NormDate = &date
	row.NormAmount = &amount
	row.NormDescription = "STARBUCKS #123"
	row.Suggestions = models.Suggestions{Subcategory: "Coffee", Payoree: "Starbucks"}
	row.AddError(models.RowErrMissingRequired, "")
	row.IsDuplicate = true
	require.NoError(t, s.UpdateRow(ctx, row))

	got, err := s.GetRow(ctx, batch.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, got.NormDate)
	require.NotNil(t, got.NormAmount)
	assert.True(t, date.Equal(*got.NormDate))
	assert.True(t, amount.Equal(*got.NormAmount))
	assert.Equal(t, "STARBUCKS", got.ParsedValue(models.ParsedKeyMerchantKey))
	assert.Equal(t, "Coffee", got.Suggestions.Subcategory)
	assert.True(t, got.Errors.Has(models.RowErrMissingRequired))
	assert.True(t, got.IsDuplicate)

	_, err = s.GetRow(ctx, batch.ID, 7)
	assert.ErrorIs(t, err, ErrRowNotFound)
}

func TestDeleteBatch_CascadesRows(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	batch := &models.ImportBatch{SourceFilename: "a.csv"}
	require.NoError(t, s.CreateBatch(ctx, batch, stagedRows(2)))
	require.NoError(t, s.DeleteBatch(ctx, batch.ID))

	rows, err := s.ListRows(ctx, batch.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	assert.ErrorIs(t, s.DeleteBatch(ctx, batch.ID), ErrBatchNotFound)
}

func TestListBatches(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"a.csv", "b.csv"} {
		require.NoError(t, s.CreateBatch(ctx, &models.ImportBatch{SourceFilename: name}, nil))
	}
	batches, err := s.ListBatches(ctx)
	require.NoError(t, err)
	assert.Len(t, batches, 2)
}
