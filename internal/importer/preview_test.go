package importer_test

import (
	"context"
	"strings"
	"testing"

	"fjacquet/ledger-import/internal/importer"
	"fjacquet/ledger-import/internal/mapping"
	"fjacquet/ledger-import/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// explodingSuggester panics on descriptions containing EXPLODE.
type explodingSuggester struct{}

func (explodingSuggester) MerchantKey(description string) string {
	return strings.ToUpper(description)
}

func (explodingSuggester) Suggest(_ context.Context, description string, _ decimal.Decimal) models.Suggestions {
	if strings.Contains(description, "EXPLODE") {
		panic("suggester exploded")
	}
	return models.Suggestions{}
}

func TestApplyMapping_PanicMarksRowAndContinues(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := importer.NewService(f.store, nil, f.logger, importer.WithMapper(mapping.NewMapper(explodingSuggester{})))

	batch := f.upload(t, "Posting Date,Description,Amount\n"+
		"07/11/2025,EXPLODE NOW,-1.00\n"+
		"07/12/2025,TARGET #0001,-25.00\n")

	res, err := svc.ApplyMapping(ctx, batch.ID, importer.MappingOptions{ProfileName: "chase"})
	require.NoError(t, err)
	assert.Equal(t, models.BatchStatusPreviewed, res.Status)
	assert.Equal(t, 1, res.Stats.Failed)
	assert.Equal(t, 1, res.Stats.Mapped)

	first, err := f.store.GetRow(ctx, batch.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"mapping failed"}, first.Errors.Strings())
	assert.False(t, first.IsDuplicate)

	second, err := f.store.GetRow(ctx, batch.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, second.Errors)
	require.NotNil(t, second.NormAmount)

	got, err := svc.GetBatch(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BatchStatusPreviewed, got.Status)
	assert.True(t, f.logger.HasEntry("ERROR", "Row mapping failed"))
}

func TestApplyMapping_LookupFailureMarksRowAndContinues(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.DB().ExecContext(ctx, `ALTER TABLE transactions RENAME COLUMN description TO label`)
	require.NoError(t, err)

	batch := f.upload(t, "Posting Date,Description,Amount\n"+
		"07/11/2025,STARBUCKS 123,-4.50\n"+
		"bad,TARGET #0001,-25.00\n")
	res := f.preview(t, batch.ID)
	assert.Equal(t, models.BatchStatusPreviewed, res.Status)
	assert.Equal(t, 1, res.Stats.Failed)

	first, err := f.store.GetRow(ctx, batch.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"mapping failed"}, first.Errors.Strings())

	second, err := f.store.GetRow(ctx, batch.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"invalid date: bad"}, second.Errors.Strings())

	got, err := f.svc.GetBatch(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BatchStatusPreviewed, got.Status)
	assert.True(t, f.logger.HasEntry("ERROR", "Row mapping failed"))
}

func TestApplyMapping_AccountColumnScopesDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	profile := models.MappingProfile{
		Name: "with-account",
		ColumnMap: map[string]string{
			"Date": models.FieldDate, "Amount": models.FieldAmount,
			"Text": models.FieldDescription, "Acct": models.FieldAccount,
		},
	}
	require.NoError(t, f.svc.ImportProfiles(ctx, []models.MappingProfile{profile}))

	seed := f.upload(t, "Date,Amount,Text,Acct\n2025-07-11,-4.50,STARBUCKS 9,SAV-9\n")
	_, err := f.svc.ApplyMapping(ctx, seed.ID, importer.MappingOptions{ProfileName: "with-account"})
	require.NoError(t, err)
	_, err = f.svc.Commit(ctx, seed.ID, "CHK")
	require.NoError(t, err)

	again := f.upload(t, "Date,Amount,Text,Acct\n"+
		"2025-07-11,-4.50,STARBUCKS 9,SAV-9\n"+
		"2025-07-11,-4.50,STARBUCKS 9,CHK\n")
	res, err := f.svc.ApplyMapping(ctx, again.ID, importer.MappingOptions{ProfileName: "with-account", AccountHint: "CHK"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.Duplicates)

	rows, err := f.svc.ListRows(ctx, again.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].IsDuplicate, "the row's own account matches the ledger record")
	assert.False(t, rows[1].IsDuplicate)

	commit, err := f.svc.Commit(ctx, again.ID, "CHK")
	require.NoError(t, err)
	assert.Equal(t, []int{0}, commit.Duplicates)
	assert.Equal(t, []int{1}, commit.Imported)
}
