package store

import (
	"context"
	"testing"

	"fjacquet/ledger-import/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertProfile_InsertThenReplace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := &models.MappingProfile{
		Name:      "chase",
		ColumnMap: map[string]string{"Posting Date": "date", "Amount": "amount"},
		Options:   map[string]any{"date_format": "MM/DD/YYYY"},
	}
	require.NoError(t, s.UpsertProfile(ctx, p))
	firstID := p.ID
	assert.NotZero(t, firstID)

	updated := &models.MappingProfile{
		Name:        "chase",
		ColumnMap:   map[string]string{"Posting Date": "date", "Amount": "amount", "Description": "description"},
		Description: "Chase checking",
	}
	require.NoError(t, s.UpsertProfile(ctx, updated))
	assert.Equal(t, firstID, updated.ID)

	got, err := s.GetProfileByName(ctx, "chase")
	require.NoError(t, err)
	assert.Len(t, got.ColumnMap, 3)
	assert.Equal(t, "Chase checking", got.Description)
	assert.Empty(t, got.Options)

	byID, err := s.GetProfile(ctx, firstID)
	require.NoError(t, err)
	assert.Equal(t, "chase", byID.Name)
}

func TestDeleteProfile_DetachesBatches(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := &models.MappingProfile{Name: "bank", ColumnMap: map[string]string{"Date": "date"}}
	require.NoError(t, s.UpsertProfile(ctx, p))

	batch := &models.ImportBatch{SourceFilename: "a.csv", ProfileID: &p.ID}
	require.NoError(t, s.CreateBatch(ctx, batch, stagedRows(1)))

	got, err := s.GetBatch(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, "bank", got.ProfileName)

	require.NoError(t, s.DeleteProfile(ctx, "bank"))

	got, err = s.GetBatch(ctx, batch.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ProfileID)
	rows, err := s.ListRows(ctx, batch.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = s.GetProfileByName(ctx, "bank")
	assert.ErrorIs(t, err, ErrProfileNotFound)
	assert.ErrorIs(t, s.DeleteProfile(ctx, "bank"), ErrProfileNotFound)
}

func TestListProfiles_SortedByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"zeta", "alpha"} {
		require.NoError(t, s.UpsertProfile(ctx, &models.MappingProfile{Name: name, ColumnMap: map[string]string{"D": "date"}}))
	}
	profiles, err := s.ListProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "alpha", profiles[0].Name)
}
