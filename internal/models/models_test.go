package models

import (
	"testing"
	"time"

	"fjacquet/ledger-import/internal/logging"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBatchStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from BatchStatus
		to   BatchStatus
		want bool
	}{
		{BatchStatusUploaded, BatchStatusPreviewed, true},
		{BatchStatusPreviewed, BatchStatusPreviewed, true},
		{BatchStatusPreviewed, BatchStatusCommitting, true},
		{BatchStatusCommitting, BatchStatusCommitted, true},
		{BatchStatusUploaded, BatchStatusFailed, true},
		{BatchStatusCommitting, BatchStatusFailed, true},
		{BatchStatusPreviewed, BatchStatusUploaded, false},
		{BatchStatusUploaded, BatchStatusUploaded, false},
		{BatchStatusCommitted, BatchStatusPreviewed, false},
		{BatchStatusCommitted, BatchStatusFailed, false},
		{BatchStatusFailed, BatchStatusPreviewed, false},
		{BatchStatus("bogus"), BatchStatusPreviewed, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestIsCanonicalField(t *testing.T) {
	assert.True(t, IsCanonicalField("date"))
	assert.True(t, IsCanonicalField("check_number"))
	assert.False(t, IsCanonicalField("Date"))
	assert.False(t, IsCanonicalField("_profile"))
}

func TestMappingProfile(t *testing.T) {
	p := MappingProfile{
		Name: "chase",
		ColumnMap: map[string]string{
			"Posting Date": FieldDate,
			"Description":  FieldDescription,
			"Amount":       FieldAmount,
		},
		Options: map[string]any{
			OptionDateFormat:   "MM/DD/YYYY",
			OptionInvertSign:   "true",
			OptionDecimalComma: false,
		},
	}

	assert.Equal(t, []string{"Amount", "Description", "Posting Date"}, p.Columns())
	col, ok := p.ColumnFor(FieldDate)
	assert.True(t, ok)
	assert.Equal(t, "Posting Date", col)
	_, ok = p.ColumnFor(FieldMemo)
	assert.False(t, ok)

	assert.Equal(t, "MM/DD/YYYY", p.DateFormat())
	assert.True(t, p.InvertSign())
	assert.False(t, p.DecimalComma())

	assert.True(t, p.MatchesHeaders([]string{" posting date", "Description", "AMOUNT", "Balance"}))
	assert.False(t, p.MatchesHeaders([]string{"Posting Date", "Description"}))
	assert.False(t, MappingProfile{}.MatchesHeaders([]string{"a"}))
}

func TestRowErrors(t *testing.T) {
	var row ImportRow
	row.AddError(RowErrInvalidAmount, "not-a-number")
	row.AddError(RowErrMissingRequired, "")
	row.AddError(RowErrCommitFailed, "")

	assert.True(t, row.Errors.Has(RowErrInvalidAmount))
	assert.False(t, row.Errors.Has(RowErrInvalidDate))
	assert.Equal(t, []string{
		"invalid amount: not-a-number",
		"missing required date/amount",
		"commit failed",
	}, row.Errors.Strings())
}

func TestImportRow_HasRequired(t *testing.T) {
	row := ImportRow{}
	assert.False(t, row.HasRequired())

	d := time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC)
	row.NormDate = &d
	assert.False(t, row.HasRequired())

	amt := decimal.RequireFromString("-4.50")
	row.NormAmount = &amt
	assert.True(t, row.HasRequired())
	assert.Equal(t, "", row.ParsedValue(FieldMemo))
}

func TestPreviewStats(t *testing.T) {
	d := time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC)
	amt := decimal.NewFromInt(1)
	ok := &ImportRow{NormDate: &d, NormAmount: &amt, Suggestions: Suggestions{Subcategory: "Coffee"}}
	dup := &ImportRow{NormDate: &d, NormAmount: &amt, IsDuplicate: true}
	bad := &ImportRow{Errors: RowErrors{{Kind: RowErrInvalidAmount}}}
	failed := &ImportRow{Errors: RowErrors{{Kind: RowErrMappingFailed}}}

	var stats PreviewStats
	for _, r := range []*ImportRow{ok, dup, bad, failed} {
		stats.Record(r)
	}

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Mapped)
	assert.Equal(t, 2, stats.WithErrors)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.Duplicates)
	assert.Equal(t, 1, stats.Suggested)
	assert.Equal(t, 3, stats.Uncategorized)
	assert.InDelta(t, 25.0, stats.GetSuggestionRate(), 0.001)

	logger := logging.NewMockLogger()
	stats.LogSummary(logger, "b-1")
	assert.True(t, logger.HasEntry("INFO", "Preview summary"))
	assert.Equal(t, 0.0, PreviewStats{}.GetSuggestionRate())
}

func TestCommitResult(t *testing.T) {
	r := NewCommitResult("b-1", "CHK")
	r.Imported = append(r.Imported, 0, 2)
	r.Duplicates = append(r.Duplicates, 1)
	r.Skipped = append(r.Skipped, 3)
	r.RowErrors[3] = []string{"missing required date/amount"}
	r.RowErrors[1] = []string{"x"}

	assert.Equal(t, 4, r.Total())
	assert.Equal(t, []int{1, 3}, r.ErrorRows())
}

func TestTransaction_String(t *testing.T) {
	tx := Transaction{
		ID:          42,
		Date:        time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString("-4.5"),
		Description: "STARBUCKS 123",
		Account:     "CHK-3607",
		Subcategory: "Coffee",
	}
	assert.Equal(t, `#42 2025-07-11 -4.50 "STARBUCKS 123" [CHK-3607] - / Coffee / -`, tx.String())
}
