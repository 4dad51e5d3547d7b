package mapping_test

import (
	"context"
	"errors"
	"testing"

	"fjacquet/ledger-import/internal/categorizer"
	"fjacquet/ledger-import/internal/dateutils"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/mapping"
	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/parsererror"
	"fjacquet/ledger-import/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var chaseProfile = models.MappingProfile{
	Name: "chase",
	ColumnMap: map[string]string{
		"Posting Date": models.FieldDate,
		"Description":  models.FieldDescription,
		"Amount":       models.FieldAmount,
	},
}

func newSuggester() *categorizer.Categorizer {
	return categorizer.NewCategorizer(nil, logging.NewMockLogger())
}

func TestMapRow_ScenarioRow(t *testing.T) {
	raw := map[string]string{"Posting Date": "07/11/2025", "Description": " STARBUCKS 123 ", "Amount": "-4.50"}

	got := mapping.MapRow(context.Background(), raw, chaseProfile, newSuggester())

	require.Empty(t, got.Errors)
	require.NotNil(t, got.Date)
	require.NotNil(t, got.Amount)
	assert.Equal(t, "2025-07-11", dateutils.ToISODate(*got.Date))
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("-4.50")))
	assert.Equal(t, "STARBUCKS 123", got.Description)
	assert.Equal(t, "chase", got.Fields[models.ParsedKeyProfile])
	assert.Equal(t, dateutils.DateLayoutUS, got.Fields[models.ParsedKeyDateLayout])
	assert.Equal(t, "STARBUCKS", got.Fields[models.ParsedKeyMerchantKey])
	assert.Equal(t, "Coffee", got.Suggestions.Subcategory)
	assert.Equal(t, "Starbucks", got.Suggestions.Payoree)
}

func TestMapRow_DateFormats(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		hint    string
		want    string
		wantErr bool
	}{
		{name: "ISO", value: "2025-07-11", want: "2025-07-11"},
		{name: "US slash", value: "07/11/2025", want: "2025-07-11"},
		{name: "EU slash when US fails", value: "25/07/2025", want: "2025-07-25"},
		{name: "EU dots", value: "11.07.2025", want: "2025-07-11"},
		{name: "Hint wins over US", value: "07/11/2025", hint: "DD/MM/YYYY", want: "2025-11-07"},
		{name: "Garbage", value: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := models.MappingProfile{
				Name:      "p",
				ColumnMap: map[string]string{"D": models.FieldDate},
				Options:   map[string]any{},
			}
			if tt.hint != "" {
				profile.Options[models.OptionDateFormat] = tt.hint
			}
			got := mapping.MapRow(context.Background(), map[string]string{"D": tt.value}, profile, nil)
			if tt.wantErr {
				assert.Nil(t, got.Date)
				assert.True(t, got.Errors.Has(models.RowErrInvalidDate))
				assert.Equal(t, tt.value, got.Fields[models.FieldDate])
				return
			}
			require.NotNil(t, got.Date)
			assert.Equal(t, tt.want, dateutils.ToISODate(*got.Date))
		})
	}
}

func TestMapRow_Amounts(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		options map[string]any
		want    string
		wantErr bool
	}{
		{name: "Thousands separator", value: "1,234.56", want: "1234.56"},
		{name: "Decimal comma", value: "1.234,56", options: map[string]any{"decimal_comma": true}, want: "1234.56"},
		{name: "Inverted sign", value: "25.00", options: map[string]any{"invert_sign": true}, want: "-25"},
		{name: "Parentheses", value: "(12.00)", want: "-12"},
		{name: "Not a number", value: "not-a-number", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := models.MappingProfile{Name: "p", ColumnMap: map[string]string{"A": models.FieldAmount}, Options: tt.options}
			got := mapping.MapRow(context.Background(), map[string]string{"A": tt.value}, profile, nil)
			if tt.wantErr {
				assert.Nil(t, got.Amount)
				assert.True(t, got.Errors.Has(models.RowErrInvalidAmount))
				assert.Equal(t, "invalid amount: "+tt.value, got.Errors.Strings()[0])
				return
			}
			require.NotNil(t, got.Amount)
			assert.True(t, got.Amount.Equal(decimal.RequireFromString(tt.want)), got.Amount.String())
		})
	}
}

func TestMapRow_EmptyRequiredFieldsAreNotParseErrors(t *testing.T) {
	raw := map[string]string{"Posting Date": "", "Description": "SOMETHING"}

	got := mapping.MapRow(context.Background(), raw, chaseProfile, nil)

	assert.Empty(t, got.Errors)
	assert.Nil(t, got.Date)
	assert.Nil(t, got.Amount)
	assert.Equal(t, "", got.Fields[models.FieldAmount])
	assert.Empty(t, got.ParseErrors)
}

func TestMapRow_ParseErrorsCarryTheCause(t *testing.T) {
	raw := map[string]string{"Posting Date": "yesterday", "Description": "X", "Amount": "12..5"}

	got := mapping.MapRow(context.Background(), raw, chaseProfile, nil)

	require.Len(t, got.ParseErrors, 2)
	assert.Equal(t, []string{"invalid date: yesterday", "invalid amount: 12..5"}, got.Errors.Strings())

	var perr *parsererror.ParseError
	require.ErrorAs(t, error(got.ParseErrors[0]), &perr)
	assert.Equal(t, models.FieldDate, perr.Field)
	assert.Equal(t, "yesterday", perr.Value)
	assert.ErrorContains(t, perr, "unable to parse date")

	assert.Equal(t, models.FieldAmount, got.ParseErrors[1].Field)
	assert.Equal(t, "12..5", got.ParseErrors[1].Value)
	assert.NotNil(t, errors.Unwrap(got.ParseErrors[1]))
}

func TestMapRow_CSVSuggestionsAreKept(t *testing.T) {
	profile := models.MappingProfile{
		Name: "p",
		ColumnMap: map[string]string{
			"Desc": models.FieldDescription,
			"Sub":  models.FieldSubcategory,
			"Memo": models.FieldMemo,
		},
	}
	raw := map[string]string{"Desc": "STARBUCKS 55", "Sub": "Treats", "Memo": "morning"}

	got := mapping.MapRow(context.Background(), raw, profile, newSuggester())

	assert.Equal(t, "Treats", got.Suggestions.Subcategory)
	assert.Equal(t, "Starbucks", got.Suggestions.Payoree)
	assert.Equal(t, "morning", got.Fields[models.FieldMemo])
}

func TestMapRow_LearnedSuggestionWins(t *testing.T) {
	learned := store.NewMockLearnedStore()
	learned.Seed(models.TargetSubcategory, "STARBUCKS", "Client Meetings", 3)
	suggester := categorizer.NewCategorizer(learned, logging.NewMockLogger())

	raw := map[string]string{"Description": "STARBUCKS 123", "Amount": "-4.50"}
	got := mapping.MapRow(context.Background(), raw, chaseProfile, suggester)

	assert.Equal(t, "Client Meetings", got.Suggestions.Subcategory)
}

func TestMapRow_NoMatchGivesNoSuggestion(t *testing.T) {
	raw := map[string]string{"Description": "LOCAL BAKERY", "Amount": "-3"}

	got := mapping.MapRow(context.Background(), raw, chaseProfile, newSuggester())

	assert.Equal(t, models.Suggestions{}, got.Suggestions)
	assert.Equal(t, "LOCAL BAKERY", got.Fields[models.ParsedKeyMerchantKey])
}

func TestMapRow_DuplicateTargetFirstNonEmptyWins(t *testing.T) {
	profile := models.MappingProfile{
		Name:      "p",
		ColumnMap: map[string]string{"Credit": models.FieldAmount, "Debit": models.FieldAmount},
	}

	got := mapping.MapRow(context.Background(), map[string]string{"Credit": "", "Debit": "-7.25"}, profile, nil)

	require.NotNil(t, got.Amount)
	assert.Equal(t, "-7.25", got.Amount.String())
}

func TestSuggestionText(t *testing.T) {
	fields := map[string]string{
		models.FieldDescription: "AMZN MKTP",
		models.FieldMemo:        " ",
		models.FieldPayoree:     "Amazon",
	}
	assert.Equal(t, "AMZN MKTP Amazon", mapping.SuggestionText(fields))
	assert.Equal(t, "", mapping.SuggestionText(map[string]string{}))
}

func TestMapper_ExtraLayouts(t *testing.T) {
	profile := models.MappingProfile{Name: "p", ColumnMap: map[string]string{"D": models.FieldDate}}
	m := mapping.NewMapper(nil, mapping.WithDateLayouts("YYYY/MM/DD"))

	got := m.MapRow(context.Background(), map[string]string{"D": "2025/07/11"}, profile)
	require.NotNil(t, got.Date)
	assert.Equal(t, "2025-07-11", dateutils.ToISODate(*got.Date))
}

func TestMappedRow_Apply(t *testing.T) {
	row := &models.ImportRow{Errors: models.RowErrors{{Kind: models.RowErrMappingFailed}}}
	mapped := mapping.MapRow(context.Background(), map[string]string{"Amount": "oops"}, chaseProfile, nil)

	mapped.Apply(row)

	assert.False(t, row.Errors.Has(models.RowErrMappingFailed))
	assert.True(t, row.Errors.Has(models.RowErrInvalidAmount))
	assert.Equal(t, "chase", row.ParsedValue(models.ParsedKeyProfile))
}

func TestMapRow_HeaderCaseInsensitive(t *testing.T) {
	profile := models.MappingProfile{Name: "p", ColumnMap: map[string]string{"amount": models.FieldAmount}}

	got := mapping.MapRow(context.Background(), map[string]string{"Amount": "3.10"}, profile, nil)

	require.NotNil(t, got.Amount)
	assert.Equal(t, "3.1", got.Amount.String())
}
