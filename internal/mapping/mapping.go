// Package mapping applies a mapping profile to a raw statement row and
// produces the typed fields, parse errors and categorization suggestions
// staged for preview.
package mapping

import (
	"context"
	"strings"
	"time"

	"fjacquet/ledger-import/internal/dateutils"
	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/parsererror"

	"github.com/shopspring/decimal"
)

// Suggester derives categorization suggestions for a row's text.
// *categorizer.Categorizer satisfies it.
type Suggester interface {
	MerchantKey(description string) string
	Suggest(ctx context.Context, description string, amount decimal.Decimal) models.Suggestions
}

// MappedRow is the result of applying a profile to one raw row.
type MappedRow struct {
	// Fields holds every mapped canonical field as its trimmed raw string,
	// plus the internal _profile, _merchant_key and _date_layout keys.
	Fields      map[string]string
	Date        *time.Time
	Amount      *decimal.Decimal
	Description string
	Suggestions models.Suggestions
	Errors      models.RowErrors
	// ParseErrors carries the cause behind each invalid_date and
	// invalid_amount entry of Errors.
	ParseErrors []*parsererror.ParseError
}

// Mapper maps raw rows with a fixed date layout list and suggester.
type Mapper struct {
	suggester   Suggester
	dateLayouts []string
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithDateLayouts appends extra layouts tried after the built-in ones.
func WithDateLayouts(layouts ...string) Option {
	return func(m *Mapper) {
		for _, l := range layouts {
			if l = dateutils.LayoutFromHint(l); l != "" {
				m.dateLayouts = append(m.dateLayouts, l)
			}
		}
	}
}

// NewMapper creates a Mapper. A nil suggester disables suggestions.
func NewMapper(suggester Suggester, opts ...Option) *Mapper {
	m := &Mapper{
		suggester:   suggester,
		dateLayouts: append([]string(nil), dateutils.RowDateFormats...),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MapRow applies profile to raw with the default date layouts.
func MapRow(ctx context.Context, raw map[string]string, profile models.MappingProfile, suggester Suggester) MappedRow {
	return NewMapper(suggester).MapRow(ctx, raw, profile)
}

// MapRow applies profile to raw. Columns are read in sorted name order; when
// several columns target the same field the first non-empty value is kept.
// Empty date and amount values are not parse errors.
func (m *Mapper) MapRow(ctx context.Context, raw map[string]string, profile models.MappingProfile) MappedRow {
	out := MappedRow{Fields: map[string]string{models.ParsedKeyProfile: profile.Name}}

	for _, column := range profile.Columns() {
		field := profile.ColumnMap[column]
		value := strings.TrimSpace(lookup(raw, column))
		if existing, ok := out.Fields[field]; ok && existing != "" {
			continue
		}
		out.Fields[field] = value
	}

	if value := out.Fields[models.FieldDate]; value != "" {
		t, layout, err := dateutils.ParseDate(value, profile.DateFormat(), m.dateLayouts)
		if err != nil {
			out.addParseError(models.RowErrInvalidDate, models.FieldDate, value, err)
		} else {
			out.Date = &t
			out.Fields[models.ParsedKeyDateLayout] = layout
		}
	}

	if value := out.Fields[models.FieldAmount]; value != "" {
		amount, err := models.ParseAmount(value, profile.DecimalComma())
		if err != nil {
			out.addParseError(models.RowErrInvalidAmount, models.FieldAmount, value, err)
		} else {
			if profile.InvertSign() {
				amount = amount.Neg()
			}
			out.Amount = &amount
		}
	}

	out.Description = out.Fields[models.FieldDescription]
	out.Suggestions = models.Suggestions{
		Subcategory: out.Fields[models.FieldSubcategory],
		Payoree:     out.Fields[models.FieldPayoree],
	}

	if m.suggester != nil {
		text := SuggestionText(out.Fields)
		out.Fields[models.ParsedKeyMerchantKey] = m.suggester.MerchantKey(text)
		if out.Suggestions.Subcategory == "" || out.Suggestions.Payoree == "" {
			amount := decimal.Zero
			if out.Amount != nil {
				amount = *out.Amount
			}
			derived := m.suggester.Suggest(ctx, text, amount)
			if out.Suggestions.Subcategory == "" {
				out.Suggestions.Subcategory = derived.Subcategory
			}
			if out.Suggestions.Payoree == "" {
				out.Suggestions.Payoree = derived.Payoree
			}
		}
	}
	return out
}

func (r *MappedRow) addParseError(kind models.RowErrorKind, field, value string, err error) {
	perr := &parsererror.ParseError{Field: field, Value: value, Err: err}
	r.ParseErrors = append(r.ParseErrors, perr)
	r.Errors = append(r.Errors, models.RowError{Kind: kind, Detail: perr.Value})
}

// lookup reads column from raw, falling back to a case-insensitive match of
// the header name.
func lookup(raw map[string]string, column string) string {
	if v, ok := raw[column]; ok {
		return v
	}
	want := strings.TrimSpace(column)
	for k, v := range raw {
		if strings.EqualFold(strings.TrimSpace(k), want) {
			return v
		}
	}
	return ""
}

// SuggestionText joins description, memo and payoree with single spaces,
// dropping empty parts.
func SuggestionText(fields map[string]string) string {
	parts := make([]string, 0, 3)
	for _, key := range []string{models.FieldDescription, models.FieldMemo, models.FieldPayoree} {
		if v := strings.TrimSpace(fields[key]); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

// Apply copies a mapping result onto a staged row, replacing anything a
// previous run left behind.
func (r MappedRow) Apply(row *models.ImportRow) {
	row.Parsed = r.Fields
	row.NormDate = r.Date
	row.NormAmount = r.Amount
	row.NormDescription = r.Description
	row.Suggestions = r.Suggestions
	row.Errors = append(models.RowErrors(nil), r.Errors...)
}
