package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RowErrorKind is the closed set of problems a staged row can carry.
type RowErrorKind string

const (
	RowErrInvalidDate     RowErrorKind = "invalid_date"
	RowErrInvalidAmount   RowErrorKind = "invalid_amount"
	RowErrMappingFailed   RowErrorKind = "mapping_failed"
	RowErrMissingRequired RowErrorKind = "missing_required"
	RowErrCommitFailed    RowErrorKind = "commit_failed"
)

// RowError is one annotation on a staged row.
type RowError struct {
	Kind   RowErrorKind `json:"kind" yaml:"kind"`
	Detail string       `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// String renders the error for display.
func (e RowError) String() string {
	var base string
	switch e.Kind {
	case RowErrInvalidDate:
		base = "invalid date"
	case RowErrInvalidAmount:
		base = "invalid amount"
	case RowErrMappingFailed:
		base = "mapping failed"
	case RowErrMissingRequired:
		return "missing required date/amount"
	case RowErrCommitFailed:
		base = "commit failed"
	default:
		base = string(e.Kind)
	}
	if e.Detail == "" {
		return base
	}
	return base + ": " + e.Detail
}

// RowErrors is the error list stored on a row.
type RowErrors []RowError

// Strings renders every error for display.
func (es RowErrors) Strings() []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.String())
	}
	return out
}

// Has reports whether an error of the given kind is present.
func (es RowErrors) Has(kind RowErrorKind) bool {
	for _, e := range es {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// Suggestions holds the categorization proposed for a row.
type Suggestions struct {
	Subcategory string `json:"subcategory,omitempty" yaml:"subcategory,omitempty"`
	Payoree     string `json:"payoree,omitempty" yaml:"payoree,omitempty"`
}

// ImportRow is one physical line of an uploaded statement.
type ImportRow struct {
	ID                     int64             `json:"id" yaml:"id"`
	BatchID                string            `json:"batch_id" yaml:"batch_id"`
	RowIndex               int               `json:"row_index" yaml:"row_index"`
	Raw                    map[string]string `json:"raw" yaml:"raw"`
	Parsed                 map[string]string `json:"parsed,omitempty" yaml:"parsed,omitempty"`
	NormDate               *time.Time        `json:"norm_date,omitempty" yaml:"norm_date,omitempty"`
	NormAmount             *decimal.Decimal  `json:"norm_amount,omitempty" yaml:"norm_amount,omitempty"`
	NormDescription        string            `json:"norm_description,omitempty" yaml:"norm_description,omitempty"`
	Suggestions            Suggestions       `json:"suggestions" yaml:"suggestions"`
	Errors                 RowErrors         `json:"errors,omitempty" yaml:"errors,omitempty"`
	IsDuplicate            bool              `json:"is_duplicate" yaml:"is_duplicate"`
	CommittedTransactionID *int64            `json:"committed_transaction_id,omitempty" yaml:"committed_transaction_id,omitempty"`
}

// AddError appends an error annotation.
func (r *ImportRow) AddError(kind RowErrorKind, detail string) {
	r.Errors = append(r.Errors, RowError{Kind: kind, Detail: detail})
}

// HasRequired reports whether the row carries a normalized date and amount.
func (r *ImportRow) HasRequired() bool {
	return r.NormDate != nil && r.NormAmount != nil
}

// ParsedValue returns a parsed field, or "" when absent.
func (r *ImportRow) ParsedValue(field string) string {
	if r.Parsed == nil {
		return ""
	}
	return r.Parsed[field]
}
