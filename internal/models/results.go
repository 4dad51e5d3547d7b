package models

import (
	"sort"

	"fjacquet/ledger-import/internal/logging"
)

// PreviewStats tracks what a mapping pass produced.
type PreviewStats struct {
	Total         int `json:"total" yaml:"total"`                   // Rows processed
	Mapped        int `json:"mapped" yaml:"mapped"`                 // Rows with date and amount and no errors
	WithErrors    int `json:"with_errors" yaml:"with_errors"`       // Rows carrying at least one error
	Failed        int `json:"failed" yaml:"failed"`                 // Rows whose mapping panicked or errored
	Duplicates    int `json:"duplicates" yaml:"duplicates"`         // Rows flagged as already in the ledger
	Suggested     int `json:"suggested" yaml:"suggested"`           // Rows with a subcategory or payoree suggestion
	Uncategorized int `json:"uncategorized" yaml:"uncategorized"`   // Rows with no suggestion at all
}

// Record folds one mapped row into the stats.
func (s *PreviewStats) Record(row *ImportRow) {
	s.Total++
	switch {
	case row.Errors.Has(RowErrMappingFailed):
		s.Failed++
		s.WithErrors++
	case len(row.Errors) > 0:
		s.WithErrors++
	case row.HasRequired():
		s.Mapped++
	}
	if row.IsDuplicate {
		s.Duplicates++
	}
	if row.Suggestions.Subcategory != "" || row.Suggestions.Payoree != "" {
		s.Suggested++
	} else {
		s.Uncategorized++
	}
}

// GetSuggestionRate returns the share of rows with a suggestion, in percent.
func (s PreviewStats) GetSuggestionRate() float64 {
	if s.Total == 0 {
		return 0.0
	}
	return float64(s.Suggested) / float64(s.Total) * 100.0
}

// LogSummary logs the stats for a batch.
func (s PreviewStats) LogSummary(logger logging.Logger, batchID string) {
	if logger == nil {
		return
	}
	logger.Info("Preview summary",
		logging.Field{Key: logging.FieldBatchID, Value: batchID},
		logging.Field{Key: "total_rows", Value: s.Total},
		logging.Field{Key: "mapped", Value: s.Mapped},
		logging.Field{Key: "with_errors", Value: s.WithErrors},
		logging.Field{Key: "failed", Value: s.Failed},
		logging.Field{Key: "duplicates", Value: s.Duplicates},
		logging.Field{Key: "suggestion_rate", Value: s.GetSuggestionRate()},
	)
}

// PreviewResult is returned by a mapping pass.
type PreviewResult struct {
	BatchID      string       `json:"batch_id" yaml:"batch_id"`
	NeedsProfile bool         `json:"needs_profile" yaml:"needs_profile"`
	Profile      string       `json:"profile,omitempty" yaml:"profile,omitempty"`
	Status       BatchStatus  `json:"status" yaml:"status"`
	Stats        PreviewStats `json:"stats" yaml:"stats"`
}

// CommitResult partitions a batch's rows by commit outcome.
type CommitResult struct {
	BatchID    string           `json:"batch_id" yaml:"batch_id"`
	Account    string           `json:"account" yaml:"account"`
	Imported   []int            `json:"imported" yaml:"imported"`
	Duplicates []int            `json:"duplicates" yaml:"duplicates"`
	Skipped    []int            `json:"skipped" yaml:"skipped"`
	RowErrors  map[int][]string `json:"row_errors,omitempty" yaml:"row_errors,omitempty"`
}

// NewCommitResult returns an empty result with non-nil index lists.
func NewCommitResult(batchID, account string) *CommitResult {
	return &CommitResult{
		BatchID:    batchID,
		Account:    account,
		Imported:   []int{},
		Duplicates: []int{},
		Skipped:    []int{},
		RowErrors:  map[int][]string{},
	}
}

// Total returns the number of rows accounted for.
func (r *CommitResult) Total() int {
	return len(r.Imported) + len(r.Duplicates) + len(r.Skipped)
}

// ErrorRows returns the indices carrying errors, ascending.
func (r *CommitResult) ErrorRows() []int {
	idx := make([]int, 0, len(r.RowErrors))
	for i := range r.RowErrors {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}
