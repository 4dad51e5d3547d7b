// Package batch imports many statement files in one run, grouping them by
// the account their file names point to.
package batch

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"fjacquet/ledger-import/internal/common"
	"fjacquet/ledger-import/internal/logging"
)

// DateRange represents a date range with start and end dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the date range in the format "YYYY-MM-DD_YYYY-MM-DD"
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s",
		dr.Start.Format("2006-01-02"),
		dr.End.Format("2006-01-02"))
}

// Merge combines this date range with another, returning the overall range
func (dr DateRange) Merge(other DateRange) DateRange {
	start := dr.Start
	end := dr.End

	if dr.Start.IsZero() {
		start = other.Start
	} else if !other.Start.IsZero() && other.Start.Before(start) {
		start = other.Start
	}

	if dr.End.IsZero() {
		end = other.End
	} else if !other.End.IsZero() && other.End.After(end) {
		end = other.End
	}

	return DateRange{Start: start, End: end}
}

// FileGroup represents a group of files that belong to the same account
type FileGroup struct {
	AccountID string    // The account identifier
	Source    string    // "filename" when a known pattern matched, else "default"
	Files     []string  // List of file paths, in input order
	DateRange DateRange // Overall date range for all files
}

// BatchAggregator groups statement files by account
type BatchAggregator struct {
	logger logging.Logger
}

// NewBatchAggregator creates a new BatchAggregator instance
func NewBatchAggregator(logger logging.Logger) *BatchAggregator {
	return &BatchAggregator{
		logger: logging.OrDefault(logger),
	}
}

// GroupFilesByAccount groups files by the account guessed from their names.
// Groups are sorted by account.
func (ba *BatchAggregator) GroupFilesByAccount(files []string) []FileGroup {
	accountGroups := make(map[string]*FileGroup)

	for _, file := range files {
		accountID := common.AccountFromFilename(file)

		ba.logger.Debug("File mapped to account",
			logging.Field{Key: logging.FieldFile, Value: filepath.Base(file)},
			logging.Field{Key: logging.FieldAccount, Value: accountID.ID},
			logging.Field{Key: "source", Value: accountID.Source})

		group, exists := accountGroups[accountID.ID]
		if !exists {
			group = &FileGroup{
				AccountID: accountID.ID,
				Source:    accountID.Source,
			}
			accountGroups[accountID.ID] = group
		}

		group.Files = append(group.Files, file)
		group.DateRange = group.DateRange.Merge(DateRangeFromFilename(file))
	}

	groups := make([]FileGroup, 0, len(accountGroups))
	for _, group := range accountGroups {
		groups = append(groups, *group)
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].AccountID < groups[j].AccountID
	})

	ba.logger.Info("Grouped files into account groups",
		logging.Field{Key: "total_files", Value: len(files)},
		logging.Field{Key: "account_groups", Value: len(groups)})

	return groups
}

var filenameDateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}|\d{8}`)

// DateRangeFromFilename spans the dates (YYYYMMDD or YYYY-MM-DD) found in
// a statement file name, e.g. Chase3607_Activity_20250711.CSV. A single date
// yields a one-day range; no date yields the zero range.
func DateRangeFromFilename(filename string) DateRange {
	baseName := filepath.Base(filename)

	var dr DateRange
	for _, token := range filenameDateRe.FindAllString(baseName, -1) {
		layout := "20060102"
		if len(token) == len("2006-01-02") {
			layout = "2006-01-02"
		}
		if d, err := time.Parse(layout, token); err == nil {
			dr = dr.Merge(DateRange{Start: d, End: d})
		}
	}
	return dr
}
