package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"fjacquet/ledger-import/internal/fileutils"
	"fjacquet/ledger-import/internal/importer"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"
)

// Importer is the part of the import pipeline a run drives.
type Importer interface {
	Upload(ctx context.Context, filename string, r io.Reader, profileName string) (*models.ImportBatch, error)
	ApplyMapping(ctx context.Context, batchID string, opts importer.MappingOptions) (*models.PreviewResult, error)
	Commit(ctx context.Context, batchID, account string) (*models.CommitResult, error)
}

// RunOptions controls a multi-file import.
type RunOptions struct {
	Profile string // mapping profile for every file; empty auto-detects
	Account string // overrides the account guessed from file names
	Commit  bool   // commit each previewed batch
}

// FileResult is the outcome of one file.
type FileResult struct {
	File    string                `json:"file" yaml:"file"`
	Account string                `json:"account" yaml:"account"`
	BatchID string                `json:"batch_id,omitempty" yaml:"batch_id,omitempty"`
	Preview *models.PreviewResult `json:"preview,omitempty" yaml:"preview,omitempty"`
	Commit  *models.CommitResult  `json:"commit,omitempty" yaml:"commit,omitempty"`
	Error   string                `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the file could not be taken as far as requested.
func (r FileResult) Failed() bool {
	return r.Error != ""
}

// ErrNeedsProfile marks a file no stored profile could be matched to.
var ErrNeedsProfile = errors.New("no mapping profile matches the file headers")

// Runner uploads, previews and optionally commits many files.
type Runner struct {
	importer   Importer
	aggregator *BatchAggregator
	logger     logging.Logger
}

// NewRunner creates a Runner over imp.
func NewRunner(imp Importer, logger logging.Logger) *Runner {
	logger = logging.OrDefault(logger)
	return &Runner{
		importer:   imp,
		aggregator: NewBatchAggregator(logger),
		logger:     logger,
	}
}

// Run processes files grouped by account. A failing file is reported in its
// result and does not stop the others; only a cancelled context aborts the
// run.
func (r *Runner) Run(ctx context.Context, files []string, opts RunOptions) ([]FileResult, error) {
	var results []FileResult
	for _, group := range r.aggregator.GroupFilesByAccount(files) {
		account := group.AccountID
		if opts.Account != "" {
			account = opts.Account
		}

		r.logger.Info("Importing account group",
			logging.Field{Key: logging.FieldAccount, Value: account},
			logging.Field{Key: "file_count", Value: len(group.Files)},
			logging.Field{Key: "date_range", Value: group.DateRange.String()})

		for _, file := range group.Files {
			if err := ctx.Err(); err != nil {
				return results, err
			}
			res := r.runFile(ctx, file, account, opts)
			if res.Failed() {
				r.logger.Warn("File import failed",
					logging.Field{Key: logging.FieldFile, Value: file},
					logging.Field{Key: logging.FieldError, Value: res.Error})
			}
			results = append(results, res)
		}
	}
	return results, nil
}

func (r *Runner) runFile(ctx context.Context, file, account string, opts RunOptions) FileResult {
	res := FileResult{File: file, Account: account}

	err := func() error {
		f, err := fileutils.OpenFile(file)
		if err != nil {
			return err
		}
		defer f.Close()

		batch, err := r.importer.Upload(ctx, filepath.Base(file), f, opts.Profile)
		if err != nil {
			return fmt.Errorf("upload: %w", err)
		}
		res.BatchID = batch.ID

		preview, err := r.importer.ApplyMapping(ctx, batch.ID, importer.MappingOptions{
			ProfileName: opts.Profile,
			AccountHint: account,
		})
		if err != nil {
			return fmt.Errorf("preview: %w", err)
		}
		res.Preview = preview
		if preview.NeedsProfile {
			return ErrNeedsProfile
		}

		if !opts.Commit {
			return nil
		}
		committed, err := r.importer.Commit(ctx, batch.ID, account)
		if err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		res.Commit = committed
		return nil
	}()
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

// RunSummary renders run results, one line per file.
type RunSummary []FileResult

// String renders the summary for the terminal.
func (s RunSummary) String() string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s [%s]", filepath.Base(r.File), r.Account)
		if r.BatchID != "" {
			fmt.Fprintf(&b, " batch %s", r.BatchID)
		}
		if r.Preview != nil && !r.Preview.NeedsProfile {
			fmt.Fprintf(&b, ": %d/%d mapped", r.Preview.Stats.Mapped, r.Preview.Stats.Total)
		}
		if r.Commit != nil {
			fmt.Fprintf(&b, ", %d imported, %d duplicates, %d skipped",
				len(r.Commit.Imported), len(r.Commit.Duplicates), len(r.Commit.Skipped))
		}
		if r.Failed() {
			fmt.Fprintf(&b, " FAILED: %s", r.Error)
		}
	}
	return b.String()
}
