// Package report renders preview and commit summaries for the terminal or
// as JSON/YAML documents.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"

	"gopkg.in/yaml.v3"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a flag value onto a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported report format: %s", s)
	}
}

// ReportGenerator writes summaries in one format.
type ReportGenerator struct {
	format Format
	logger logging.Logger
}

// NewReportGenerator creates a generator for format.
func NewReportGenerator(format Format, logger logging.Logger) *ReportGenerator {
	if format == "" {
		format = FormatText
	}
	return &ReportGenerator{
		format: format,
		logger: logging.OrDefault(logger).WithField("component", "ReportGenerator"),
	}
}

// BatchReport is the document shape of a batch with its rows.
type BatchReport struct {
	Batch *models.ImportBatch `json:"batch" yaml:"batch"`
	Rows  []models.ImportRow  `json:"rows" yaml:"rows"`
}

// Preview writes a mapping pass result.
func (g *ReportGenerator) Preview(w io.Writer, res *models.PreviewResult) error {
	if g.format != FormatText {
		return g.encode(w, res)
	}
	if res.NeedsProfile {
		_, err := fmt.Fprintf(w, "Batch %s needs a mapping profile (status %s)\n", res.BatchID, res.Status)
		return err
	}
	s := res.Stats
	_, err := fmt.Fprintf(w,
		"Batch %s previewed with profile %s\n"+
			"  rows:          %d\n"+
			"  mapped:        %d\n"+
			"  with errors:   %d\n"+
			"  failed:        %d\n"+
			"  duplicates:    %d\n"+
			"  suggested:     %d (%.1f%%)\n"+
			"  uncategorized: %d\n",
		res.BatchID, res.Profile, s.Total, s.Mapped, s.WithErrors, s.Failed,
		s.Duplicates, s.Suggested, s.GetSuggestionRate(), s.Uncategorized)
	return err
}

// Commit writes a commit result with per-row errors.
func (g *ReportGenerator) Commit(w io.Writer, res *models.CommitResult) error {
	if g.format != FormatText {
		return g.encode(w, res)
	}
	if _, err := fmt.Fprintf(w, "Batch %s committed to %s: %d imported, %d duplicates, %d skipped\n",
		res.BatchID, res.Account, len(res.Imported), len(res.Duplicates), len(res.Skipped)); err != nil {
		return err
	}
	for _, idx := range res.ErrorRows() {
		if _, err := fmt.Fprintf(w, "  row %d: %s\n", idx, strings.Join(res.RowErrors[idx], "; ")); err != nil {
			return err
		}
	}
	return nil
}

// Batch writes a batch and its staged rows.
func (g *ReportGenerator) Batch(w io.Writer, batch *models.ImportBatch, rows []models.ImportRow) error {
	if g.format != FormatText {
		return g.encode(w, BatchReport{Batch: batch, Rows: rows})
	}
	profile := batch.ProfileName
	if profile == "" {
		profile = "-"
	}
	if _, err := fmt.Fprintf(w, "Batch %s (%s)\n  status: %s\n  profile: %s\n  rows: %d\n",
		batch.ID, batch.SourceFilename, batch.Status, profile, batch.RowCount); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintln(w, "  "+rowLine(r)); err != nil {
			return err
		}
	}
	return nil
}

// Batches writes one line per batch.
func (g *ReportGenerator) Batches(w io.Writer, batches []models.ImportBatch) error {
	if g.format != FormatText {
		return g.encode(w, batches)
	}
	for _, b := range batches {
		if _, err := fmt.Fprintf(w, "%s  %-10s  %4d rows  %s  %s\n",
			b.ID, b.Status, b.RowCount, orDash(b.ProfileName), b.SourceFilename); err != nil {
			return err
		}
	}
	return nil
}

// Value writes any value as a document, or with %v in text mode.
func (g *ReportGenerator) Value(w io.Writer, v any) error {
	if g.format != FormatText {
		return g.encode(w, v)
	}
	_, err := fmt.Fprintf(w, "%v\n", v)
	return err
}

// Profiles writes mapping profiles.
func (g *ReportGenerator) Profiles(w io.Writer, profiles []models.MappingProfile) error {
	if g.format != FormatText {
		return g.encode(w, profiles)
	}
	for _, p := range profiles {
		cols := p.Columns()
		pairs := make([]string, 0, len(cols))
		for _, c := range cols {
			pairs = append(pairs, c+" -> "+p.ColumnMap[c])
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", p.Name, strings.Join(pairs, ", ")); err != nil {
			return err
		}
	}
	return nil
}

func rowLine(r models.ImportRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d]", r.RowIndex)
	if r.NormDate != nil {
		fmt.Fprintf(&b, " %s", r.NormDate.Format("2006-01-02"))
	}
	if r.NormAmount != nil {
		fmt.Fprintf(&b, " %s", models.FormatAmount(*r.NormAmount))
	}
	if r.NormDescription != "" {
		fmt.Fprintf(&b, " %q", r.NormDescription)
	}
	if r.Suggestions.Subcategory != "" || r.Suggestions.Payoree != "" {
		fmt.Fprintf(&b, " -> %s / %s", orDash(r.Suggestions.Subcategory), orDash(r.Suggestions.Payoree))
	}
	if r.IsDuplicate {
		b.WriteString(" [duplicate]")
	}
	if r.CommittedTransactionID != nil {
		fmt.Fprintf(&b, " [ledger #%d]", *r.CommittedTransactionID)
	}
	if len(r.Errors) > 0 {
		fmt.Fprintf(&b, " errors: %s", strings.Join(r.Errors.Strings(), "; "))
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (g *ReportGenerator) encode(w io.Writer, v any) error {
	switch g.format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			g.logger.WithError(err).Error("Failed to marshal JSON report")
			return fmt.Errorf("failed to marshal JSON report: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			g.logger.WithError(err).Error("Failed to marshal YAML report")
			return fmt.Errorf("failed to marshal YAML report: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported report format: %s", g.format)
	}
	return nil
}
