// Package export writes ledger records as CSV
package export

import (
	"fmt"
	"io"
	"time"

	"fjacquet/ledger-import/cmd/root"
	"fjacquet/ledger-import/internal/dateutils"
	"fjacquet/ledger-import/internal/fileutils"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"

	"github.com/spf13/cobra"
)

var (
	output    string
	account   string
	source    string
	since     string
	until     string
	delimiter string
)

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export ledger records as CSV",
	Long: `Export ledger records as CSV, ordered by date. Filters combine.

Example:
  ledger-import export --account CHK-3607 --since 2025-07-01 -o july.csv`,
	Args: cobra.NoArgs,
	RunE: exportFunc,
}

func init() {
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	Cmd.Flags().StringVarP(&account, "account", "a", "", "Only records of this account")
	Cmd.Flags().StringVar(&source, "source", "", "Only records committed from this batch")
	Cmd.Flags().StringVar(&since, "since", "", "Only records on or after this date (YYYY-MM-DD)")
	Cmd.Flags().StringVar(&until, "until", "", "Only records on or before this date (YYYY-MM-DD)")
	Cmd.Flags().StringVar(&delimiter, "delimiter", "", "CSV delimiter (default: csv.delimiter)")
}

func exportFunc(cmd *cobra.Command, _ []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	filter := models.TransactionFilter{Account: account, Source: source}
	if filter.Since, err = parseDateFlag("since", since); err != nil {
		return err
	}
	if filter.Until, err = parseDateFlag("until", until); err != nil {
		return err
	}

	comma := c.GetConfig().Delimiter()
	if delimiter != "" {
		r := []rune(delimiter)
		if len(r) != 1 {
			return fmt.Errorf("--delimiter must be a single character, got %q", delimiter)
		}
		comma = r[0]
	}

	var w io.Writer = cmd.OutOrStdout()
	if output != "" {
		f, err := fileutils.CreateFile(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	n, err := c.GetImporter().ExportTransactions(cmd.Context(), w, filter, comma)
	if err != nil {
		return err
	}
	if output != "" {
		root.GetLogger().Info("Exported ledger records to file",
			logging.Field{Key: logging.FieldFile, Value: output},
			logging.Field{Key: logging.FieldCount, Value: n})
	}
	return nil
}

func parseDateFlag(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := dateutils.FromISODate(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return &d, nil
}
