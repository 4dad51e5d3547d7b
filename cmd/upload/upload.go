// Package upload stages statement files as import batches
package upload

import (
	"fmt"
	"path/filepath"

	"fjacquet/ledger-import/cmd/root"
	"fjacquet/ledger-import/internal/fileutils"
	"fjacquet/ledger-import/internal/logging"

	"github.com/spf13/cobra"
)

var profileName string

// Cmd represents the upload command
var Cmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Stage a CSV or XLSX statement as an import batch",
	Long: `Stage a CSV or XLSX statement as an import batch. Every non-blank line
becomes a staged row, indexed in file order. Nothing reaches the ledger until
the batch is previewed and committed.

Example:
  ledger-import upload Chase3607_Activity_20250711.CSV --profile chase`,
	Args: cobra.ExactArgs(1),
	RunE: uploadFunc,
}

func init() {
	Cmd.Flags().StringVarP(&profileName, "profile", "p", "", "Mapping profile to attach to the batch")
}

func uploadFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	path := args[0]
	if !fileutils.HasExtension(path, fileutils.UploadExtensions...) {
		return fmt.Errorf("unsupported upload type %q: expected .csv or .xlsx", filepath.Ext(path))
	}

	f, err := fileutils.OpenFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	batch, err := c.GetImporter().Upload(cmd.Context(), path, f, profileName)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	root.GetLogger().Info("Uploaded batch",
		logging.Field{Key: logging.FieldBatchID, Value: batch.ID},
		logging.Field{Key: logging.FieldCount, Value: batch.RowCount})

	return c.GetReporter().Batch(cmd.OutOrStdout(), batch, nil)
}
