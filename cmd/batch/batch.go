// Package batch inspects and removes staged import batches
package batch

import (
	"fmt"

	"fjacquet/ledger-import/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the batch command group
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Inspect and remove import batches",
}

var showCmd = &cobra.Command{
	Use:   "show <batch-id>",
	Short: "Show a batch and its staged rows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		svc := c.GetImporter()
		b, err := svc.GetBatch(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		rows, err := svc.ListRows(cmd.Context(), b.ID)
		if err != nil {
			return err
		}
		return c.GetReporter().Batch(cmd.OutOrStdout(), b, rows)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List batches, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		batches, err := c.GetImporter().ListBatches(cmd.Context())
		if err != nil {
			return err
		}
		return c.GetReporter().Batches(cmd.OutOrStdout(), batches)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <batch-id>",
	Short: "Delete a batch and its staged rows",
	Long:  `Delete a batch and its staged rows. Ledger records already committed from it are kept.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		if err := c.GetImporter().DeleteBatch(cmd.Context(), args[0]); err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted batch %s\n", args[0])
		return err
	},
}

func init() {
	Cmd.AddCommand(showCmd, listCmd, deleteCmd)
}
