// Package commit writes a previewed batch into the ledger
package commit

import (
	"context"

	"fjacquet/ledger-import/cmd/root"
	"fjacquet/ledger-import/internal/common"
	"fjacquet/ledger-import/internal/container"
	"fjacquet/ledger-import/internal/logging"

	"github.com/spf13/cobra"
)

var account string

// Cmd represents the commit command
var Cmd = &cobra.Command{
	Use:   "commit <batch-id>",
	Short: "Commit a previewed batch into the ledger",
	Long: `Commit a previewed batch into the ledger. Each row is imported, skipped as
a duplicate, or skipped with an error; one failing row never affects the
others.

The account is taken from --account, then import.default_account, then the
account number in the uploaded file name.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		acct, err := resolveAccount(cmd.Context(), c, args[0], account)
		if err != nil {
			return err
		}
		res, err := c.GetImporter().Commit(cmd.Context(), args[0], acct)
		if err != nil {
			return err
		}
		return c.GetReporter().Commit(cmd.OutOrStdout(), res)
	},
}

func init() {
	Cmd.Flags().StringVarP(&account, "account", "a", "", "Ledger account to commit into")
}

func resolveAccount(ctx context.Context, c *container.Container, batchID, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if def := c.GetConfig().Import.DefaultAccount; def != "" {
		return def, nil
	}
	batch, err := c.GetImporter().GetBatch(ctx, batchID)
	if err != nil {
		return "", err
	}
	guess := common.AccountFromFilename(batch.SourceFilename)
	root.GetLogger().Info("Using account from file name",
		logging.Field{Key: logging.FieldAccount, Value: guess.ID},
		logging.Field{Key: "source", Value: guess.Source})
	return guess.ID, nil
}
