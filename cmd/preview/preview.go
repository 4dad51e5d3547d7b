// Package preview maps a staged batch through a column profile
package preview

import (
	"fjacquet/ledger-import/cmd/root"
	"fjacquet/ledger-import/internal/importer"

	"github.com/spf13/cobra"
)

var (
	profileName string
	account     string
)

// Cmd represents the preview command
var Cmd = &cobra.Command{
	Use:   "preview <batch-id>",
	Short: "Map a batch's rows and show suggestions and duplicates",
	Long: `Map every staged row of a batch through a mapping profile. Dates and
amounts are parsed, suggestions are attached, and rows already present in the
ledger are flagged as duplicates. Preview can be rerun until the batch is
committed.

When no profile is given, the batch's profile is used, else the first stored
profile whose columns all appear in the headers.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		res, err := c.GetImporter().ApplyMapping(cmd.Context(), args[0], importer.MappingOptions{
			ProfileName: profileName,
			AccountHint: account,
		})
		if err != nil {
			return err
		}
		return c.GetReporter().Preview(cmd.OutOrStdout(), res)
	},
}

func init() {
	Cmd.Flags().StringVarP(&profileName, "profile", "p", "", "Mapping profile to use")
	Cmd.Flags().StringVarP(&account, "account", "a", "", "Only flag duplicates against this account")
}
