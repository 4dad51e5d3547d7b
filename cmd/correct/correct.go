// Package correct edits the categorization of a ledger record
package correct

import (
	"fmt"
	"strconv"

	"fjacquet/ledger-import/cmd/root"
	"fjacquet/ledger-import/internal/importer"

	"github.com/spf13/cobra"
)

var (
	subcategory string
	payoree     string
)

// Cmd represents the correct command
var Cmd = &cobra.Command{
	Use:   "correct <transaction-id>",
	Short: "Correct a ledger record's subcategory or payoree",
	Long: `Correct the subcategory or payoree of a ledger record. Unknown names are
created. Unless learning is disabled, the correction is also recorded for the
record's merchant key.

Example:
  ledger-import correct 42 --subcategory "Coffee Shops" --payoree Starbucks`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid transaction id %q", args[0])
		}
		tx, err := c.GetImporter().CorrectTransaction(cmd.Context(), importer.Correction{
			TransactionID: id,
			Subcategory:   subcategory,
			Payoree:       payoree,
		})
		if err != nil {
			return err
		}
		return c.GetReporter().Value(cmd.OutOrStdout(), tx)
	},
}

func init() {
	Cmd.Flags().StringVarP(&subcategory, "subcategory", "s", "", "New subcategory")
	Cmd.Flags().StringVarP(&payoree, "payoree", "p", "", "New payoree")
}
