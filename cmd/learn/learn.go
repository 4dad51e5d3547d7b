// Package learn records categorization corrections in the learned store
package learn

import (
	"errors"
	"fmt"

	"fjacquet/ledger-import/cmd/root"
	"fjacquet/ledger-import/internal/common"
	"fjacquet/ledger-import/internal/logging"

	"github.com/spf13/cobra"
)

var (
	merchantKey string
	description string
	subcategory string
	payoree     string
	file        string
)

// Cmd represents the learn command
var Cmd = &cobra.Command{
	Use:   "learn",
	Short: "Teach the suggestion engine a subcategory or payoree for a merchant",
	Long: `Record a correction for a merchant key so later suggestions for the same
merchant follow it. The key is given directly or derived from a description.

A CSV file with the columns merchant_key, description, kind and target
records many corrections at once; kind is subcategory or payoree.

Examples:
  ledger-import learn --description "STARBUCKS STORE 123" --subcategory "Coffee Shops"
  ledger-import learn --file corrections.csv`,
	Args: cobra.NoArgs,
	RunE: learnFunc,
}

func init() {
	Cmd.Flags().StringVarP(&merchantKey, "merchant-key", "k", "", "Merchant key to teach")
	Cmd.Flags().StringVarP(&description, "description", "d", "", "Description to derive the merchant key from")
	Cmd.Flags().StringVarP(&subcategory, "subcategory", "s", "", "Subcategory to learn")
	Cmd.Flags().StringVarP(&payoree, "payoree", "p", "", "Payoree to learn")
	Cmd.Flags().StringVar(&file, "file", "", "CSV file of corrections")
	Cmd.MarkFlagsMutuallyExclusive("merchant-key", "description", "file")
}

func learnFunc(cmd *cobra.Command, _ []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	if !c.GetConfig().Categorization.LearningEnabled {
		return errors.New("learning is disabled (categorization.learning_enabled)")
	}

	rows, err := correctionRows()
	if err != nil {
		return err
	}
	n, err := c.GetImporter().ImportCorrections(cmd.Context(), rows)
	if err != nil {
		return err
	}
	root.GetLogger().Info("Recorded corrections", logging.Field{Key: logging.FieldCount, Value: n})
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Recorded %d correction(s)\n", n)
	return err
}

func correctionRows() ([]common.CorrectionCSVRow, error) {
	if file != "" {
		return common.ReadCSVFile[common.CorrectionCSVRow](file, root.GetLogger())
	}
	if merchantKey == "" && description == "" {
		return nil, errors.New("one of --merchant-key, --description or --file is required")
	}
	if subcategory == "" && payoree == "" {
		return nil, errors.New("--subcategory or --payoree is required")
	}

	var rows []common.CorrectionCSVRow
	if subcategory != "" {
		rows = append(rows, common.CorrectionCSVRow{MerchantKey: merchantKey, Description: description, Kind: "subcategory", Target: subcategory})
	}
	if payoree != "" {
		rows = append(rows, common.CorrectionCSVRow{MerchantKey: merchantKey, Description: description, Kind: "payoree", Target: payoree})
	}
	return rows, nil
}
