// Package suggest shows what the suggestion engine proposes for a description
package suggest

import (
	"context"
	"fmt"
	"strings"

	"fjacquet/ledger-import/cmd/root"
	"fjacquet/ledger-import/internal/categorizer"
	"fjacquet/ledger-import/internal/models"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	amount  string
	explain bool
)

// Cmd represents the suggest command
var Cmd = &cobra.Command{
	Use:   "suggest <description>",
	Short: "Suggest a subcategory and payoree for a description",
	Long: `Suggest a subcategory and payoree for a statement description. Learned
corrections for the description's merchant key are consulted first, then the
keyword rules.

Example:
  ledger-import suggest "STARBUCKS STORE 123" --amount -4.50 --explain`,
	Args: cobra.ExactArgs(1),
	RunE: suggestFunc,
}

func init() {
	Cmd.Flags().StringVarP(&amount, "amount", "a", "", "Transaction amount; some rules apply to inflows only")
	Cmd.Flags().BoolVarP(&explain, "explain", "e", false, "Show the answer of every strategy")
}

// Result is the suggest command's output.
type Result struct {
	Description string            `json:"description" yaml:"description"`
	MerchantKey string            `json:"merchant_key" yaml:"merchant_key"`
	Subcategory string            `json:"subcategory,omitempty" yaml:"subcategory,omitempty"`
	Category    string            `json:"category,omitempty" yaml:"category,omitempty"`
	Payoree     string            `json:"payoree,omitempty" yaml:"payoree,omitempty"`
	Strategies  map[string]string `json:"strategies,omitempty" yaml:"strategies,omitempty"`
}

// String renders the result for the terminal.
func (r Result) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "merchant key: %s\n", orNone(r.MerchantKey))
	fmt.Fprintf(&b, "subcategory:  %s", orNone(r.Subcategory))
	if r.Category != "" {
		fmt.Fprintf(&b, " (%s)", r.Category)
	}
	fmt.Fprintf(&b, "\npayoree:      %s", orNone(r.Payoree))
	for _, kind := range []string{string(models.TargetSubcategory), string(models.TargetPayoree)} {
		if s, ok := r.Strategies[kind]; ok {
			fmt.Fprintf(&b, "\n%s strategies: %s", kind, s)
		}
	}
	return b.String()
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func suggestFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	amt := decimal.Zero
	if amount != "" {
		if amt, err = models.ParseAmount(amount, false); err != nil {
			return fmt.Errorf("invalid --amount: %w", err)
		}
	}

	res := buildResult(cmd.Context(), c.GetCategorizer(), args[0], amt, explain)
	return c.GetReporter().Value(cmd.OutOrStdout(), res)
}

func buildResult(ctx context.Context, cat *categorizer.Categorizer, description string, amt decimal.Decimal, withStrategies bool) Result {
	s := cat.Suggest(ctx, description, amt)
	res := Result{
		Description: description,
		MerchantKey: cat.MerchantKey(description),
		Subcategory: s.Subcategory,
		Payoree:     s.Payoree,
	}
	if parent, ok := cat.SuggestCategoryFor(s.Subcategory); ok {
		res.Category = parent
	}
	if withStrategies {
		res.Strategies = map[string]string{}
		for _, kind := range []models.TargetKind{models.TargetSubcategory, models.TargetPayoree} {
			_, results := cat.Explain(ctx, kind, description, amt)
			res.Strategies[string(kind)] = results.Summary()
		}
	}
	return res
}
