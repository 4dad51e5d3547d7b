package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a committed ledger record. MerchantKey is the key the row
// was categorized under at import, so corrections learn under the same key.
// Category, Subcategory and Payoree carry the resolved names when the record
// is read back; writes go through the ID fields.
type Transaction struct {
	ID                  int64           `json:"id" yaml:"id"`
	Date                time.Time       `json:"date" yaml:"date"`
	Amount              decimal.Decimal `json:"amount" yaml:"amount"`
	Description         string          `json:"description" yaml:"description"`
	Account             string          `json:"account" yaml:"account"`
	CategoryID          *int64          `json:"category_id,omitempty" yaml:"category_id,omitempty"`
	SubcategoryID       *int64          `json:"subcategory_id,omitempty" yaml:"subcategory_id,omitempty"`
	PayoreeID           *int64          `json:"payoree_id,omitempty" yaml:"payoree_id,omitempty"`
	Category            string          `json:"category,omitempty" yaml:"category,omitempty"`
	Subcategory         string          `json:"subcategory,omitempty" yaml:"subcategory,omitempty"`
	Payoree             string          `json:"payoree,omitempty" yaml:"payoree,omitempty"`
	Memo                string          `json:"memo,omitempty" yaml:"memo,omitempty"`
	CheckNumber         string          `json:"check_number,omitempty" yaml:"check_number,omitempty"`
	Source              string          `json:"source,omitempty" yaml:"source,omitempty"`
	CategorizationError string          `json:"categorization_error,omitempty" yaml:"categorization_error,omitempty"`
	MerchantKey         string          `json:"merchant_key,omitempty" yaml:"merchant_key,omitempty"`
	CreatedAt           time.Time       `json:"created_at" yaml:"created_at"`
}

// String renders the record on one line for the terminal.
func (t Transaction) String() string {
	return fmt.Sprintf("#%d %s %s %q [%s] %s / %s / %s",
		t.ID, t.Date.Format("2006-01-02"), FormatAmount(t.Amount), t.Description, t.Account,
		dash(t.Category), dash(t.Subcategory), dash(t.Payoree))
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Category is a category or, when ParentID is set, a subcategory.
type Category struct {
	ID       int64  `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	ParentID *int64 `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
}

// Payoree is the counterparty of a ledger record.
type Payoree struct {
	ID                   int64  `json:"id" yaml:"id"`
	Name                 string `json:"name" yaml:"name"`
	DefaultCategoryID    *int64 `json:"default_category_id,omitempty" yaml:"default_category_id,omitempty"`
	DefaultSubcategoryID *int64 `json:"default_subcategory_id,omitempty" yaml:"default_subcategory_id,omitempty"`
}

// LearnedCount is one learned-frequency counter.
type LearnedCount struct {
	MerchantKey string `json:"merchant_key" yaml:"merchant_key"`
	Target      string `json:"target" yaml:"target"`
	Count       int64  `json:"count" yaml:"count"`
}

// LedgerMatch describes a ledger lookup by exact content. An empty Account
// matches every account. ExcludeSource skips records created from that
// source, so a batch is not compared against its own rows.
type LedgerMatch struct {
	Date          time.Time
	Amount        decimal.Decimal
	Description   string
	Account       string
	ExcludeSource string
}

// TransactionFilter narrows a ledger listing. Zero values match everything.
type TransactionFilter struct {
	Account string
	Source  string
	Since   *time.Time
	Until   *time.Time
}
