package models

// MerchantRule maps descriptions matching Pattern to a canonical merchant key.
// Pattern is a literal substring unless Regex is set; both match without
// regard to case.
type MerchantRule struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	Key     string `json:"key" yaml:"key"`
	Regex   bool   `json:"regex,omitempty" yaml:"regex,omitempty"`
}

// SubcategoryRule suggests a subcategory for merchant keys containing
// Pattern. PositiveOnly rules apply to inflows only.
type SubcategoryRule struct {
	Pattern      string `json:"pattern" yaml:"pattern"`
	Category     string `json:"category" yaml:"category"`
	Subcategory  string `json:"subcategory" yaml:"subcategory"`
	PositiveOnly bool   `json:"positive_only,omitempty" yaml:"positive_only,omitempty"`
}

// PayoreeRule suggests a payoree for merchant keys containing Pattern.
type PayoreeRule struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	Payoree string `json:"payoree" yaml:"payoree"`
}

// RuleTables is the on-disk shape of the rule files. Every table is an
// ordered list evaluated first match wins.
type RuleTables struct {
	Merchants     []MerchantRule    `json:"merchants,omitempty" yaml:"merchants,omitempty"`
	Subcategories []SubcategoryRule `json:"subcategories,omitempty" yaml:"subcategories,omitempty"`
	Payorees      []PayoreeRule     `json:"payorees,omitempty" yaml:"payorees,omitempty"`
}
