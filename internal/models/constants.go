package models

// BatchStatus is the lifecycle state of an import batch.
type BatchStatus string

// Batch statuses, in lifecycle order.
const (
	BatchStatusUploaded   BatchStatus = "uploaded"
	BatchStatusPreviewed  BatchStatus = "previewed"
	BatchStatusCommitting BatchStatus = "committing"
	BatchStatusCommitted  BatchStatus = "committed"
	BatchStatusFailed     BatchStatus = "failed"
)

var statusRank = map[BatchStatus]int{
	BatchStatusUploaded:   0,
	BatchStatusPreviewed:  1,
	BatchStatusCommitting: 2,
	BatchStatusCommitted:  3,
}

// IsTerminal reports whether no further transition is possible.
func (s BatchStatus) IsTerminal() bool {
	return s == BatchStatusCommitted || s == BatchStatusFailed
}

// CanTransitionTo reports whether a batch in status s may move to next.
// Status only moves forward; previewed may be re-entered so mapping can be
// re-run, and failed is reachable from any non-terminal state.
func (s BatchStatus) CanTransitionTo(next BatchStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == BatchStatusFailed {
		return true
	}
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	if s == BatchStatusPreviewed && next == BatchStatusPreviewed {
		return true
	}
	return to > from
}

// Canonical transaction fields a profile may map columns onto.
const (
	FieldDate        = "date"
	FieldAmount      = "amount"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldSubcategory = "subcategory"
	FieldPayoree     = "payoree"
	FieldMemo        = "memo"
	FieldAccount     = "account"
	FieldCheckNumber = "check_number"
)

// CanonicalFields lists every canonical field name.
var CanonicalFields = []string{
	FieldDate,
	FieldAmount,
	FieldDescription,
	FieldCategory,
	FieldSubcategory,
	FieldPayoree,
	FieldMemo,
	FieldAccount,
	FieldCheckNumber,
}

// IsCanonicalField reports whether name is one of CanonicalFields.
func IsCanonicalField(name string) bool {
	for _, f := range CanonicalFields {
		if f == name {
			return true
		}
	}
	return false
}

// Internal keys stored in a row's parsed map next to the canonical fields.
const (
	ParsedKeyProfile     = "_profile"
	ParsedKeyMerchantKey = "_merchant_key"
	ParsedKeyDateLayout  = "_date_layout"
)

// Profile option keys.
const (
	OptionDateFormat   = "date_format"
	OptionInvertSign   = "invert_sign"
	OptionDecimalComma = "decimal_comma"
)

// TargetKind selects which learned table a correction feeds.
type TargetKind string

const (
	TargetSubcategory TargetKind = "subcategory"
	TargetPayoree     TargetKind = "payoree"
)

// Valid reports whether k is a known target kind.
func (k TargetKind) Valid() bool {
	return k == TargetSubcategory || k == TargetPayoree
}

// Category names used by the built-in suggestion rules.
const (
	CategoryUncategorized = "Uncategorized"
	CategoryIncome        = "Income"
	SubcategoryWork       = "Work"
)
