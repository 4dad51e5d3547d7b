// Package parsererror holds the typed errors of the import pipeline. Callers
// match them with errors.As.
package parsererror

import "fmt"

// ParseError is a cell value that does not convert to its field's type.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError is a document rejected before use, such as a profile file.
type ValidationError struct {
	FilePath string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is invalid: %s", e.FilePath, e.Reason)
}

// CategorizationError reports that every strategy either failed or found
// nothing for a merchant key, and at least one failed.
type CategorizationError struct {
	MerchantKey string
	Strategies  string
	Err         error
}

func (e *CategorizationError) Error() string {
	return fmt.Sprintf("no suggestion for %q (%s): %v", e.MerchantKey, e.Strategies, e.Err)
}

func (e *CategorizationError) Unwrap() error {
	return e.Err
}

// InvalidFormatError is an upload that cannot be read as a statement.
type InvalidFormatError struct {
	Source   string
	Expected string
	Err      error
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("%s is not a %s: %v", e.Source, e.Expected, e.Err)
}

func (e *InvalidFormatError) Unwrap() error {
	return e.Err
}
