// Package duplicate decides whether a normalized statement line is already
// in the ledger.
package duplicate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fjacquet/ledger-import/internal/dateutils"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"
)

// Candidate is the (date, amount, description, account) quadruple looked up
// in the ledger.
type Candidate = models.LedgerMatch

// LedgerLookup is the exact-match query the detector needs.
type LedgerLookup interface {
	ExistsTransaction(ctx context.Context, m models.LedgerMatch) (bool, error)
}

// ErrIncompleteCandidate is returned for rows without a date or amount.
var ErrIncompleteCandidate = errors.New("duplicate check needs a date and an amount")

// Detector flags candidates that exactly match an existing ledger record.
// A blank account matches records in every account.
type Detector struct {
	ledger LedgerLookup
	logger logging.Logger
}

// NewDetector creates a Detector over ledger.
func NewDetector(ledger LedgerLookup, logger logging.Logger) *Detector {
	return &Detector{ledger: ledger, logger: logging.OrDefault(logger)}
}

// IsDuplicate reports whether c matches a ledger record on every field.
func (d *Detector) IsDuplicate(ctx context.Context, c Candidate) (bool, error) {
	if c.Date.IsZero() {
		return false, ErrIncompleteCandidate
	}
	c.Description = strings.TrimSpace(c.Description)
	c.Account = strings.TrimSpace(c.Account)

	found, err := d.ledger.ExistsTransaction(ctx, c)
	if err != nil {
		return false, fmt.Errorf("duplicate lookup: %w", err)
	}
	if found {
		d.logger.Debug("Duplicate ledger record",
			logging.Field{Key: "date", Value: dateutils.ToISODate(c.Date)},
			logging.Field{Key: "amount", Value: models.CanonicalAmount(c.Amount)},
			logging.Field{Key: logging.FieldAccount, Value: c.Account})
	}
	return found, nil
}

// CandidateFromRow builds a candidate from a mapped row. A non-empty account
// column on the row overrides account. Rows lacking a normalized date or
// amount yield ErrIncompleteCandidate.
func CandidateFromRow(row *models.ImportRow, account string) (Candidate, error) {
	if !row.HasRequired() {
		return Candidate{}, ErrIncompleteCandidate
	}
	if csvAccount := row.ParsedValue(models.FieldAccount); csvAccount != "" {
		account = csvAccount
	}
	return Candidate{
		Date:        *row.NormDate,
		Amount:      *row.NormAmount,
		Description: row.NormDescription,
		Account:     account,
	}, nil
}
