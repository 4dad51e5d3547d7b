package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"fjacquet/ledger-import/internal/dateutils"
	"fjacquet/ledger-import/internal/models"

	"github.com/shopspring/decimal"
)

const transactionColumns = `t.id, t.date, t.amount, t.description, t.account,
	t.category_id, t.subcategory_id, t.payoree_id,
	COALESCE(c.name, ''), COALESCE(sc.name, ''), COALESCE(p.name, ''),
	t.memo, t.check_number, t.source, t.categorization_error, t.merchant_key, t.created_at`

const transactionJoins = `FROM transactions t
	LEFT JOIN categories c ON c.id = t.category_id
	LEFT JOIN categories sc ON sc.id = t.subcategory_id
	LEFT JOIN payorees p ON p.id = t.payoree_id`

// InsertTransaction writes a ledger record and sets its ID and CreatedAt.
func (s *Store) InsertTransaction(ctx context.Context, tx *models.Transaction) error {
	tx.CreatedAt = time.Now().UTC()
	err := s.queryRow(ctx, `INSERT INTO transactions
		(date, amount, description, account, category_id, subcategory_id, payoree_id,
		 memo, check_number, source, categorization_error, merchant_key, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		dateutils.ToISODate(tx.Date), models.CanonicalAmount(tx.Amount), tx.Description, tx.Account,
		nullInt64(tx.CategoryID), nullInt64(tx.SubcategoryID), nullInt64(tx.PayoreeID),
		tx.Memo, tx.CheckNumber, tx.Source, tx.CategorizationError, tx.MerchantKey, formatTime(tx.CreatedAt),
	).Scan(&tx.ID)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// ExistsTransaction reports whether a ledger record matches date, amount,
// description and account exactly. Amounts compare in canonical form.
func (s *Store) ExistsTransaction(ctx context.Context, m models.LedgerMatch) (bool, error) {
	var (
		where = []string{"date = ?", "amount = ?", "description = ?"}
		args  = []any{dateutils.ToISODate(m.Date), models.CanonicalAmount(m.Amount), m.Description}
	)
	if m.Account != "" {
		where = append(where, "account = ?")
		args = append(args, m.Account)
	}
	if m.ExcludeSource != "" {
		where = append(where, "source <> ?")
		args = append(args, m.ExcludeSource)
	}

	var one int
	err := s.queryRow(ctx, `SELECT 1 FROM transactions WHERE `+strings.Join(where, " AND ")+` LIMIT 1`,
		args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup transaction: %w", err)
	}
	return true, nil
}

// GetTransaction loads a ledger record with its category and payoree names.
func (s *Store) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	tx, err := scanTransaction(s.queryRow(ctx, `SELECT `+transactionColumns+` `+transactionJoins+`
		WHERE t.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrTransactionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return tx, nil
}

// ListTransactions returns ledger records ordered by date then id.
func (s *Store) ListTransactions(ctx context.Context, f models.TransactionFilter) ([]models.Transaction, error) {
	var (
		where []string
		args  []any
	)
	if f.Account != "" {
		where = append(where, "t.account = ?")
		args = append(args, f.Account)
	}
	if f.Source != "" {
		where = append(where, "t.source = ?")
		args = append(args, f.Source)
	}
	if f.Since != nil {
		where = append(where, "t.date >= ?")
		args = append(args, dateutils.ToISODate(*f.Since))
	}
	if f.Until != nil {
		where = append(where, "t.date <= ?")
		args = append(args, dateutils.ToISODate(*f.Until))
	}

	q := `SELECT ` + transactionColumns + ` ` + transactionJoins
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY t.date, t.id`

	rows, err := s.query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []models.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, *tx)
	}
	return out, rows.Err()
}

// UpdateTransactionCategorization replaces the category, subcategory and
// payoree references of a record and clears its categorization error.
func (s *Store) UpdateTransactionCategorization(ctx context.Context, id int64, categoryID, subcategoryID, payoreeID *int64) error {
	res, err := s.exec(ctx, `UPDATE transactions
		SET category_id = ?, subcategory_id = ?, payoree_id = ?, categorization_error = ''
		WHERE id = ?`,
		nullInt64(categoryID), nullInt64(subcategoryID), nullInt64(payoreeID), id)
	if err != nil {
		return fmt.Errorf("update transaction %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %d", ErrTransactionNotFound, id)
	}
	return nil
}

func scanTransaction(sc scanner) (*models.Transaction, error) {
	var (
		tx                   models.Transaction
		date, amount, create string
		cat, sub, pay        sql.NullInt64
	)
	if err := sc.Scan(&tx.ID, &date, &amount, &tx.Description, &tx.Account,
		&cat, &sub, &pay, &tx.Category, &tx.Subcategory, &tx.Payoree,
		&tx.Memo, &tx.CheckNumber, &tx.Source, &tx.CategorizationError, &tx.MerchantKey, &create); err != nil {
		return nil, err
	}
	d, err := dateutils.FromISODate(date)
	if err != nil {
		return nil, fmt.Errorf("decode date: %w", err)
	}
	a, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("decode amount: %w", err)
	}
	tx.Date = d
	tx.Amount = a
	tx.CategoryID = int64Ptr(cat)
	tx.SubcategoryID = int64Ptr(sub)
	tx.PayoreeID = int64Ptr(pay)
	tx.CreatedAt = parseTime(create)
	return &tx, nil
}
