package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fjacquet/ledger-import/internal/models"
)

func learnedTable(kind models.TargetKind) (string, error) {
	switch kind {
	case models.TargetSubcategory:
		return "learned_subcats", nil
	case models.TargetPayoree:
		return "learned_payorees", nil
	default:
		return "", fmt.Errorf("unknown learned target kind %q", kind)
	}
}

// TopLearned returns the target with the highest summed count for a merchant
// key. Ties go to the alphabetically first target.
func (s *Store) TopLearned(ctx context.Context, kind models.TargetKind, merchantKey string) (string, bool, error) {
	table, err := learnedTable(kind)
	if err != nil {
		return "", false, err
	}
	var (
		target string
		total  int64
	)
	err = s.queryRow(ctx, `SELECT target, SUM(count) AS total FROM `+table+`
		WHERE merchant_key = ?
		GROUP BY target
		ORDER BY total DESC, target ASC
		LIMIT 1`, merchantKey).Scan(&target, &total)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("top learned %s for %q: %w", kind, merchantKey, err)
	}
	return target, true, nil
}

// IncrementLearned adds one to the counter of (merchantKey, target),
// inserting it with count 1 when absent.
func (s *Store) IncrementLearned(ctx context.Context, kind models.TargetKind, merchantKey, target string) error {
	table, err := learnedTable(kind)
	if err != nil {
		return err
	}
	_, err = s.exec(ctx, `INSERT INTO `+table+` (merchant_key, target, count) VALUES (?, ?, 1)
		ON CONFLICT (merchant_key, target) DO UPDATE SET count = `+table+`.count + 1`,
		merchantKey, target)
	if err != nil {
		return fmt.Errorf("increment learned %s for %q: %w", kind, merchantKey, err)
	}
	return nil
}

// ListLearned returns every counter of a kind ordered by key, then count
// descending.
func (s *Store) ListLearned(ctx context.Context, kind models.TargetKind) ([]models.LearnedCount, error) {
	table, err := learnedTable(kind)
	if err != nil {
		return nil, err
	}
	rows, err := s.query(ctx, `SELECT merchant_key, target, count FROM `+table+`
		ORDER BY merchant_key, count DESC, target`)
	if err != nil {
		return nil, fmt.Errorf("list learned %s: %w", kind, err)
	}
	defer func() { _ = rows.Close() }()

	out := []models.LearnedCount{}
	for rows.Next() {
		var lc models.LearnedCount
		if err := rows.Scan(&lc.MerchantKey, &lc.Target, &lc.Count); err != nil {
			return nil, fmt.Errorf("scan learned %s: %w", kind, err)
		}
		out = append(out, lc)
	}
	return out, rows.Err()
}
