package store

import (
	"context"
	"fmt"
	"strings"
)

// Schema statements use a {{pk}} placeholder that expands per
// dialect. Amounts are canonical decimal text, dates ISO text.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS mapping_profiles (
		id {{pk}},
		name TEXT NOT NULL UNIQUE,
		column_map TEXT NOT NULL,
		options TEXT NOT NULL DEFAULT '{}',
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS import_batches (
		id TEXT PRIMARY KEY,
		source_filename TEXT NOT NULL,
		headers TEXT NOT NULL,
		row_count INTEGER NOT NULL DEFAULT 0,
		profile_id BIGINT REFERENCES mapping_profiles(id) ON DELETE SET NULL,
		status TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id {{pk}},
		name TEXT NOT NULL UNIQUE,
		parent_id BIGINT REFERENCES categories(id) ON DELETE SET NULL
	)`,
	`CREATE TABLE IF NOT EXISTS payorees (
		id {{pk}},
		name TEXT NOT NULL UNIQUE,
		default_category_id BIGINT REFERENCES categories(id) ON DELETE SET NULL,
		default_subcategory_id BIGINT REFERENCES categories(id) ON DELETE SET NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id {{pk}},
		date TEXT NOT NULL,
		amount TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		account TEXT NOT NULL DEFAULT '',
		category_id BIGINT REFERENCES categories(id) ON DELETE SET NULL,
		subcategory_id BIGINT REFERENCES categories(id) ON DELETE SET NULL,
		payoree_id BIGINT REFERENCES payorees(id) ON DELETE SET NULL,
		memo TEXT NOT NULL DEFAULT '',
		check_number TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT '',
		categorization_error TEXT NOT NULL DEFAULT '',
		merchant_key TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_match
		ON transactions (date, amount, description, account)`,
	`CREATE TABLE IF NOT EXISTS import_rows (
		id {{pk}},
		batch_id TEXT NOT NULL REFERENCES import_batches(id) ON DELETE CASCADE,
		row_index INTEGER NOT NULL,
		raw TEXT NOT NULL,
		parsed TEXT NOT NULL DEFAULT '{}',
		norm_date TEXT,
		norm_amount TEXT,
		norm_description TEXT NOT NULL DEFAULT '',
		suggestions TEXT NOT NULL DEFAULT '{}',
		errors TEXT NOT NULL DEFAULT '[]',
		is_duplicate INTEGER NOT NULL DEFAULT 0,
		committed_transaction_id BIGINT REFERENCES transactions(id) ON DELETE SET NULL,
		UNIQUE (batch_id, row_index)
	)`,
	`CREATE TABLE IF NOT EXISTS learned_subcats (
		id {{pk}},
		merchant_key TEXT NOT NULL,
		target TEXT NOT NULL,
		count INTEGER NOT NULL DEFAULT 1 CHECK (count >= 1),
		UNIQUE (merchant_key, target)
	)`,
	`CREATE TABLE IF NOT EXISTS learned_payorees (
		id {{pk}},
		merchant_key TEXT NOT NULL,
		target TEXT NOT NULL,
		count INTEGER NOT NULL DEFAULT 1 CHECK (count >= 1),
		UNIQUE (merchant_key, target)
	)`,
}

func (s *Store) expand(stmt string) string {
	pk := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.dialect == DialectPostgres {
		pk = "BIGSERIAL PRIMARY KEY"
	}
	return strings.ReplaceAll(stmt, "{{pk}}", pk)
}

// Migrate creates any missing tables and indexes. It is safe to run on every
// start.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.q.ExecContext(ctx, s.expand(stmt)); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}
	return nil
}
