package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fjacquet/ledger-import/internal/models"
)

// GetOrCreateCategory returns the category with the given name, creating it
// under parentID when missing. Names are unique; when the row already
// exists its stored parent is kept.
func (s *Store) GetOrCreateCategory(ctx context.Context, name string, parentID *int64) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("category name is empty")
	}
	if _, err := s.exec(ctx, `INSERT INTO categories (name, parent_id) VALUES (?, ?)
		ON CONFLICT (name) DO NOTHING`, name, nullInt64(parentID)); err != nil {
		return nil, fmt.Errorf("insert category %q: %w", name, err)
	}
	c, err := s.FindCategory(ctx, name)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("category %q vanished after insert", name)
	}
	return c, nil
}

// FindCategory looks a category up by name. A missing category is not an
// error; the result is nil.
func (s *Store) FindCategory(ctx context.Context, name string) (*models.Category, error) {
	var (
		c      models.Category
		parent sql.NullInt64
	)
	err := s.queryRow(ctx, `SELECT id, name, parent_id FROM categories WHERE name = ?`, name).
		Scan(&c.ID, &c.Name, &parent)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category %q: %w", name, err)
	}
	c.ParentID = int64Ptr(parent)
	return &c, nil
}

// GetOrCreatePayoree returns the payoree with the given name, creating it
// when missing.
func (s *Store) GetOrCreatePayoree(ctx context.Context, name string) (*models.Payoree, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("payoree name is empty")
	}
	if _, err := s.exec(ctx, `INSERT INTO payorees (name) VALUES (?)
		ON CONFLICT (name) DO NOTHING`, name); err != nil {
		return nil, fmt.Errorf("insert payoree %q: %w", name, err)
	}

	var (
		p        models.Payoree
		cat, sub sql.NullInt64
	)
	err := s.queryRow(ctx, `SELECT id, name, default_category_id, default_subcategory_id
		FROM payorees WHERE name = ?`, name).Scan(&p.ID, &p.Name, &cat, &sub)
	if err != nil {
		return nil, fmt.Errorf("find payoree %q: %w", name, err)
	}
	p.DefaultCategoryID = int64Ptr(cat)
	p.DefaultSubcategoryID = int64Ptr(sub)
	return &p, nil
}
