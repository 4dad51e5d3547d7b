package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"
)

const profileColumns = `id, name, column_map, options, description`

// UpsertProfile inserts a profile or replaces the one with the same name,
// and sets p.ID.
func (s *Store) UpsertProfile(ctx context.Context, p *models.MappingProfile) error {
	columnMap := p.ColumnMap
	if columnMap == nil {
		columnMap = map[string]string{}
	}
	options := p.Options
	if options == nil {
		options = map[string]any{}
	}
	cm, err := encodeJSON(columnMap)
	if err != nil {
		return fmt.Errorf("encode column map: %w", err)
	}
	opts, err := encodeJSON(options)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}

	err = s.queryRow(ctx, `INSERT INTO mapping_profiles (name, column_map, options, description)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			column_map = excluded.column_map,
			options = excluded.options,
			description = excluded.description
		RETURNING id`, p.Name, cm, opts, p.Description).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("upsert profile %q: %w", p.Name, err)
	}
	s.logger.Debug("Saved mapping profile",
		logging.Field{Key: logging.FieldProfile, Value: p.Name})
	return nil
}

// GetProfile loads a profile by id.
func (s *Store) GetProfile(ctx context.Context, id int64) (*models.MappingProfile, error) {
	p, err := scanProfile(s.queryRow(ctx, `SELECT `+profileColumns+` FROM mapping_profiles WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrProfileNotFound, id)
	}
	return p, err
}

// GetProfileByName loads a profile by its unique name.
func (s *Store) GetProfileByName(ctx context.Context, name string) (*models.MappingProfile, error) {
	p, err := scanProfile(s.queryRow(ctx, `SELECT `+profileColumns+` FROM mapping_profiles WHERE name = ?`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	return p, err
}

// ListProfiles returns every profile ordered by name.
func (s *Store) ListProfiles(ctx context.Context) ([]models.MappingProfile, error) {
	rows, err := s.query(ctx, `SELECT `+profileColumns+` FROM mapping_profiles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []models.MappingProfile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// DeleteProfile removes a profile. Batches that referenced it keep their
// rows and lose only the reference.
func (s *Store) DeleteProfile(ctx context.Context, name string) error {
	return s.WithTx(ctx, func(tx *Store) error {
		p, err := tx.GetProfileByName(ctx, name)
		if err != nil {
			return err
		}
		if _, err := tx.exec(ctx, `UPDATE import_batches SET profile_id = NULL WHERE profile_id = ?`, p.ID); err != nil {
			return fmt.Errorf("detach batches from profile %q: %w", name, err)
		}
		if _, err := tx.exec(ctx, `DELETE FROM mapping_profiles WHERE id = ?`, p.ID); err != nil {
			return fmt.Errorf("delete profile %q: %w", name, err)
		}
		tx.logger.Info("Deleted mapping profile", logging.Field{Key: logging.FieldProfile, Value: name})
		return nil
	})
}

func scanProfile(sc scanner) (*models.MappingProfile, error) {
	var (
		p        models.MappingProfile
		cm, opts string
	)
	if err := sc.Scan(&p.ID, &p.Name, &cm, &opts, &p.Description); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(cm), &p.ColumnMap); err != nil {
		return nil, fmt.Errorf("decode column map of %q: %w", p.Name, err)
	}
	if err := json.Unmarshal([]byte(opts), &p.Options); err != nil {
		return nil, fmt.Errorf("decode options of %q: %w", p.Name, err)
	}
	return &p, nil
}
