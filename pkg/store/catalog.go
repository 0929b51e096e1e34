package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// CachedModel is one catalog entry cached from the upstream provider.
type CachedModel struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Provider      string          `json:"provider"`
	Tier          string          `json:"tier"`
	ContextLength int             `json:"context_length"`
	Pricing       json.RawMessage `json:"pricing"`
	CachedAt      time.Time       `json:"cached_at"`
}

// ReplaceCatalog atomically replaces the cached model catalog.
func (s *Store) ReplaceCatalog(ctx context.Context, models []CachedModel) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replacing model catalog: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cached_models`); err != nil {
		return fmt.Errorf("replacing model catalog: %w", err)
	}

	stamp := now()
	for _, m := range models {
		tier := m.Tier
		if tier == "" {
			tier = "standard"
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO cached_models (id, name, provider, tier, context_length, pricing, cached_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			m.ID, m.Name, m.Provider, tier, m.ContextLength,
			string(rawOrEmptyObject(m.Pricing)), stamp); err != nil {
			return fmt.Errorf("caching model %q: %w", m.ID, err)
		}
	}
	return tx.Commit()
}

// Catalog returns cached models ordered by provider then name.
func (s *Store) Catalog(ctx context.Context) ([]CachedModel, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, provider, tier, context_length, pricing, cached_at
		FROM cached_models
		ORDER BY provider, name`)
	if err != nil {
		return nil, fmt.Errorf("listing cached models: %w", err)
	}
	defer rows.Close()

	var models []CachedModel
	for rows.Next() {
		var m CachedModel
		var pricing, cachedAt string
		if err := rows.Scan(&m.ID, &m.Name, &m.Provider, &m.Tier,
			&m.ContextLength, &pricing, &cachedAt); err != nil {
			return nil, fmt.Errorf("scanning cached model: %w", err)
		}
		m.Pricing = rawOrEmptyObject(json.RawMessage(pricing))
		m.CachedAt = parseTime(cachedAt)
		models = append(models, m)
	}
	return models, rows.Err()
}

// CatalogAge returns when models were last cached. ok is false when the
// catalog is empty.
func (s *Store) CatalogAge(ctx context.Context) (time.Time, bool, error) {
	var cachedAt sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT MAX(cached_at) FROM cached_models`).Scan(&cachedAt)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("reading catalog age: %w", err)
	}
	if !cachedAt.Valid || cachedAt.String == "" {
		return time.Time{}, false, nil
	}
	return parseTime(cachedAt.String), true, nil
}

// Favourites returns favourite model ids, newest first.
func (s *Store) Favourites(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT model_id FROM favourite_models ORDER BY added_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing favourite models: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning favourite model: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AddFavourite marks a model as favourite. Adding twice is not an error.
func (s *Store) AddFavourite(ctx context.Context, modelID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO favourite_models (model_id, added_at) VALUES (?, ?)`,
		modelID, now())
	if err != nil {
		return fmt.Errorf("adding favourite model %q: %w", modelID, err)
	}
	return nil
}

// RemoveFavourite unmarks a model. Unknown ids are not an error.
func (s *Store) RemoveFavourite(ctx context.Context, modelID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM favourite_models WHERE model_id = ?`, modelID)
	if err != nil {
		return fmt.Errorf("removing favourite model %q: %w", modelID, err)
	}
	return nil
}
