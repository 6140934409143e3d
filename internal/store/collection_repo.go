package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sheet-sync-api/internal/database"
)

// collectionRepo is the concrete implementation of CollectionRepository
type collectionRepo struct {
	db *database.DB
}

// NewCollectionRepo creates a new collection repository
func NewCollectionRepo(db *database.DB) CollectionRepository {
	return &collectionRepo{db: db}
}

// Get returns the stored JSON document for a collection
func (r *collectionRepo) Get(ctx context.Context, name string) (json.RawMessage, error) {
	var data []byte
	query := `SELECT data FROM collections WHERE name = $1`
	err := r.db.QueryRowContext(ctx, query, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load collection %q: %w", name, err)
	}
	return json.RawMessage(data), nil
}

// Set replaces a collection wholesale
func (r *collectionRepo) Set(ctx context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode collection %q: %w", name, err)
	}
	query := `
		INSERT INTO collections (name, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, name, data, time.Now()); err != nil {
		return fmt.Errorf("failed to store collection %q: %w", name, err)
	}
	return nil
}

// ItemCount returns the number of elements in a stored collection
func (r *collectionRepo) ItemCount(ctx context.Context, name string) (int, error) {
	var count int
	query := `SELECT jsonb_array_length(data) FROM collections WHERE name = $1`
	err := r.db.QueryRowContext(ctx, query, name).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count collection %q: %w", name, err)
	}
	return count, nil
}
