// Package store is the persistence collaborator: a small key-value
// facility holding whole entity collections as JSON documents, scalar
// settings (source URL, last-sync text) and the sync-run history. The
// reconciliation engine never touches it directly; the sync service
// decides which computed collections to apply.
package store

import (
	"context"
	"encoding/json"

	"github.com/sheet-sync-api/internal/database"
	"github.com/sheet-sync-api/internal/models"
)

// CollectionRepository persists named entity collections wholesale.
type CollectionRepository interface {
	// Get returns the stored JSON document for a collection, or nil when
	// the collection has never been written.
	Get(ctx context.Context, name string) (json.RawMessage, error)
	// Set replaces a collection with the JSON encoding of v.
	Set(ctx context.Context, name string, v any) error
	// ItemCount returns the number of elements in a stored collection, 0
	// when absent.
	ItemCount(ctx context.Context, name string) (int, error)
}

// SettingsRepository persists scalar string settings keyed by name.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// SyncRunRepository persists the history of sync cycles.
type SyncRunRepository interface {
	Create(ctx context.Context, run *models.SyncRun) error
	Update(ctx context.Context, run *models.SyncRun) error
	Latest(ctx context.Context) (*models.SyncRun, error)
	List(ctx context.Context, limit int) ([]*models.SyncRun, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Collections CollectionRepository
	Settings    SettingsRepository
	SyncRuns    SyncRunRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Collections: NewCollectionRepo(db),
		Settings:    NewSettingsRepo(db),
		SyncRuns:    NewSyncRunRepo(db),
	}
}
