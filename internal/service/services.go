package service

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/sheet-sync-api/internal/config"
	"github.com/sheet-sync-api/internal/fetcher"
	"github.com/sheet-sync-api/internal/models"
	"github.com/sheet-sync-api/internal/reconcile"
	"github.com/sheet-sync-api/internal/store"
)

// SyncService defines the interface for sync cycle operations
type SyncService interface {
	// Run executes one full sync cycle: fetch, reconcile, apply. Returns
	// ErrSyncInFlight when another cycle is already running.
	Run(ctx context.Context) (*models.SyncRun, error)
	// Status returns the latest run and the human-readable last-sync text.
	Status(ctx context.Context) (*models.SyncRun, string, error)
	// History returns recent runs, newest first.
	History(ctx context.Context, limit int) ([]*models.SyncRun, error)
	// StartAutoSync runs periodic sync cycles until StopAutoSync or ctx
	// cancellation. No-op when the configured interval is zero.
	StartAutoSync(ctx context.Context)
	StopAutoSync()
}

// ExportService defines the interface for collection export operations
type ExportService interface {
	StreamCollection(ctx context.Context, w http.ResponseWriter, name, format string) error
}

// Services holds all service interfaces
type Services struct {
	Sync   SyncService
	Export ExportService
}

// NewServices creates all services
func NewServices(repos *store.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	f := fetcher.New(cfg.Sheets.FetchTimeout, cfg.Sheets.FetchAttempts, log)
	engine := reconcile.New(log)

	return &Services{
		Sync:   newSyncService(repos, f, engine, cfg, log),
		Export: newExportService(repos, log),
	}
}
