package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sheet-sync-api/internal/config"
	"github.com/sheet-sync-api/internal/fetcher"
	"github.com/sheet-sync-api/internal/models"
	"github.com/sheet-sync-api/internal/reconcile"
	"github.com/sheet-sync-api/internal/store"
)

// ErrSyncInFlight is returned when a sync cycle is requested while
// another one is still running. Cycles write whole collections, so they
// must never interleave.
var ErrSyncInFlight = errors.New("a sync cycle is already in progress")

// lastSyncLayout renders the last-sync display text the way the sheet
// operators read it (Brazilian day/month/year).
const lastSyncLayout = "02/01/2006 15:04:05"

// syncService is the concrete implementation of SyncService
type syncService struct {
	repos   *store.Repositories
	fetcher *fetcher.Fetcher
	engine  *reconcile.Engine
	cfg     *config.Config
	log     zerolog.Logger

	mu       sync.Mutex
	inFlight bool

	autoMu     sync.Mutex
	autoCancel context.CancelFunc
	autoDone   chan struct{}
}

// newSyncService creates a new SyncService
func newSyncService(repos *store.Repositories, f *fetcher.Fetcher, engine *reconcile.Engine, cfg *config.Config, log zerolog.Logger) *syncService {
	return &syncService{
		repos:   repos,
		fetcher: f,
		engine:  engine,
		cfg:     cfg,
		log:     log.With().Str("service", "sync").Logger(),
	}
}

// Run executes one full sync cycle
func (s *syncService) Run(ctx context.Context) (*models.SyncRun, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrSyncInFlight
	}
	s.inFlight = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	sourceURL, err := s.sourceURL(ctx)
	if err != nil {
		return nil, err
	}

	run := &models.SyncRun{
		ID:        uuid.NewString(),
		Status:    models.SyncStatusRunning,
		SourceURL: sourceURL,
		StartedAt: time.Now(),
	}
	if err := s.repos.SyncRuns.Create(ctx, run); err != nil {
		return nil, err
	}

	s.log.Info().Str("run_id", run.ID).Msg("Starting sync cycle")

	if err := s.runCycle(ctx, run); err != nil {
		s.finishRun(ctx, run, err)
		return run, err
	}
	s.finishRun(ctx, run, nil)
	return run, nil
}

// runCycle does the fetch-reconcile-apply sequence for one run.
func (s *syncService) runCycle(ctx context.Context, run *models.SyncRun) error {
	batch, err := s.fetcher.Fetch(ctx, run.SourceURL)
	if err != nil {
		return err
	}

	res := s.engine.Reconcile(batch)
	run.DiscardedCount = res.Stats.Discarded()

	// Apply only computed collections: a nil slice means that category
	// carried nothing valid and the stored collection stays as it is.
	if res.Usuarios != nil {
		if err := s.repos.Collections.Set(ctx, models.CollectionUsuarios, res.Usuarios); err != nil {
			return err
		}
		run.UsuariosUpdated = true
		run.UsuariosCount = len(res.Usuarios)
	}
	if res.Turmas != nil {
		if err := s.repos.Collections.Set(ctx, models.CollectionTurmas, res.Turmas); err != nil {
			return err
		}
		run.TurmasUpdated = true
		run.TurmasCount = len(res.Turmas)
	}
	if res.Alunos != nil {
		if err := s.repos.Collections.Set(ctx, models.CollectionAlunos, res.Alunos); err != nil {
			return err
		}
		if err := s.repos.Collections.Set(ctx, models.CollectionMatriculas, res.Matriculas); err != nil {
			return err
		}
		run.BaseUpdated = true
		run.AlunosCount = len(res.Alunos)
		run.MatriculasCount = len(res.Matriculas)
	}

	lastSync := time.Now().Format(lastSyncLayout)
	if err := s.repos.Settings.Set(ctx, models.SettingLastSync, lastSync); err != nil {
		return err
	}

	return nil
}

// finishRun records the terminal state of a run.
func (s *syncService) finishRun(ctx context.Context, run *models.SyncRun, cause error) {
	now := time.Now()
	run.CompletedAt = &now
	run.DurationMs = now.Sub(run.StartedAt).Milliseconds()

	if cause != nil {
		run.Status = models.SyncStatusFailed
		run.Error = cause.Error()
		s.log.Error().Err(cause).Str("run_id", run.ID).Msg("Sync cycle failed")
	} else {
		run.Status = models.SyncStatusCompleted
		s.log.Info().
			Str("run_id", run.ID).
			Int("usuarios", run.UsuariosCount).
			Int("turmas", run.TurmasCount).
			Int("alunos", run.AlunosCount).
			Int("matriculas", run.MatriculasCount).
			Int("discarded", run.DiscardedCount).
			Int64("duration_ms", run.DurationMs).
			Msg("Sync cycle completed")
	}

	if err := s.repos.SyncRuns.Update(ctx, run); err != nil {
		s.log.Error().Err(err).Str("run_id", run.ID).Msg("Failed to persist sync run")
	}
}

// sourceURL resolves the endpoint: a stored setting wins over the
// configured default.
func (s *syncService) sourceURL(ctx context.Context) (string, error) {
	url, err := s.repos.Settings.Get(ctx, models.SettingSourceURL)
	if err != nil {
		return "", err
	}
	if url != "" {
		return url, nil
	}
	return s.cfg.Sheets.SourceURL, nil
}

// Status returns the latest run and the last-sync display text
func (s *syncService) Status(ctx context.Context) (*models.SyncRun, string, error) {
	run, err := s.repos.SyncRuns.Latest(ctx)
	if err != nil {
		return nil, "", err
	}
	lastSync, err := s.repos.Settings.Get(ctx, models.SettingLastSync)
	if err != nil {
		return nil, "", err
	}
	return run, lastSync, nil
}

// History returns recent runs, newest first
func (s *syncService) History(ctx context.Context, limit int) ([]*models.SyncRun, error) {
	return s.repos.SyncRuns.List(ctx, limit)
}

// StartAutoSync runs sync cycles on the configured interval
func (s *syncService) StartAutoSync(ctx context.Context) {
	interval := s.cfg.Sheets.AutoSyncInterval
	if interval <= 0 {
		return
	}

	s.autoMu.Lock()
	if s.autoCancel != nil {
		s.autoMu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.autoCancel = cancel
	done := make(chan struct{})
	s.autoDone = done
	s.autoMu.Unlock()

	s.log.Info().Dur("interval", interval).Msg("Auto-sync started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("Auto-sync stopping")
			return
		case <-ticker.C:
			if _, err := s.Run(ctx); err != nil && !errors.Is(err, ErrSyncInFlight) {
				s.log.Error().Err(err).Msg("Auto-sync cycle failed")
			}
		}
	}
}

// StopAutoSync stops the periodic sync loop
func (s *syncService) StopAutoSync() {
	s.autoMu.Lock()
	cancel := s.autoCancel
	done := s.autoDone
	s.autoCancel = nil
	s.autoDone = nil
	s.autoMu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}
