package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sheet-sync-api/internal/database"
	"github.com/sheet-sync-api/internal/models"
)

// syncRunRepo is the concrete implementation of SyncRunRepository
type syncRunRepo struct {
	db *database.DB
}

// NewSyncRunRepo creates a new sync-run repository
func NewSyncRunRepo(db *database.DB) SyncRunRepository {
	return &syncRunRepo{db: db}
}

// Create inserts a new sync run
func (r *syncRunRepo) Create(ctx context.Context, run *models.SyncRun) error {
	query := `
		INSERT INTO sync_runs (
			id, status, error, source_url, started_at, completed_at, duration_ms,
			usuarios_count, turmas_count, alunos_count, matriculas_count, discarded_count,
			usuarios_updated, turmas_updated, base_updated
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.ExecContext(ctx, query,
		run.ID, run.Status, run.Error, run.SourceURL, run.StartedAt, run.CompletedAt, run.DurationMs,
		run.UsuariosCount, run.TurmasCount, run.AlunosCount, run.MatriculasCount, run.DiscardedCount,
		run.UsuariosUpdated, run.TurmasUpdated, run.BaseUpdated,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sync run: %w", err)
	}
	return nil
}

// Update persists the final state of a sync run
func (r *syncRunRepo) Update(ctx context.Context, run *models.SyncRun) error {
	query := `
		UPDATE sync_runs SET
			status = $2, error = $3, completed_at = $4, duration_ms = $5,
			usuarios_count = $6, turmas_count = $7, alunos_count = $8,
			matriculas_count = $9, discarded_count = $10,
			usuarios_updated = $11, turmas_updated = $12, base_updated = $13
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		run.ID, run.Status, run.Error, run.CompletedAt, run.DurationMs,
		run.UsuariosCount, run.TurmasCount, run.AlunosCount,
		run.MatriculasCount, run.DiscardedCount,
		run.UsuariosUpdated, run.TurmasUpdated, run.BaseUpdated,
	)
	if err != nil {
		return fmt.Errorf("failed to update sync run: %w", err)
	}
	return nil
}

// Latest returns the most recently started sync run, nil when none exist
func (r *syncRunRepo) Latest(ctx context.Context) (*models.SyncRun, error) {
	runs, err := r.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return runs[0], nil
}

// List returns sync runs ordered newest first
func (r *syncRunRepo) List(ctx context.Context, limit int) ([]*models.SyncRun, error) {
	query := `
		SELECT id, status, error, source_url, started_at, completed_at, duration_ms,
			usuarios_count, turmas_count, alunos_count, matriculas_count, discarded_count,
			usuarios_updated, turmas_updated, base_updated
		FROM sync_runs
		ORDER BY started_at DESC
	`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.SyncRun
	for rows.Next() {
		run := &models.SyncRun{}
		var completedAt sql.NullTime
		var errMsg sql.NullString
		if err := rows.Scan(
			&run.ID, &run.Status, &errMsg, &run.SourceURL, &run.StartedAt, &completedAt, &run.DurationMs,
			&run.UsuariosCount, &run.TurmasCount, &run.AlunosCount, &run.MatriculasCount, &run.DiscardedCount,
			&run.UsuariosUpdated, &run.TurmasUpdated, &run.BaseUpdated,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sync run: %w", err)
		}
		if completedAt.Valid {
			run.CompletedAt = &completedAt.Time
		}
		if errMsg.Valid {
			run.Error = errMsg.String
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}
