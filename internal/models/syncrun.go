package models

import (
	"time"
)

// SyncStatus represents the state of a sync cycle.
type SyncStatus string

const (
	SyncStatusRunning   SyncStatus = "running"
	SyncStatusCompleted SyncStatus = "completed"
	SyncStatusFailed    SyncStatus = "failed"
)

// SyncRun records one sync cycle: what was fetched, what was reconciled
// and which collections were replaced. Collections the source omitted (or
// sent with zero valid rows) are left untouched and show up here with a
// zero count and the corresponding Updated flag unset.
type SyncRun struct {
	ID          string     `json:"id" db:"id"`
	Status      SyncStatus `json:"status" db:"status"`
	Error       string     `json:"error,omitempty" db:"error"`
	SourceURL   string     `json:"-" db:"source_url"`
	StartedAt   time.Time  `json:"started_at" db:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	DurationMs  int64      `json:"duration_ms" db:"duration_ms"`

	UsuariosCount   int `json:"usuarios" db:"usuarios_count"`
	TurmasCount     int `json:"turmas" db:"turmas_count"`
	AlunosCount     int `json:"alunos" db:"alunos_count"`
	MatriculasCount int `json:"matriculas" db:"matriculas_count"`
	DiscardedCount  int `json:"discarded" db:"discarded_count"`

	UsuariosUpdated bool `json:"usuarios_updated" db:"usuarios_updated"`
	TurmasUpdated   bool `json:"turmas_updated" db:"turmas_updated"`
	BaseUpdated     bool `json:"base_updated" db:"base_updated"`
}

// Collection names understood by the persistence layer.
const (
	CollectionAlunos     = "alunos"
	CollectionTurmas     = "turmas"
	CollectionMatriculas = "matriculas"
	CollectionUsuarios   = "usuarios"
)

// ValidCollections gates the collection lookup endpoints.
var ValidCollections = map[string]bool{
	CollectionAlunos:     true,
	CollectionTurmas:     true,
	CollectionMatriculas: true,
	CollectionUsuarios:   true,
}

// Setting keys stored alongside the collections.
const (
	SettingSourceURL = "source_url"
	SettingLastSync  = "last_sync"
)
