package service

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sheet-sync-api/internal/mocks"
	"github.com/sheet-sync-api/internal/models"
	"github.com/sheet-sync-api/internal/store"
)

func newExportFixture() (*exportService, *mocks.MockCollectionRepository) {
	collections := mocks.NewMockCollectionRepository()
	repos := &store.Repositories{
		Collections: collections,
		Settings:    mocks.NewMockSettingsRepository(),
		SyncRuns:    mocks.NewMockSyncRunRepository(),
	}
	return newExportService(repos, zerolog.Nop()), collections
}

func TestStreamCollectionJSON(t *testing.T) {
	svc, collections := newExportFixture()
	collections.Collections[models.CollectionTurmas] = json.RawMessage(`[{"id":"Ballet","nome":"Ballet","horario":"Seg 10h","professor":"Bia","capacidade":12}]`)

	rec := httptest.NewRecorder()
	if err := svc.StreamCollection(context.Background(), rec, models.CollectionTurmas, "json"); err != nil {
		t.Fatalf("StreamCollection() error: %v", err)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var turmas []models.Turma
	if err := json.Unmarshal(rec.Body.Bytes(), &turmas); err != nil {
		t.Fatalf("body not valid JSON: %v", err)
	}
	if len(turmas) != 1 || turmas[0].Nome != "Ballet" {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestStreamCollectionNDJSON(t *testing.T) {
	svc, collections := newExportFixture()
	collections.Collections[models.CollectionMatriculas] = json.RawMessage(`[{"id":"a","alunoId":"x","turmaId":"T"},{"id":"b","alunoId":"y","turmaId":"T"}]`)

	rec := httptest.NewRecorder()
	if err := svc.StreamCollection(context.Background(), rec, models.CollectionMatriculas, "ndjson"); err != nil {
		t.Fatalf("StreamCollection() error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 {
		t.Errorf("got %d lines, want 2", len(lines))
	}
}

func TestStreamCollectionCSVOmitsPasswords(t *testing.T) {
	svc, collections := newExportFixture()
	collections.Collections[models.CollectionUsuarios] = json.RawMessage(`[{"login":"mari","senha":"segredo","nivel":"Gestor","nome":"Mariana"}]`)

	rec := httptest.NewRecorder()
	if err := svc.StreamCollection(context.Background(), rec, models.CollectionUsuarios, "csv"); err != nil {
		t.Fatalf("StreamCollection() error: %v", err)
	}
	body := rec.Body.String()
	if strings.Contains(body, "segredo") {
		t.Error("CSV export must not contain passwords")
	}
	if !strings.Contains(body, "mari,Gestor,Mariana") {
		t.Errorf("unexpected CSV body: %s", body)
	}
}

func TestStreamCollectionEmptyAndUnknown(t *testing.T) {
	svc, _ := newExportFixture()

	rec := httptest.NewRecorder()
	if err := svc.StreamCollection(context.Background(), rec, models.CollectionAlunos, "json"); err != nil {
		t.Fatalf("StreamCollection() on never-written collection: %v", err)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("body = %q, want empty array", rec.Body.String())
	}

	if err := svc.StreamCollection(context.Background(), httptest.NewRecorder(), "presencas", "json"); err == nil {
		t.Error("unknown collection should error")
	}
	if err := svc.StreamCollection(context.Background(), httptest.NewRecorder(), models.CollectionAlunos, "xml"); err == nil {
		t.Error("unsupported format should error")
	}
}
