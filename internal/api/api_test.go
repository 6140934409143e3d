package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sheet-sync-api/internal/mocks"
	"github.com/sheet-sync-api/internal/models"
	"github.com/sheet-sync-api/internal/service"
	"github.com/sheet-sync-api/internal/store"
)

type apiFixture struct {
	router      *gin.Engine
	sync        *mocks.MockSyncService
	export      *mocks.MockExportService
	collections *mocks.MockCollectionRepository
	settings    *mocks.MockSettingsRepository
}

func newAPIFixture() *apiFixture {
	syncSvc := &mocks.MockSyncService{}
	exportSvc := &mocks.MockExportService{}
	collections := mocks.NewMockCollectionRepository()
	settings := mocks.NewMockSettingsRepository()

	services := &service.Services{Sync: syncSvc, Export: exportSvc}
	repos := &store.Repositories{
		Collections: collections,
		Settings:    settings,
		SyncRuns:    mocks.NewMockSyncRunRepository(),
	}

	return &apiFixture{
		router:      NewRouter(services, repos, zerolog.Nop()),
		sync:        syncSvc,
		export:      exportSvc,
		collections: collections,
		settings:    settings,
	}
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	f := newAPIFixture()
	rec := doRequest(f.router, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "healthy") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestTriggerSync(t *testing.T) {
	t.Run("success returns the run", func(t *testing.T) {
		f := newAPIFixture()
		f.sync.RunResult = &models.SyncRun{
			ID:        "run-1",
			Status:    models.SyncStatusCompleted,
			StartedAt: time.Now(),
		}

		rec := doRequest(f.router, http.MethodPost, "/v1/sync", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
		if f.sync.RunCalls != 1 {
			t.Errorf("RunCalls = %d, want 1", f.sync.RunCalls)
		}
		if !strings.Contains(rec.Body.String(), "run-1") {
			t.Errorf("body should carry the run: %s", rec.Body.String())
		}
	})

	t.Run("conflict when a cycle is in flight", func(t *testing.T) {
		f := newAPIFixture()
		f.sync.RunError = service.ErrSyncInFlight

		rec := doRequest(f.router, http.MethodPost, "/v1/sync", "")
		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("failed cycle reported as bad gateway", func(t *testing.T) {
		f := newAPIFixture()
		f.sync.RunResult = &models.SyncRun{ID: "run-2", Status: models.SyncStatusFailed}
		f.sync.RunError = errors.New("fetch failed")

		rec := doRequest(f.router, http.MethodPost, "/v1/sync", "")
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("status = %d, want 502", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "run-2") {
			t.Errorf("body should carry the failed run: %s", rec.Body.String())
		}
	})
}

func TestGetSyncStatus(t *testing.T) {
	f := newAPIFixture()
	f.sync.StatusRun = &models.SyncRun{ID: "run-9", Status: models.SyncStatusCompleted}
	f.sync.LastSyncText = "29/08/2026 10:00:00"

	rec := doRequest(f.router, http.MethodGet, "/v1/sync/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		LastRun  *models.SyncRun `json:"last_run"`
		LastSync string          `json:"last_sync"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body.LastRun == nil || body.LastRun.ID != "run-9" {
		t.Errorf("unexpected last_run: %+v", body.LastRun)
	}
	if body.LastSync != "29/08/2026 10:00:00" {
		t.Errorf("last_sync = %q", body.LastSync)
	}
}

func TestListSyncRuns(t *testing.T) {
	f := newAPIFixture()
	f.sync.HistoryRuns = []*models.SyncRun{{ID: "run-a"}, {ID: "run-b"}}

	rec := doRequest(f.router, http.MethodGet, "/v1/sync/runs?limit=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Runs  []*models.SyncRun `json:"runs"`
		Count int               `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body.Count != 1 || len(body.Runs) != 1 {
		t.Errorf("count = %d, runs = %d, want 1 each", body.Count, len(body.Runs))
	}

	rec = doRequest(f.router, http.MethodGet, "/v1/sync/runs?limit=zero", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for bad limit", rec.Code)
	}
}

func TestGetCollection(t *testing.T) {
	f := newAPIFixture()
	f.collections.Collections[models.CollectionAlunos] = json.RawMessage(`[{"id":"ana_lima","nome":"Ana Lima"}]`)

	t.Run("stored collection returned as-is", func(t *testing.T) {
		rec := doRequest(f.router, http.MethodGet, "/v1/collections/alunos", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "ana_lima") {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}
	})

	t.Run("never-written collection yields empty array", func(t *testing.T) {
		rec := doRequest(f.router, http.MethodGet, "/v1/collections/turmas", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if strings.TrimSpace(rec.Body.String()) != "[]" {
			t.Errorf("body = %q, want []", rec.Body.String())
		}
	})

	t.Run("unknown collection is 404", func(t *testing.T) {
		rec := doRequest(f.router, http.MethodGet, "/v1/collections/presencas", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}

func TestSettingsEndpoints(t *testing.T) {
	f := newAPIFixture()

	t.Run("put then get source url", func(t *testing.T) {
		rec := doRequest(f.router, http.MethodPut, "/v1/settings/source_url", `{"value":"https://example.com/exec"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("PUT status = %d, want 200: %s", rec.Code, rec.Body.String())
		}

		rec = doRequest(f.router, http.MethodGet, "/v1/settings/source_url", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("GET status = %d, want 200", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "https://example.com/exec") {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}
	})

	t.Run("last_sync is read-only", func(t *testing.T) {
		rec := doRequest(f.router, http.MethodPut, "/v1/settings/last_sync", `{"value":"x"}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("empty value rejected", func(t *testing.T) {
		rec := doRequest(f.router, http.MethodPut, "/v1/settings/source_url", `{"value":"  "}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestStreamExportEndpoint(t *testing.T) {
	f := newAPIFixture()
	f.export.Body = `[{"id":"x"}]`

	rec := doRequest(f.router, http.MethodGet, "/v1/exports?resource=matriculas&format=json", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	rec = doRequest(f.router, http.MethodGet, "/v1/exports?resource=nope", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for unknown resource", rec.Code)
	}

	rec = doRequest(f.router, http.MethodGet, "/v1/exports?resource=alunos&format=xml", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for unknown format", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	f := newAPIFixture()
	f.collections.Collections[models.CollectionTurmas] = json.RawMessage(`[{"nome":"a"},{"nome":"b"}]`)

	rec := doRequest(f.router, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Collections map[string]int `json:"collections"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body.Collections["turmas"] != 2 {
		t.Errorf("turmas count = %d, want 2", body.Collections["turmas"])
	}
}
