package mocks

import (
	"context"
	"net/http"

	"github.com/sheet-sync-api/internal/models"
)

// MockSyncService is a mock implementation of service.SyncService
type MockSyncService struct {
	RunResult    *models.SyncRun
	RunError     error
	RunCalls     int
	StatusRun    *models.SyncRun
	LastSyncText string
	HistoryRuns  []*models.SyncRun
}

func (m *MockSyncService) Run(ctx context.Context) (*models.SyncRun, error) {
	m.RunCalls++
	return m.RunResult, m.RunError
}

func (m *MockSyncService) Status(ctx context.Context) (*models.SyncRun, string, error) {
	return m.StatusRun, m.LastSyncText, nil
}

func (m *MockSyncService) History(ctx context.Context, limit int) ([]*models.SyncRun, error) {
	if limit > 0 && len(m.HistoryRuns) > limit {
		return m.HistoryRuns[:limit], nil
	}
	return m.HistoryRuns, nil
}

func (m *MockSyncService) StartAutoSync(ctx context.Context) {}

func (m *MockSyncService) StopAutoSync() {}

// MockExportService is a mock implementation of service.ExportService
type MockExportService struct {
	Body        string
	StreamError error
}

func (m *MockExportService) StreamCollection(ctx context.Context, w http.ResponseWriter, name, format string) error {
	if m.StreamError != nil {
		return m.StreamError
	}
	_, err := w.Write([]byte(m.Body))
	return err
}
