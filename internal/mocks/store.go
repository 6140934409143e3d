package mocks

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/sheet-sync-api/internal/models"
)

// MockCollectionRepository is an in-memory implementation of
// store.CollectionRepository
type MockCollectionRepository struct {
	Collections map[string]json.RawMessage
	SetCalls    map[string]int
	SetError    error
}

func NewMockCollectionRepository() *MockCollectionRepository {
	return &MockCollectionRepository{
		Collections: make(map[string]json.RawMessage),
		SetCalls:    make(map[string]int),
	}
}

func (m *MockCollectionRepository) Get(ctx context.Context, name string) (json.RawMessage, error) {
	data, ok := m.Collections[name]
	if !ok {
		return nil, nil
	}
	return data, nil
}

func (m *MockCollectionRepository) Set(ctx context.Context, name string, v any) error {
	m.SetCalls[name]++
	if m.SetError != nil {
		return m.SetError
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.Collections[name] = data
	return nil
}

func (m *MockCollectionRepository) ItemCount(ctx context.Context, name string) (int, error) {
	data, ok := m.Collections[name]
	if !ok {
		return 0, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return 0, err
	}
	return len(items), nil
}

// MockSettingsRepository is an in-memory implementation of
// store.SettingsRepository
type MockSettingsRepository struct {
	Settings map[string]string
}

func NewMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{Settings: make(map[string]string)}
}

func (m *MockSettingsRepository) Get(ctx context.Context, key string) (string, error) {
	return m.Settings[key], nil
}

func (m *MockSettingsRepository) Set(ctx context.Context, key, value string) error {
	m.Settings[key] = value
	return nil
}

// MockSyncRunRepository is an in-memory implementation of
// store.SyncRunRepository
type MockSyncRunRepository struct {
	Runs map[string]*models.SyncRun
}

func NewMockSyncRunRepository() *MockSyncRunRepository {
	return &MockSyncRunRepository{Runs: make(map[string]*models.SyncRun)}
}

func (m *MockSyncRunRepository) Create(ctx context.Context, run *models.SyncRun) error {
	copied := *run
	m.Runs[run.ID] = &copied
	return nil
}

func (m *MockSyncRunRepository) Update(ctx context.Context, run *models.SyncRun) error {
	copied := *run
	m.Runs[run.ID] = &copied
	return nil
}

func (m *MockSyncRunRepository) Latest(ctx context.Context) (*models.SyncRun, error) {
	runs, err := m.List(ctx, 1)
	if err != nil || len(runs) == 0 {
		return nil, err
	}
	return runs[0], nil
}

func (m *MockSyncRunRepository) List(ctx context.Context, limit int) ([]*models.SyncRun, error) {
	runs := make([]*models.SyncRun, 0, len(m.Runs))
	for _, run := range m.Runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}
