package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	model "labelforge.com/labelforge/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(&model.Project{}, &model.Dataset{}, &model.Task{}, &model.Comment{})
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	return db
}

func seedDataset(t *testing.T, db *gorm.DB) *model.Dataset {
	project := &model.Project{
		Name:      "Customer Sentiment Analysis",
		CreatedBy: "admin-1",
		CreatedAt: time.Now().UTC(),
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to create project: %v", err)
	}

	dataset := &model.Dataset{
		ProjectID: project.ID,
		Name:      "Sentiment v2",
		Labels:    model.StringList{"positive", "negative", "neutral"},
		CreatedAt: time.Now().UTC(),
	}
	if err := db.Create(dataset).Error; err != nil {
		t.Fatalf("failed to create dataset: %v", err)
	}

	return dataset
}

func mustCreate(t *testing.T, db *gorm.DB, value interface{}) {
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("failed to create fixture row: %v", err)
	}
}

// mockMetricsCache is a simple in-memory metrics cache for testing.
type mockMetricsCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMockMetricsCache() *mockMetricsCache {
	return &mockMetricsCache{entries: make(map[string][]byte)}
}

func (m *mockMetricsCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	payload, ok := m.entries[key]
	return payload, ok, nil
}

func (m *mockMetricsCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = payload
	return nil
}

func (m *mockMetricsCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.entries[key]
	return ok
}
