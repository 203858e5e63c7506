package services

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/SAP-F-2025/challenge-service/internal/cache"
	"github.com/SAP-F-2025/challenge-service/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockProjectStore is a mock implementation of repositories.ProjectStore
type MockProjectStore struct {
	mock.Mock
}

func (m *MockProjectStore) Load(ctx context.Context) ([]*models.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Project), args.Error(1)
}

func (m *MockProjectStore) Get(ctx context.Context, id string) (*models.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectStore) Save(ctx context.Context, project *models.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// memoryResultCache is an in-process cache.ResultCache for play tests
type memoryResultCache struct {
	mu      sync.Mutex
	results map[string]models.SessionResult
	order   []string
}

func newMemoryResultCache() *memoryResultCache {
	return &memoryResultCache{results: make(map[string]models.SessionResult)}
}

func (c *memoryResultCache) Set(ctx context.Context, result models.SessionResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.results[result.SessionID]; !ok {
		c.order = append(c.order, result.SessionID)
	}
	c.results[result.SessionID] = result
	return nil
}

func (c *memoryResultCache) Get(ctx context.Context, sessionID string) (*models.SessionResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.results[sessionID]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return &r, nil
}

func (c *memoryResultCache) ListByTest(ctx context.Context, testID string) ([]models.SessionResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []models.SessionResult
	for _, id := range c.order {
		if r, ok := c.results[id]; ok && r.TestID == testID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (c *memoryResultCache) Delete(ctx context.Context, sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.results, sessionID)
	return nil
}

func (c *memoryResultCache) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func stringPtr(s string) *string {
	return &s
}
