package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/example/stockledger/internal/infrastructure/store"
	"github.com/example/stockledger/internal/model"
)

// MockCatalogStore is an in-memory implementation of store.CatalogStore
// for testing.
type MockCatalogStore struct {
	mu       sync.RWMutex
	catalogs map[string]*model.Catalog
}

// NewMockCatalogStore creates a new MockCatalogStore
func NewMockCatalogStore() *MockCatalogStore {
	return &MockCatalogStore{catalogs: make(map[string]*model.Catalog)}
}

// Seed adds a catalog directly.
func (m *MockCatalogStore) Seed(c *model.Catalog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalogs[c.ID] = c
}

func (m *MockCatalogStore) GetByID(ctx context.Context, id string) (*model.Catalog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.catalogs[id]
	if !ok {
		return nil, store.ErrCatalogNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *MockCatalogStore) GetByCode(ctx context.Context, code string) (*model.Catalog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.catalogs {
		if c.Code == code {
			copied := *c
			return &copied, nil
		}
	}
	return nil, store.ErrCatalogNotFound
}

func (m *MockCatalogStore) Create(ctx context.Context, c *model.Catalog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.catalogs {
		if existing.Code == c.Code {
			return store.ErrDuplicateCode
		}
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	m.catalogs[c.ID] = c
	return nil
}

func (m *MockCatalogStore) Update(ctx context.Context, c *model.Catalog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.catalogs[c.ID]; !ok {
		return store.ErrCatalogNotFound
	}
	m.catalogs[c.ID] = c
	return nil
}

func (m *MockCatalogStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.catalogs[id]; !ok {
		return store.ErrCatalogNotFound
	}
	delete(m.catalogs, id)
	return nil
}

func (m *MockCatalogStore) List(ctx context.Context) ([]*model.Catalog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	catalogs := make([]*model.Catalog, 0, len(m.catalogs))
	for _, c := range m.catalogs {
		copied := *c
		catalogs = append(catalogs, &copied)
	}
	sort.Slice(catalogs, func(i, j int) bool { return catalogs[i].Name < catalogs[j].Name })
	return catalogs, nil
}
