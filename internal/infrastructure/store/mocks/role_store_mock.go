package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/example/stockledger/internal/infrastructure/store"
	"github.com/example/stockledger/internal/model"
)

// MockRoleStore is an in-memory implementation of store.RoleStore for
// testing.
type MockRoleStore struct {
	mu    sync.RWMutex
	roles map[string]*model.Role
}

// NewMockRoleStore creates a new MockRoleStore
func NewMockRoleStore() *MockRoleStore {
	return &MockRoleStore{roles: make(map[string]*model.Role)}
}

// Seed adds a role directly.
func (m *MockRoleStore) Seed(r *model.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles[r.ID] = r
}

func (m *MockRoleStore) GetByID(ctx context.Context, id string) (*model.Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.roles[id]
	if !ok {
		return nil, store.ErrRoleNotFound
	}
	copied := *r
	return &copied, nil
}

func (m *MockRoleStore) GetByName(ctx context.Context, name string) (*model.Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.roles {
		if r.Name == name {
			copied := *r
			return &copied, nil
		}
	}
	return nil, store.ErrRoleNotFound
}

func (m *MockRoleStore) Create(ctx context.Context, r *model.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	m.roles[r.ID] = r
	return nil
}

func (m *MockRoleStore) Update(ctx context.Context, r *model.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.roles[r.ID]; !ok {
		return store.ErrRoleNotFound
	}
	m.roles[r.ID] = r
	return nil
}

func (m *MockRoleStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.roles[id]; !ok {
		return store.ErrRoleNotFound
	}
	delete(m.roles, id)
	return nil
}

func (m *MockRoleStore) List(ctx context.Context) ([]*model.Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	roles := make([]*model.Role, 0, len(m.roles))
	for _, r := range m.roles {
		copied := *r
		roles = append(roles, &copied)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
	return roles, nil
}
