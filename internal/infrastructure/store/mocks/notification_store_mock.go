package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/stockledger/internal/infrastructure/store"
	"github.com/example/stockledger/internal/model"
)

// MockNotificationStore is an in-memory implementation of
// store.NotificationStore for testing.
type MockNotificationStore struct {
	mu            sync.RWMutex
	notifications map[string]*model.Notification

	// For tracking calls in tests
	CreateCalls []*model.Notification
}

// NewMockNotificationStore creates a new MockNotificationStore
func NewMockNotificationStore() *MockNotificationStore {
	return &MockNotificationStore{
		notifications: make(map[string]*model.Notification),
		CreateCalls:   make([]*model.Notification, 0),
	}
}

func (m *MockNotificationStore) GetByID(ctx context.Context, id string) (*model.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.notifications[id]
	if !ok {
		return nil, store.ErrNotificationNotFound
	}
	copied := *n
	return &copied, nil
}

func (m *MockNotificationStore) Create(ctx context.Context, n *model.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Type == "" {
		n.Type = model.NotificationInfo
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	copied := *n
	m.notifications[n.ID] = &copied
	m.CreateCalls = append(m.CreateCalls, &copied)
	return nil
}

func (m *MockNotificationStore) List(ctx context.Context) ([]*model.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	notifications := make([]*model.Notification, 0, len(m.notifications))
	for _, n := range m.notifications {
		copied := *n
		notifications = append(notifications, &copied)
	}
	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}

func (m *MockNotificationStore) MarkRead(ctx context.Context, id string) (*model.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[id]
	if !ok {
		return nil, store.ErrNotificationNotFound
	}
	n.Read = true
	copied := *n
	return &copied, nil
}

func (m *MockNotificationStore) MarkAllRead(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		n.Read = true
	}
	return nil
}

func (m *MockNotificationStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.notifications[id]; !ok {
		return store.ErrNotificationNotFound
	}
	delete(m.notifications, id)
	return nil
}

func (m *MockNotificationStore) DeleteAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = make(map[string]*model.Notification)
	return nil
}
