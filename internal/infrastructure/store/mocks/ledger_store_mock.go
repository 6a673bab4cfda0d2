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

// MockLedgerStore is an in-memory implementation of store.LedgerStore
// for testing. It shares quantity state with a MockProductStore so the
// append-plus-update stays atomic, mirroring the real single
// transaction.
type MockLedgerStore struct {
	mu       sync.RWMutex
	products *MockProductStore

	Entries []*model.StockTransaction
}

// NewMockLedgerStore creates a new MockLedgerStore backed by products.
func NewMockLedgerStore(products *MockProductStore) *MockLedgerStore {
	return &MockLedgerStore{
		products: products,
		Entries:  make([]*model.StockTransaction, 0),
	}
}

func (m *MockLedgerStore) AppendMovement(ctx context.Context, entry *model.StockTransaction, delta int) (int, error) {
	return m.append(entry, delta, false)
}

func (m *MockLedgerStore) AppendMovementChecked(ctx context.Context, entry *model.StockTransaction, delta int) (int, error) {
	return m.append(entry, delta, true)
}

func (m *MockLedgerStore) append(entry *model.StockTransaction, delta int, checked bool) (int, error) {
	quantity, err := m.products.applyDelta(entry.ProductID, delta, checked)
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	copied := *entry
	m.Entries = append(m.Entries, &copied)
	return quantity, nil
}

func (m *MockLedgerStore) Query(ctx context.Context, q store.MovementQuery) ([]*model.StockTransaction, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]*model.StockTransaction, 0)
	for _, t := range m.Entries {
		if q.Type != "" && q.Type != "ALL" && t.Type != q.Type {
			continue
		}
		if q.ProductIDs != nil && !contains(q.ProductIDs, t.ProductID) {
			continue
		}
		if q.Start != nil && t.CreatedAt.Before(*q.Start) {
			continue
		}
		if q.End != nil && t.CreatedAt.After(*q.End) {
			continue
		}
		if q.UserID != "" && t.UserID != q.UserID {
			continue
		}
		copied := *t
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	limit := q.Limit
	if limit < 1 {
		limit = 10
	}
	return paginate(matched, q.Offset, limit), total, nil
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
