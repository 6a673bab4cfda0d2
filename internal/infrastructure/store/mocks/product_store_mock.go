package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/example/stockledger/internal/infrastructure/store"
	"github.com/example/stockledger/internal/model"
)

// MockProductStore is an in-memory implementation of store.ProductStore
// for testing.
type MockProductStore struct {
	mu       sync.RWMutex
	products map[string]*model.Product

	// For tracking calls in tests
	ApplyDeltaCalls []ApplyDeltaCall
}

// ApplyDeltaCall records parameters passed to ApplyDelta
type ApplyDeltaCall struct {
	ProductID string
	Delta     int
}

// NewMockProductStore creates a new MockProductStore
func NewMockProductStore() *MockProductStore {
	return &MockProductStore{
		products:        make(map[string]*model.Product),
		ApplyDeltaCalls: make([]ApplyDeltaCall, 0),
	}
}

// Seed adds a product directly without recording a call.
func (m *MockProductStore) Seed(p *model.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
}

func (m *MockProductStore) GetByID(ctx context.Context, id string) (*model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil, store.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *MockProductStore) GetBySKU(ctx context.Context, sku string) (*model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.products {
		if p.SKU == sku {
			copied := *p
			return &copied, nil
		}
	}
	return nil, store.ErrProductNotFound
}

func (m *MockProductStore) Create(ctx context.Context, p *model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.products {
		if existing.SKU == p.SKU {
			return store.ErrDuplicateSKU
		}
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	m.products[p.ID] = p
	return nil
}

func (m *MockProductStore) Update(ctx context.Context, p *model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.products[p.ID]
	if !ok {
		return store.ErrProductNotFound
	}
	// Stock quantity stays ledger-owned, same as the real store.
	quantity := existing.StockQuantity
	copied := *p
	copied.StockQuantity = quantity
	m.products[p.ID] = &copied
	return nil
}

func (m *MockProductStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return store.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *MockProductStore) List(ctx context.Context, q store.ProductQuery) ([]*model.Product, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]*model.Product, 0)
	for _, p := range m.products {
		if q.Keyword != "" && !matchesKeyword(p, q.Keyword) {
			continue
		}
		if q.CatalogID != "" && p.CatalogID != q.CatalogID {
			continue
		}
		copied := *p
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.PageSize
	if size < 1 {
		size = 10
	}
	return paginate(matched, size*(page-1), size), total, nil
}

func (m *MockProductStore) ListAll(ctx context.Context) ([]*model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	products := make([]*model.Product, 0, len(m.products))
	for _, p := range m.products {
		copied := *p
		products = append(products, &copied)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})
	return products, nil
}

func (m *MockProductStore) ListCompact(ctx context.Context, keyword string) ([]*model.ProductSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summaries := make([]*model.ProductSummary, 0)
	for _, p := range m.products {
		if keyword != "" && !matchesKeyword(p, keyword) {
			continue
		}
		summaries = append(summaries, &model.ProductSummary{
			ID:           p.ID,
			Name:         p.Name,
			SKU:          p.SKU,
			UnitPrice:    p.UnitPrice,
			CurrentStock: p.StockQuantity,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Name < summaries[j].Name
	})
	return summaries, nil
}

func (m *MockProductStore) FindIDsByKeyword(ctx context.Context, keyword string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0)
	for _, p := range m.products {
		if matchesKeyword(p, keyword) {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}

func (m *MockProductStore) ApplyDelta(ctx context.Context, id string, delta int) (int, error) {
	return m.applyDelta(id, delta, false)
}

// applyDelta is shared with MockLedgerStore so the entry append and the
// quantity change stay atomic under one lock, like the real transaction.
func (m *MockProductStore) applyDelta(id string, delta int, checked bool) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ApplyDeltaCalls = append(m.ApplyDeltaCalls, ApplyDeltaCall{ProductID: id, Delta: delta})

	p, ok := m.products[id]
	if !ok {
		return 0, store.ErrProductNotFound
	}
	if checked && p.StockQuantity+delta < 0 {
		return 0, store.ErrInsufficientStock
	}
	p.StockQuantity += delta
	return p.StockQuantity, nil
}

// Quantity returns the current stock quantity directly for assertions.
func (m *MockProductStore) Quantity(id string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.products[id]; ok {
		return p.StockQuantity
	}
	return 0
}

func matchesKeyword(p *model.Product, keyword string) bool {
	k := strings.ToLower(keyword)
	return strings.Contains(strings.ToLower(p.Name), k) ||
		strings.Contains(strings.ToLower(p.SKU), k)
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
