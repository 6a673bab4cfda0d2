package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/stockledger/internal/infrastructure/store"
	"github.com/example/stockledger/internal/infrastructure/store/mocks"
	"github.com/example/stockledger/internal/model"
)

// fakePublisher records published events
type fakePublisher struct {
	mu     sync.Mutex
	keys   []string
	events []MovementRecorded
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.keys = append(p.keys, key)
	p.events = append(p.events, event.(MovementRecorded))
	return nil
}

// fakeGuard simulates the scan debounce
type fakeGuard struct {
	allow bool
	err   error
	keys  []string
}

func (g *fakeGuard) Acquire(ctx context.Context, key string) (bool, error) {
	g.keys = append(g.keys, key)
	return g.allow, g.err
}

func newTestService(t *testing.T, stock int) (*Service, *mocks.MockProductStore, *mocks.MockLedgerStore) {
	t.Helper()
	products := mocks.NewMockProductStore()
	products.Seed(&model.Product{
		ID:            "prod-1",
		Name:          "Widget",
		SKU:           "WID-001",
		StockQuantity: stock,
	})
	entries := mocks.NewMockLedgerStore(products)
	return NewService(products, entries), products, entries
}

func TestRecordMovement_InThenOut(t *testing.T) {
	svc, products, entries := newTestService(t, 0)
	ctx := context.Background()

	_, err := svc.RecordMovement(ctx, MovementInput{ProductID: "prod-1", Type: KindIn, Quantity: 5}, "user-1")
	require.NoError(t, err)

	tx, err := svc.RecordMovement(ctx, MovementInput{ProductID: "prod-1", Type: KindOut, Quantity: 3}, "user-1")
	require.NoError(t, err)

	// Net effect on stock is +2, while the entries keep the original
	// kind and quantity, not the signed delta.
	assert.Equal(t, 2, products.Quantity("prod-1"))
	assert.Equal(t, KindOut, tx.Type)
	assert.Equal(t, 3, tx.Quantity)
	require.Len(t, entries.Entries, 2)
	assert.Equal(t, 5, entries.Entries[0].Quantity)
	assert.Equal(t, KindIn, entries.Entries[0].Type)
}

func TestRecordMovement_AdjustmentIsSigned(t *testing.T) {
	svc, products, _ := newTestService(t, 10)
	ctx := context.Background()

	_, err := svc.RecordMovement(ctx, MovementInput{ProductID: "prod-1", Type: KindAdjustment, Quantity: -4, Reason: "damage"}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 6, products.Quantity("prod-1"))

	_, err = svc.RecordMovement(ctx, MovementInput{ProductID: "prod-1", Type: KindAdjustment, Quantity: 7}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 13, products.Quantity("prod-1"))
}

func TestRecordMovement_OutMayOverdraw(t *testing.T) {
	svc, products, _ := newTestService(t, 5)

	_, err := svc.RecordMovement(context.Background(), MovementInput{ProductID: "prod-1", Type: KindOut, Quantity: 100}, "user-1")

	require.NoError(t, err)
	assert.Equal(t, -95, products.Quantity("prod-1"))
}

func TestRecordMovement_InvalidKind(t *testing.T) {
	svc, products, entries := newTestService(t, 5)

	tx, err := svc.RecordMovement(context.Background(), MovementInput{ProductID: "prod-1", Type: "TRANSFER", Quantity: 1}, "user-1")

	assert.ErrorIs(t, err, ErrInvalidKind)
	assert.Nil(t, tx)
	assert.Empty(t, entries.Entries)
	assert.Equal(t, 5, products.Quantity("prod-1"))
}

func TestRecordMovement_MissingFields(t *testing.T) {
	svc, _, _ := newTestService(t, 5)

	tests := []struct {
		name  string
		input MovementInput
	}{
		{"no product", MovementInput{Type: KindIn, Quantity: 1}},
		{"no type", MovementInput{ProductID: "prod-1", Quantity: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecordMovement(context.Background(), tt.input, "user-1")
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestRecordMovement_ProductNotFound(t *testing.T) {
	svc, _, _ := newTestService(t, 5)

	_, err := svc.RecordMovement(context.Background(), MovementInput{ProductID: "missing", Type: KindIn, Quantity: 1}, "user-1")

	assert.ErrorIs(t, err, store.ErrProductNotFound)
}

func TestRecordMovement_PublishesEvent(t *testing.T) {
	svc, _, _ := newTestService(t, 0)
	publisher := &fakePublisher{}
	svc.WithPublisher(publisher)

	tx, err := svc.RecordMovement(context.Background(), MovementInput{ProductID: "prod-1", Type: KindIn, Quantity: 5}, "user-1")
	require.NoError(t, err)

	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	assert.Equal(t, EventMovementRecorded, event.Event)
	assert.Equal(t, tx.ID, event.TransactionID)
	assert.Equal(t, "prod-1", event.ProductID)
	assert.Equal(t, "WID-001", event.SKU)
	assert.Equal(t, 5, event.ResultingStock)
	// Events are keyed by product so movements for one product stay in
	// order.
	assert.Equal(t, []string{"prod-1"}, publisher.keys)
}

func TestRecordMovement_PublishFailureDoesNotFail(t *testing.T) {
	svc, products, _ := newTestService(t, 0)
	svc.WithPublisher(&fakePublisher{err: errors.New("broker down")})

	_, err := svc.RecordMovement(context.Background(), MovementInput{ProductID: "prod-1", Type: KindIn, Quantity: 5}, "user-1")

	require.NoError(t, err)
	assert.Equal(t, 5, products.Quantity("prod-1"))
}

func TestRecordScan_In(t *testing.T) {
	svc, products, entries := newTestService(t, 3)

	result, err := svc.RecordScan(context.Background(), "WID-001", KindIn, "user-1")

	require.NoError(t, err)
	assert.Equal(t, 4, result.Product.CurrentStock)
	assert.Equal(t, "WID-001", result.Product.SKU)
	assert.Equal(t, 4, products.Quantity("prod-1"))
	require.Len(t, entries.Entries, 1)
	assert.Equal(t, 1, entries.Entries[0].Quantity)
	assert.Equal(t, "QR Scan", entries.Entries[0].Reason)
}

func TestRecordScan_OutAtZeroFails(t *testing.T) {
	svc, products, entries := newTestService(t, 0)

	result, err := svc.RecordScan(context.Background(), "WID-001", KindOut, "user-1")

	assert.ErrorIs(t, err, store.ErrInsufficientStock)
	assert.Nil(t, result)
	// Nothing written, nothing changed.
	assert.Empty(t, entries.Entries)
	assert.Equal(t, 0, products.Quantity("prod-1"))
}

func TestRecordScan_OnlyInAndOut(t *testing.T) {
	svc, _, _ := newTestService(t, 5)

	_, err := svc.RecordScan(context.Background(), "WID-001", KindAdjustment, "user-1")

	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestRecordScan_UnknownSKU(t *testing.T) {
	svc, _, _ := newTestService(t, 5)

	_, err := svc.RecordScan(context.Background(), "NOPE-999", KindIn, "user-1")

	assert.ErrorIs(t, err, store.ErrProductNotFound)
}

func TestRecordScan_EmptySKU(t *testing.T) {
	svc, _, _ := newTestService(t, 5)

	_, err := svc.RecordScan(context.Background(), "", KindIn, "user-1")

	assert.ErrorIs(t, err, ErrValidation)
}

func TestRecordScan_Debounced(t *testing.T) {
	svc, _, entries := newTestService(t, 5)
	guard := &fakeGuard{allow: false}
	svc.WithScanGuard(guard)

	result, err := svc.RecordScan(context.Background(), "WID-001", KindOut, "user-1")

	assert.ErrorIs(t, err, ErrDuplicateScan)
	assert.Nil(t, result)
	assert.Empty(t, entries.Entries)
	assert.Equal(t, []string{"scan:user-1:WID-001:OUT"}, guard.keys)
}

func TestRecordScan_BrokenGuardDoesNotBlock(t *testing.T) {
	svc, products, _ := newTestService(t, 5)
	svc.WithScanGuard(&fakeGuard{err: errors.New("redis down")})

	_, err := svc.RecordScan(context.Background(), "WID-001", KindIn, "user-1")

	require.NoError(t, err)
	assert.Equal(t, 6, products.Quantity("prod-1"))
}

func TestRecordMovement_Concurrent(t *testing.T) {
	svc, products, entries := newTestService(t, 0)
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.RecordMovement(ctx, MovementInput{ProductID: "prod-1", Type: KindIn, Quantity: 1}, "user-1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, n, products.Quantity("prod-1"))
	assert.Len(t, entries.Entries, n)
}
