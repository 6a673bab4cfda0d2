// Package ledger validates and records stock movements. It is the sole
// writer of product stock quantities: every change goes through an
// immutable stock transaction paired with an atomic quantity update.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/example/stockledger/internal/infrastructure/store"
	"github.com/example/stockledger/internal/model"
)

// Movement kinds.
const (
	KindIn         = "IN"
	KindOut        = "OUT"
	KindAdjustment = "ADJUSTMENT"
)

var (
	ErrInvalidKind   = errors.New("invalid transaction type")
	ErrDuplicateScan = errors.New("duplicate scan")
	ErrValidation    = errors.New("missing required fields")
)

// Publisher emits movement events for downstream consumers. A nil
// publisher disables events.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// ScanGuard debounces repeated QR scans. Acquire returns false when the
// same scan was seen within the debounce window. A nil guard disables
// debouncing.
type ScanGuard interface {
	Acquire(ctx context.Context, key string) (bool, error)
}

// Service coordinates the inventory store and the transaction log.
type Service struct {
	products  store.ProductStore
	entries   store.LedgerStore
	publisher Publisher
	guard     ScanGuard
	now       func() time.Time
}

func NewService(products store.ProductStore, entries store.LedgerStore) *Service {
	return &Service{
		products: products,
		entries:  entries,
		now:      time.Now,
	}
}

// WithPublisher attaches an event publisher for recorded movements.
func (s *Service) WithPublisher(p Publisher) *Service {
	s.publisher = p
	return s
}

// WithScanGuard attaches a debounce guard for the scan path.
func (s *Service) WithScanGuard(g ScanGuard) *Service {
	s.guard = g
	return s
}

// MovementInput is a manual stock movement request.
type MovementInput struct {
	ProductID string `json:"productId"`
	Type      string `json:"type"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
}

// delta returns the signed quantity change a movement applies. IN adds,
// OUT subtracts, ADJUSTMENT applies the quantity as given so a negative
// value decreases stock directly.
func delta(kind string, quantity int) (int, error) {
	switch kind {
	case KindIn:
		return quantity, nil
	case KindOut:
		return -quantity, nil
	case KindAdjustment:
		return quantity, nil
	default:
		return 0, ErrInvalidKind
	}
}

// RecordMovement validates and records a stock movement for the acting
// user, returning the created ledger entry. The ledger keeps the
// original kind and quantity, not the signed delta. The general OUT
// path does not pre-check availability, so stock may go negative; the
// scan path is the strict one.
func (s *Service) RecordMovement(ctx context.Context, in MovementInput, actorID string) (*model.StockTransaction, error) {
	if in.ProductID == "" || in.Type == "" {
		return nil, ErrValidation
	}

	product, err := s.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	d, err := delta(in.Type, in.Quantity)
	if err != nil {
		return nil, err
	}

	entry := &model.StockTransaction{
		ProductID: product.ID,
		UserID:    actorID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Reason:    in.Reason,
		CreatedAt: s.now(),
	}

	newQuantity, err := s.entries.AppendMovement(ctx, entry, d)
	if err != nil {
		return nil, fmt.Errorf("record movement: %w", err)
	}

	s.publish(ctx, product, entry, newQuantity)
	return entry, nil
}

// ScanResult is the QR fast-path response: the updated product summary
// plus the created entry.
type ScanResult struct {
	Product     model.ProductSummary
	Transaction *model.StockTransaction
}

// RecordScan records a fixed quantity-1 movement resolved by SKU. Only
// IN and OUT are allowed. Unlike RecordMovement, an OUT scan checks
// availability: at quantity zero it fails with insufficient stock and
// nothing is written.
func (s *Service) RecordScan(ctx context.Context, sku, kind, actorID string) (*ScanResult, error) {
	if sku == "" {
		return nil, ErrValidation
	}
	if kind != KindIn && kind != KindOut {
		return nil, ErrInvalidKind
	}

	product, err := s.products.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}

	if s.guard != nil {
		key := fmt.Sprintf("scan:%s:%s:%s", actorID, sku, kind)
		ok, err := s.guard.Acquire(ctx, key)
		if err != nil {
			// Debouncing is best-effort; a broken guard must not block scans.
			log.Printf("[Ledger] scan guard unavailable: %v", err)
		} else if !ok {
			return nil, ErrDuplicateScan
		}
	}

	d := 1
	if kind == KindOut {
		d = -1
	}

	entry := &model.StockTransaction{
		ProductID: product.ID,
		UserID:    actorID,
		Type:      kind,
		Quantity:  1,
		Reason:    "QR Scan",
		CreatedAt: s.now(),
	}

	newQuantity, err := s.entries.AppendMovementChecked(ctx, entry, d)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, product, entry, newQuantity)

	return &ScanResult{
		Product: model.ProductSummary{
			ID:           product.ID,
			Name:         product.Name,
			SKU:          product.SKU,
			CurrentStock: newQuantity,
		},
		Transaction: entry,
	}, nil
}

func (s *Service) publish(ctx context.Context, product *model.Product, entry *model.StockTransaction, newQuantity int) {
	if s.publisher == nil {
		return
	}
	event := MovementRecorded{
		Event:          EventMovementRecorded,
		TransactionID:  entry.ID,
		ProductID:      product.ID,
		ProductName:    product.Name,
		SKU:            product.SKU,
		Type:           entry.Type,
		Quantity:       entry.Quantity,
		ResultingStock: newQuantity,
		UserID:         entry.UserID,
		OccurredAt:     entry.CreatedAt,
	}
	// Best-effort: the movement is already committed, a lost event only
	// delays a notification.
	if err := s.publisher.Publish(ctx, product.ID, event); err != nil {
		log.Printf("[Ledger] failed to publish movement event: %v", err)
	}
}
