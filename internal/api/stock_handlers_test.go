package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/stockledger/internal/api/middleware"
	"github.com/example/stockledger/internal/auth"
	"github.com/example/stockledger/internal/infrastructure/store/mocks"
	"github.com/example/stockledger/internal/ledger"
	"github.com/example/stockledger/internal/model"
)

func newStockTestHandlers(t *testing.T, stock int) (*StockHandlers, *mocks.MockProductStore, *mocks.MockLedgerStore) {
	t.Helper()
	products := mocks.NewMockProductStore()
	products.Seed(&model.Product{
		ID:            "prod-1",
		Name:          "Widget",
		SKU:           "WID-001",
		StockQuantity: stock,
	})
	entries := mocks.NewMockLedgerStore(products)
	return NewStockHandlers(ledger.NewService(products, entries)), products, entries
}

func asUser(r *http.Request, userID, roleName string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserContextKey, &auth.Claims{
		UserID:   userID,
		RoleName: roleName,
	})
	return r.WithContext(ctx)
}

func TestAddTransaction_Created(t *testing.T) {
	handlers, products, _ := newStockTestHandlers(t, 0)

	body := `{"productId":"prod-1","type":"IN","quantity":5,"reason":"delivery"}`
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/stock", strings.NewReader(body)), "user-1", "Staff")
	rec := httptest.NewRecorder()

	handlers.AddTransaction(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var entry model.StockTransaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	assert.Equal(t, "IN", entry.Type)
	assert.Equal(t, 5, entry.Quantity)
	assert.Equal(t, "user-1", entry.UserID)
	assert.Equal(t, 5, products.Quantity("prod-1"))
}

func TestAddTransaction_UnknownProduct(t *testing.T) {
	handlers, _, _ := newStockTestHandlers(t, 0)

	body := `{"productId":"missing","type":"IN","quantity":5}`
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/stock", strings.NewReader(body)), "user-1", "Staff")
	rec := httptest.NewRecorder()

	handlers.AddTransaction(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product not found")
}

func TestAddTransaction_InvalidType(t *testing.T) {
	handlers, _, _ := newStockTestHandlers(t, 0)

	body := `{"productId":"prod-1","type":"TRANSFER","quantity":5}`
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/stock", strings.NewReader(body)), "user-1", "Staff")
	rec := httptest.NewRecorder()

	handlers.AddTransaction(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid transaction type")
}

func TestAddTransaction_MissingFields(t *testing.T) {
	handlers, _, _ := newStockTestHandlers(t, 0)

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/stock", strings.NewReader(`{"quantity":5}`)), "user-1", "Staff")
	rec := httptest.NewRecorder()

	handlers.AddTransaction(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddTransaction_BadBody(t *testing.T) {
	handlers, _, _ := newStockTestHandlers(t, 0)

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/stock", strings.NewReader("{not json")), "user-1", "Staff")
	rec := httptest.NewRecorder()

	handlers.AddTransaction(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleScan_Created(t *testing.T) {
	handlers, _, _ := newStockTestHandlers(t, 3)

	body := `{"sku":"WID-001","type":"OUT"}`
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/stock/scan", strings.NewReader(body)), "user-1", "Staff")
	rec := httptest.NewRecorder()

	handlers.HandleScan(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Message     string                  `json:"message"`
		Product     model.ProductSummary    `json:"product"`
		Transaction *model.StockTransaction `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Stock updated successfully", resp.Message)
	assert.Equal(t, 2, resp.Product.CurrentStock)
	require.NotNil(t, resp.Transaction)
	assert.Equal(t, 1, resp.Transaction.Quantity)
}

func TestHandleScan_OutOfStock(t *testing.T) {
	handlers, products, entries := newStockTestHandlers(t, 0)

	body := `{"sku":"WID-001","type":"OUT"}`
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/stock/scan", strings.NewReader(body)), "user-1", "Staff")
	rec := httptest.NewRecorder()

	handlers.HandleScan(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Out of stock")
	assert.Empty(t, entries.Entries)
	assert.Equal(t, 0, products.Quantity("prod-1"))
}

func TestHandleScan_InvalidType(t *testing.T) {
	handlers, _, _ := newStockTestHandlers(t, 3)

	body := `{"sku":"WID-001","type":"ADJUSTMENT"}`
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/stock/scan", strings.NewReader(body)), "user-1", "Staff")
	rec := httptest.NewRecorder()

	handlers.HandleScan(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Must be IN or OUT")
}

func TestListTransactions_ScopedToCaller(t *testing.T) {
	handlers, products, entries := newStockTestHandlers(t, 100)
	svc := ledger.NewService(products, entries)

	// One movement per user.
	_, err := svc.RecordMovement(context.Background(),
		ledger.MovementInput{ProductID: "prod-1", Type: "OUT", Quantity: 1}, "user-1")
	require.NoError(t, err)
	_, err = svc.RecordMovement(context.Background(),
		ledger.MovementInput{ProductID: "prod-1", Type: "OUT", Quantity: 2}, "user-2")
	require.NoError(t, err)

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/stock", nil), "user-1", "Staff")
	rec := httptest.NewRecorder()
	handlers.ListTransactions(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var result ledger.QueryResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Total)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "user-1", result.Transactions[0].UserID)

	// The admin role sees everything.
	req = asUser(httptest.NewRequest(http.MethodGet, "/api/stock", nil), "user-1", auth.AdminRoleName)
	rec = httptest.NewRecorder()
	handlers.ListTransactions(rec, req)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Total)
}

func TestListTransactions_InvalidDateRange(t *testing.T) {
	handlers, _, _ := newStockTestHandlers(t, 0)

	req := asUser(httptest.NewRequest(http.MethodGet,
		"/api/stock?startDate=bogus&endDate=2026-01-02", nil), "user-1", "Staff")
	rec := httptest.NewRecorder()

	handlers.ListTransactions(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid date range")
}
