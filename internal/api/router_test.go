package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/stockledger/internal/auth"
	"github.com/example/stockledger/internal/infrastructure/store/mocks"
	"github.com/example/stockledger/internal/ledger"
	"github.com/example/stockledger/internal/model"
)

type routerFixture struct {
	handler  http.Handler
	jwt      *auth.JWTService
	products *mocks.MockProductStore
	entries  *mocks.MockLedgerStore
	roles    *mocks.MockRoleStore
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	products := mocks.NewMockProductStore()
	products.Seed(&model.Product{ID: "prod-1", Name: "Widget", SKU: "WID-001", StockQuantity: 5})
	entries := mocks.NewMockLedgerStore(products)
	roles := mocks.NewMockRoleStore()
	roles.Seed(&model.Role{ID: "role-staff", Name: "Staff", Permissions: []string{auth.PermManageStock}})
	roles.Seed(&model.Role{ID: "role-viewer", Name: "Viewer", Permissions: []string{auth.PermViewProducts}})

	jwtService := auth.NewJWTService("router-test-secret-key", 24*time.Hour)
	notifications := mocks.NewMockNotificationStore()
	users := mocks.NewMockUserStore()
	catalogs := mocks.NewMockCatalogStore()

	handler := NewRouter(RouterConfig{
		Products:      NewProductHandlers(products),
		Stock:         NewStockHandlers(ledger.NewService(products, entries)),
		Users:         NewUserHandlers(users, roles, jwtService),
		Roles:         NewRoleHandlers(roles),
		Catalogs:      NewCatalogHandlers(catalogs),
		Notifications: NewNotificationHandlers(notifications),
		Reports:       NewReportHandlers(products),
		JWTService:    jwtService,
		RoleSource:    roles,
	})

	return &routerFixture{
		handler:  handler,
		jwt:      jwtService,
		products: products,
		entries:  entries,
		roles:    roles,
	}
}

func (f *routerFixture) tokenFor(t *testing.T, userID, roleID, roleName string) string {
	t.Helper()
	token, _, err := f.jwt.GenerateToken(userID, userID+"@example.com", roleID, roleName)
	require.NoError(t, err)
	return token
}

func TestRouter_StockRequiresAuth(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/stock", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_StockRequiresPermission(t *testing.T) {
	f := newRouterFixture(t)
	token := f.tokenFor(t, "user-1", "role-viewer", "Viewer")

	req := httptest.NewRequest(http.MethodPost, "/api/stock",
		strings.NewReader(`{"productId":"prod-1","type":"IN","quantity":1}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_RecordMovementEndToEnd(t *testing.T) {
	f := newRouterFixture(t)
	token := f.tokenFor(t, "user-1", "role-staff", "Staff")

	req := httptest.NewRequest(http.MethodPost, "/api/stock",
		strings.NewReader(`{"productId":"prod-1","type":"IN","quantity":4,"reason":"delivery"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 9, f.products.Quantity("prod-1"))

	// The caller's id from the token ends up on the ledger entry.
	require.Len(t, f.entries.Entries, 1)
	assert.Equal(t, "user-1", f.entries.Entries[0].UserID)
}

func TestRouter_ScanOnlyNeedsAuth(t *testing.T) {
	f := newRouterFixture(t)
	// Viewer lacks manage_stock, but the scan fast path is open to any
	// authenticated user.
	token := f.tokenFor(t, "user-2", "role-viewer", "Viewer")

	req := httptest.NewRequest(http.MethodPost, "/api/stock/scan",
		strings.NewReader(`{"sku":"WID-001","type":"IN"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 6, f.products.Quantity("prod-1"))
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodPatch, "/api/stock", nil)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_Root(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["message"], "running")
}
