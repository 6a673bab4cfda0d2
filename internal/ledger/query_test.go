package ledger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/stockledger/internal/infrastructure/store/mocks"
	"github.com/example/stockledger/internal/model"
)

var queryRef = time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

func newQueryService(t *testing.T) (*Service, *mocks.MockLedgerStore) {
	t.Helper()
	products := mocks.NewMockProductStore()
	products.Seed(&model.Product{ID: "prod-1", Name: "Widget", SKU: "WID-001"})
	products.Seed(&model.Product{ID: "prod-2", Name: "Gadget", SKU: "GAD-001"})
	entries := mocks.NewMockLedgerStore(products)

	svc := NewService(products, entries)
	svc.now = func() time.Time { return queryRef }
	return svc, entries
}

func seedEntry(entries *mocks.MockLedgerStore, id, productID, userID, kind string, at time.Time) {
	entries.Entries = append(entries.Entries, &model.StockTransaction{
		ID:        id,
		ProductID: productID,
		UserID:    userID,
		Type:      kind,
		Quantity:  1,
		CreatedAt: at,
	})
}

func TestQuery_OrderAndDefaults(t *testing.T) {
	svc, entries := newQueryService(t)
	seedEntry(entries, "t1", "prod-1", "user-1", KindIn, queryRef.Add(-3*time.Hour))
	seedEntry(entries, "t2", "prod-1", "user-1", KindOut, queryRef.Add(-1*time.Hour))
	seedEntry(entries, "t3", "prod-2", "user-2", KindIn, queryRef.Add(-2*time.Hour))

	result, err := svc.Query(context.Background(), QueryFilters{}, Caller{UserID: "user-1", Privileged: true})

	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 1, result.Pages)
	// Most recent first.
	require.Len(t, result.Transactions, 3)
	assert.Equal(t, "t2", result.Transactions[0].ID)
	assert.Equal(t, "t3", result.Transactions[1].ID)
	assert.Equal(t, "t1", result.Transactions[2].ID)
}

func TestQuery_NonPrivilegedSeesOwnOnly(t *testing.T) {
	svc, entries := newQueryService(t)
	seedEntry(entries, "t1", "prod-1", "user-1", KindIn, queryRef.Add(-1*time.Hour))
	seedEntry(entries, "t2", "prod-1", "user-2", KindIn, queryRef.Add(-2*time.Hour))

	result, err := svc.Query(context.Background(), QueryFilters{}, Caller{UserID: "user-1"})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "t1", result.Transactions[0].ID)
}

func TestQuery_TypeFilter(t *testing.T) {
	svc, entries := newQueryService(t)
	seedEntry(entries, "t1", "prod-1", "user-1", KindIn, queryRef.Add(-1*time.Hour))
	seedEntry(entries, "t2", "prod-1", "user-1", KindOut, queryRef.Add(-2*time.Hour))
	caller := Caller{UserID: "user-1", Privileged: true}

	result, err := svc.Query(context.Background(), QueryFilters{Type: KindOut}, caller)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "t2", result.Transactions[0].ID)

	// "ALL" is the same as no filter.
	result, err = svc.Query(context.Background(), QueryFilters{Type: "ALL"}, caller)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
}

func TestQuery_SearchFiltersByProduct(t *testing.T) {
	svc, entries := newQueryService(t)
	seedEntry(entries, "t1", "prod-1", "user-1", KindIn, queryRef.Add(-1*time.Hour))
	seedEntry(entries, "t2", "prod-2", "user-1", KindIn, queryRef.Add(-2*time.Hour))

	result, err := svc.Query(context.Background(), QueryFilters{Search: "widget"},
		Caller{UserID: "user-1", Privileged: true})

	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "t1", result.Transactions[0].ID)
}

func TestQuery_SearchWithoutMatches(t *testing.T) {
	svc, entries := newQueryService(t)
	seedEntry(entries, "t1", "prod-1", "user-1", KindIn, queryRef.Add(-1*time.Hour))

	result, err := svc.Query(context.Background(), QueryFilters{Search: "no-such-product"},
		Caller{UserID: "user-1", Privileged: true})

	require.NoError(t, err)
	assert.Empty(t, result.Transactions)
	assert.Equal(t, 0, result.Total)
	assert.Equal(t, 1, result.Page)
}

func TestQuery_Today(t *testing.T) {
	svc, entries := newQueryService(t)
	seedEntry(entries, "today", "prod-1", "user-1", KindIn, queryRef.Add(-2*time.Hour))
	seedEntry(entries, "yesterday", "prod-1", "user-1", KindIn, queryRef.Add(-24*time.Hour))

	result, err := svc.Query(context.Background(), QueryFilters{Date: "today"},
		Caller{UserID: "user-1", Privileged: true})

	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "today", result.Transactions[0].ID)
}

func TestQuery_ExplicitRangeWinsOverToday(t *testing.T) {
	svc, entries := newQueryService(t)
	seedEntry(entries, "today", "prod-1", "user-1", KindIn, queryRef.Add(-2*time.Hour))
	yesterday := queryRef.Add(-24 * time.Hour)
	seedEntry(entries, "yesterday", "prod-1", "user-1", KindIn, yesterday)

	day := yesterday.Format("2006-01-02")
	result, err := svc.Query(context.Background(),
		QueryFilters{Date: "today", StartDate: day, EndDate: day},
		Caller{UserID: "user-1", Privileged: true})

	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "yesterday", result.Transactions[0].ID)
}

func TestQuery_InvalidDate(t *testing.T) {
	svc, _ := newQueryService(t)

	_, err := svc.Query(context.Background(),
		QueryFilters{StartDate: "15/03/2026", EndDate: "16/03/2026"},
		Caller{UserID: "user-1", Privileged: true})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestQuery_Pagination(t *testing.T) {
	svc, entries := newQueryService(t)
	// 25 entries, t25 newest.
	for i := 1; i <= 25; i++ {
		seedEntry(entries, fmt.Sprintf("t%d", i), "prod-1", "user-1", KindIn,
			queryRef.Add(time.Duration(i)*time.Minute))
	}

	result, err := svc.Query(context.Background(), QueryFilters{Page: 2, Limit: 10},
		Caller{UserID: "user-1", Privileged: true})

	require.NoError(t, err)
	assert.Equal(t, 25, result.Total)
	assert.Equal(t, 2, result.Page)
	assert.Equal(t, 3, result.Pages)
	require.Len(t, result.Transactions, 10)
	assert.Equal(t, "t15", result.Transactions[0].ID)
	assert.Equal(t, "t6", result.Transactions[9].ID)
}
