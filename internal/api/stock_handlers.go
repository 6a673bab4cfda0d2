package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/example/stockledger/internal/api/middleware"
	"github.com/example/stockledger/internal/infrastructure/store"
	"github.com/example/stockledger/internal/ledger"
)

// StockHandlers exposes the stock ledger over HTTP.
type StockHandlers struct {
	ledger *ledger.Service
}

func NewStockHandlers(svc *ledger.Service) *StockHandlers {
	return &StockHandlers{ledger: svc}
}

// ListTransactions handles GET /api/stock. Non-privileged callers only
// see their own movements.
func (h *StockHandlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters := ledger.QueryFilters{
		Type:      q.Get("type"),
		Search:    q.Get("search"),
		Date:      q.Get("date"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filters.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filters.Limit = limit
	}

	caller := ledger.Caller{
		UserID:     middleware.GetUserID(r.Context()),
		Privileged: middleware.IsPrivileged(r.Context()),
	}

	result, err := h.ledger.Query(r.Context(), filters, caller)
	if errors.Is(err, ledger.ErrValidation) {
		respondError(w, "Invalid date range", http.StatusBadRequest)
		return
	}
	if err != nil {
		respondError(w, "Failed to fetch stock transactions", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// AddTransaction handles POST /api/stock.
func (h *StockHandlers) AddTransaction(w http.ResponseWriter, r *http.Request) {
	var in ledger.MovementInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	entry, err := h.ledger.RecordMovement(r.Context(), in, middleware.GetUserID(r.Context()))
	switch {
	case errors.Is(err, store.ErrProductNotFound):
		respondError(w, "Product not found", http.StatusNotFound)
		return
	case errors.Is(err, ledger.ErrInvalidKind):
		respondError(w, "Invalid transaction type. Must be IN, OUT or ADJUSTMENT", http.StatusBadRequest)
		return
	case errors.Is(err, ledger.ErrValidation):
		respondError(w, "Product and transaction type are required", http.StatusBadRequest)
		return
	case err != nil:
		respondError(w, "Failed to record stock transaction", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, entry)
}

// HandleScan handles POST /api/stock/scan, the QR fast path: quantity
// fixed at one, IN or OUT only, OUT rejected when out of stock.
func (h *StockHandlers) HandleScan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SKU  string `json:"sku"`
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.ledger.RecordScan(r.Context(), req.SKU, req.Type, middleware.GetUserID(r.Context()))
	switch {
	case errors.Is(err, store.ErrProductNotFound):
		respondError(w, "Product not found", http.StatusNotFound)
		return
	case errors.Is(err, ledger.ErrInvalidKind):
		respondError(w, "Invalid transaction type. Must be IN or OUT", http.StatusBadRequest)
		return
	case errors.Is(err, store.ErrInsufficientStock):
		respondError(w, "Out of stock. Cannot process OUT transaction.", http.StatusBadRequest)
		return
	case errors.Is(err, ledger.ErrDuplicateScan):
		respondError(w, "Duplicate scan ignored", http.StatusConflict)
		return
	case errors.Is(err, ledger.ErrValidation):
		respondError(w, "SKU is required", http.StatusBadRequest)
		return
	case err != nil:
		respondError(w, "Failed to record stock transaction", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message":     "Stock updated successfully",
		"product":     result.Product,
		"transaction": result.Transaction,
	})
}
