package api

import (
	"net/http"

	"github.com/example/stockledger/internal/infrastructure/store"
)

// lowStockThreshold marks products the report counts as running low.
const lowStockThreshold = 10

// ReportHandlers produces inventory report data. Rendering (Excel,
// PDF) is a frontend concern; this endpoint only serves the numbers.
type ReportHandlers struct {
	products store.ProductStore
}

func NewReportHandlers(products store.ProductStore) *ReportHandlers {
	return &ReportHandlers{products: products}
}

// InventoryReport handles GET /api/reports/inventory.
func (h *ReportHandlers) InventoryReport(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListAll(r.Context())
	if err != nil {
		respondError(w, "Failed to fetch products", http.StatusInternalServerError)
		return
	}

	var totalStockValue float64
	var totalItems, lowStockCount int
	for _, p := range products {
		totalStockValue += float64(p.StockQuantity) * p.CostPrice
		totalItems += p.StockQuantity
		if p.StockQuantity < lowStockThreshold {
			lowStockCount++
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"stats": map[string]any{
			"totalStockValue": totalStockValue,
			"lowStockCount":   lowStockCount,
			"totalItems":      totalItems,
		},
		"products": products,
	})
}
