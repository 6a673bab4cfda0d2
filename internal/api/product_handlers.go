package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/example/stockledger/internal/api/middleware"
	"github.com/example/stockledger/internal/infrastructure/store"
	"github.com/example/stockledger/internal/model"
)

// ProductHandlers handles product CRUD and the barcode listing.
type ProductHandlers struct {
	products store.ProductStore
}

func NewProductHandlers(products store.ProductStore) *ProductHandlers {
	return &ProductHandlers{products: products}
}

// ProductRequest is the create/update request body. Images are URL
// strings; upload handling lives outside this service.
type ProductRequest struct {
	Name          string   `json:"name"`
	SKU           string   `json:"sku"`
	CatalogID     string   `json:"catalog_id"`
	Description   string   `json:"description"`
	Images        []string `json:"images"`
	UnitPrice     float64  `json:"unit_price"`
	CostPrice     float64  `json:"cost_price"`
	StockQuantity int      `json:"stock_quantity"`
}

// ListProducts returns a keyword/catalog filtered page of products.
func (h *ProductHandlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("pageNumber")); err == nil && p > 0 {
		page = p
	}

	products, total, err := h.products.List(r.Context(), store.ProductQuery{
		Keyword:   r.URL.Query().Get("keyword"),
		CatalogID: r.URL.Query().Get("catalog"),
		Page:      page,
		PageSize:  10,
	})
	if err != nil {
		respondError(w, "Failed to fetch products", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"products": products,
		"page":     page,
		"pages":    (total + 9) / 10,
	})
}

// GetProduct returns a single product by id.
func (h *ProductHandlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/products/")

	product, err := h.products.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrProductNotFound) {
		respondError(w, "Product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		respondError(w, "Failed to fetch product", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// CreateProduct creates a product owned by the caller.
func (h *ProductHandlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.SKU == "" || req.CatalogID == "" {
		respondError(w, "Name, SKU and catalog are required", http.StatusBadRequest)
		return
	}

	product := &model.Product{
		Name:          req.Name,
		SKU:           req.SKU,
		CatalogID:     req.CatalogID,
		Description:   req.Description,
		Images:        req.Images,
		UnitPrice:     req.UnitPrice,
		CostPrice:     req.CostPrice,
		StockQuantity: req.StockQuantity,
		UserID:        middleware.GetUserID(r.Context()),
	}
	if err := h.products.Create(r.Context(), product); err != nil {
		if errors.Is(err, store.ErrDuplicateSKU) {
			respondError(w, "SKU already exists", http.StatusBadRequest)
			return
		}
		respondError(w, "Failed to create product", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, product)
}

// UpdateProduct updates product attributes. Empty fields keep their
// current values; stock quantity is never written here, only the
// ledger changes it.
func (h *ProductHandlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/products/")

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	product, err := h.products.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrProductNotFound) {
		respondError(w, "Product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		respondError(w, "Failed to fetch product", http.StatusInternalServerError)
		return
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.SKU != "" {
		product.SKU = req.SKU
	}
	if req.CatalogID != "" {
		product.CatalogID = req.CatalogID
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if len(req.Images) > 0 {
		product.Images = req.Images
	}
	if req.UnitPrice != 0 {
		product.UnitPrice = req.UnitPrice
	}
	if req.CostPrice != 0 {
		product.CostPrice = req.CostPrice
	}

	if err := h.products.Update(r.Context(), product); err != nil {
		respondError(w, "Failed to update product", storeErrorStatus(err))
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// DeleteProduct removes a product. Ledger entries referencing it are
// kept; the history query tolerates the dangling reference.
func (h *ProductHandlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/products/")

	err := h.products.Delete(r.Context(), id)
	if errors.Is(err, store.ErrProductNotFound) {
		respondError(w, "Product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		respondError(w, "Failed to delete product", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Product removed"})
}

// ListBarcodeProducts returns the compact product fields used for
// barcode generation.
func (h *ProductHandlers) ListBarcodeProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListCompact(r.Context(), r.URL.Query().Get("keyword"))
	if err != nil {
		respondError(w, "Failed to fetch products", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, products)
}
