package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/example/stockledger/internal/infrastructure/store"
	"github.com/example/stockledger/internal/model"
)

// CatalogHandlers handles catalog CRUD.
type CatalogHandlers struct {
	catalogs store.CatalogStore
}

func NewCatalogHandlers(catalogs store.CatalogStore) *CatalogHandlers {
	return &CatalogHandlers{catalogs: catalogs}
}

// CatalogRequest is the create/update request body.
type CatalogRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

func (h *CatalogHandlers) ListCatalogs(w http.ResponseWriter, r *http.Request) {
	catalogs, err := h.catalogs.List(r.Context())
	if err != nil {
		respondError(w, "Failed to fetch catalogs", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, catalogs)
}

func (h *CatalogHandlers) CreateCatalog(w http.ResponseWriter, r *http.Request) {
	var req CatalogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Code == "" {
		respondError(w, "Name and code are required", http.StatusBadRequest)
		return
	}

	catalog := &model.Catalog{Name: req.Name, Code: req.Code}
	if err := h.catalogs.Create(r.Context(), catalog); err != nil {
		if errors.Is(err, store.ErrDuplicateCode) {
			respondError(w, "Catalog code already exists", http.StatusBadRequest)
			return
		}
		respondError(w, "Failed to create catalog", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, catalog)
}

func (h *CatalogHandlers) UpdateCatalog(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/catalogs/")

	var req CatalogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	catalog, err := h.catalogs.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrCatalogNotFound) {
		respondError(w, "Catalog not found", http.StatusNotFound)
		return
	}
	if err != nil {
		respondError(w, "Failed to fetch catalog", http.StatusInternalServerError)
		return
	}

	if req.Name != "" {
		catalog.Name = req.Name
	}
	if req.Code != "" {
		catalog.Code = req.Code
	}

	if err := h.catalogs.Update(r.Context(), catalog); err != nil {
		respondError(w, "Failed to update catalog", storeErrorStatus(err))
		return
	}
	respondJSON(w, http.StatusOK, catalog)
}

func (h *CatalogHandlers) DeleteCatalog(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/catalogs/")

	err := h.catalogs.Delete(r.Context(), id)
	if errors.Is(err, store.ErrCatalogNotFound) {
		respondError(w, "Catalog not found", http.StatusNotFound)
		return
	}
	if err != nil {
		respondError(w, "Failed to delete catalog", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Catalog removed"})
}
