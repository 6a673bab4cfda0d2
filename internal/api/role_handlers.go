package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/example/stockledger/internal/infrastructure/store"
	"github.com/example/stockledger/internal/model"
)

// RoleHandlers handles role management.
type RoleHandlers struct {
	roles store.RoleStore
}

func NewRoleHandlers(roles store.RoleStore) *RoleHandlers {
	return &RoleHandlers{roles: roles}
}

// RoleRequest is the create/update request body.
type RoleRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

func (h *RoleHandlers) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roles.List(r.Context())
	if err != nil {
		respondError(w, "Failed to fetch roles", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, roles)
}

func (h *RoleHandlers) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req RoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		respondError(w, "Role name is required", http.StatusBadRequest)
		return
	}

	role := &model.Role{
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	}
	if err := h.roles.Create(r.Context(), role); err != nil {
		respondError(w, "Failed to create role", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, role)
}

func (h *RoleHandlers) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/roles/")

	var req RoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	role, err := h.roles.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrRoleNotFound) {
		respondError(w, "Role not found", http.StatusNotFound)
		return
	}
	if err != nil {
		respondError(w, "Failed to fetch role", http.StatusInternalServerError)
		return
	}

	if req.Name != "" {
		role.Name = req.Name
	}
	if req.Description != "" {
		role.Description = req.Description
	}
	if req.Permissions != nil {
		role.Permissions = req.Permissions
	}

	if err := h.roles.Update(r.Context(), role); err != nil {
		respondError(w, "Failed to update role", storeErrorStatus(err))
		return
	}
	respondJSON(w, http.StatusOK, role)
}

func (h *RoleHandlers) DeleteRole(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/roles/")

	err := h.roles.Delete(r.Context(), id)
	if errors.Is(err, store.ErrRoleNotFound) {
		respondError(w, "Role not found", http.StatusNotFound)
		return
	}
	if err != nil {
		respondError(w, "Failed to delete role", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Role removed"})
}
