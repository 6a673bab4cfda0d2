package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/example/stockledger/internal/infrastructure/store"
)

// respondJSON writes data as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError writes the error shape the frontend expects:
// {"message": "..."}.
func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"message": message})
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}

// storeErrorStatus maps store sentinels to client statuses: not-found
// to 404, duplicates to 400, everything else to 500.
func storeErrorStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrProductNotFound),
		errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrRoleNotFound),
		errors.Is(err, store.ErrCatalogNotFound),
		errors.Is(err, store.ErrNotificationNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrDuplicateSKU),
		errors.Is(err, store.ErrDuplicateCode),
		errors.Is(err, store.ErrDuplicateEmail):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
