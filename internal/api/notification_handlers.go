package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/example/stockledger/internal/infrastructure/store"
	"github.com/example/stockledger/internal/model"
)

// NotificationHandlers handles notification CRUD. Notifications are
// also created asynchronously by the notifier process; this surface is
// mainly for the dashboard.
type NotificationHandlers struct {
	notifications store.NotificationStore
}

func NewNotificationHandlers(notifications store.NotificationStore) *NotificationHandlers {
	return &NotificationHandlers{notifications: notifications}
}

func (h *NotificationHandlers) ListNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.notifications.List(r.Context())
	if err != nil {
		respondError(w, "Failed to fetch notifications", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandlers) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title   string `json:"title"`
		Message string `json:"message"`
		Type    string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.Message == "" {
		respondError(w, "Invalid notification data", http.StatusBadRequest)
		return
	}

	notification := &model.Notification{
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
	}
	if err := h.notifications.Create(r.Context(), notification); err != nil {
		respondError(w, "Failed to create notification", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, notification)
}

func (h *NotificationHandlers) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(extractPathParam(r.URL.Path, "/api/notifications/"), "/read")

	notification, err := h.notifications.MarkRead(r.Context(), id)
	if errors.Is(err, store.ErrNotificationNotFound) {
		respondError(w, "Notification not found", http.StatusNotFound)
		return
	}
	if err != nil {
		respondError(w, "Failed to update notification", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, notification)
}

func (h *NotificationHandlers) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notifications.MarkAllRead(r.Context()); err != nil {
		respondError(w, "Failed to update notifications", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "All notifications marked as read"})
}

func (h *NotificationHandlers) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/notifications/")

	err := h.notifications.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotificationNotFound) {
		respondError(w, "Notification not found", http.StatusNotFound)
		return
	}
	if err != nil {
		respondError(w, "Failed to delete notification", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Notification removed"})
}

func (h *NotificationHandlers) ClearAllNotifications(w http.ResponseWriter, r *http.Request) {
	if err := h.notifications.DeleteAll(r.Context()); err != nil {
		respondError(w, "Failed to clear notifications", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "All notifications cleared"})
}
