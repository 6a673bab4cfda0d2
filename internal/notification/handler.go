package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/stockledger/internal/email"
	"github.com/example/stockledger/internal/infrastructure/store"
	"github.com/example/stockledger/internal/ledger"
	"github.com/example/stockledger/internal/model"
)

// LowStockThreshold is the quantity below which a movement triggers a
// warning notification.
const LowStockThreshold = 10

// Handler turns stock movement events into dashboard notifications and
// optional alert emails.
type Handler struct {
	notifications store.NotificationStore
	emailService  *email.Service
	alertAddress  string
}

// NewHandler creates a notification handler. emailSvc and alertAddress
// may be empty; then alerts stay on the dashboard only.
func NewHandler(notifications store.NotificationStore, emailSvc *email.Service, alertAddress string) *Handler {
	return &Handler{
		notifications: notifications,
		emailService:  emailSvc,
		alertAddress:  alertAddress,
	}
}

// HandleEvent processes an event from Kafka.
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event ledger.MovementRecorded
	if err := json.Unmarshal(value, &event); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}

	if event.Event != ledger.EventMovementRecorded {
		return nil
	}
	return h.handleMovementRecorded(ctx, event)
}

func (h *Handler) handleMovementRecorded(ctx context.Context, event ledger.MovementRecorded) error {
	log.Printf("[Notifier] Movement %s: %s %d x %s (stock now %d)",
		event.TransactionID, event.Type, event.Quantity, event.SKU, event.ResultingStock)

	if event.ResultingStock >= LowStockThreshold {
		return nil
	}

	notification := &model.Notification{
		Title: "Low stock alert",
		Message: fmt.Sprintf("%s (%s) is down to %d units",
			event.ProductName, event.SKU, event.ResultingStock),
		Type: model.NotificationWarning,
	}
	if err := h.notifications.Create(ctx, notification); err != nil {
		log.Printf("[Notifier] Failed to create notification: %v", err)
		return err
	}

	if h.emailService != nil && h.alertAddress != "" {
		err := h.emailService.SendLowStockAlert(h.alertAddress,
			event.ProductName, event.SKU, event.ResultingStock)
		if err != nil {
			// Email is best-effort; the dashboard notification already
			// landed.
			log.Printf("[Notifier] Failed to send alert email: %v", err)
		} else {
			log.Printf("[Notifier] Low stock email sent to %s for %s", h.alertAddress, event.SKU)
		}
	}

	return nil
}
