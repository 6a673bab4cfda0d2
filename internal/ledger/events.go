package ledger

import "time"

// EventMovementRecorded is emitted after a stock movement commits.
const EventMovementRecorded = "stock.movement.recorded"

// MovementRecorded carries the committed movement plus the resulting
// quantity so consumers can react (low-stock alerts) without reading
// the database.
type MovementRecorded struct {
	Event          string    `json:"event"`
	TransactionID  string    `json:"transaction_id"`
	ProductID      string    `json:"product_id"`
	ProductName    string    `json:"product_name"`
	SKU            string    `json:"sku"`
	Type           string    `json:"type"`
	Quantity       int       `json:"quantity"`
	ResultingStock int       `json:"resulting_stock"`
	UserID         string    `json:"user_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}
