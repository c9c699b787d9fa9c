package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeOrderPlaced        = "OrderPlaced"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
)

// BaseEvent contains common event fields
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderLineData represents a line item in an event payload
type OrderLineData struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderPlacedEvent is published after a checkout transaction commits
type OrderPlacedEvent struct {
	BaseEvent
	OrderID     int64           `json:"order_id"`
	UserID      int64           `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Items       []OrderLineData `json:"items"`
}

// OrderStatusChangedEvent is published after a status transition commits
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID   int64  `json:"order_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	ActorID   int64  `json:"actor_id"`
}
