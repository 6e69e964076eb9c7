package models

import "time"

// Event types
const (
	EventTypeOrderPlaced        = "ORDER_PLACED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
	EventTypeInventorySaved     = "INVENTORY_SAVED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderPlacedEvent published when a student checks out
type OrderPlacedEvent struct {
	BaseEvent
	OrderID     string          `json:"order_id"`
	UserID      string          `json:"user_id"`
	OutletID    string          `json:"outlet_id"`
	TotalAmount int64           `json:"total_amount"`
	Items       []OrderItemData `json:"items"`
}

// OrderStatusChangedEvent published on every lifecycle transition
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID  string      `json:"order_id"`
	OutletID string      `json:"outlet_id"`
	From     OrderStatus `json:"from"`
	To       OrderStatus `json:"to"`
}

// InventorySavedEvent published when staff save their availability changes
type InventorySavedEvent struct {
	BaseEvent
	OutletID string                        `json:"outlet_id"`
	Changes  map[string]AvailabilityStatus `json:"changes"`
}

// OrderItemData represents item data in events
type OrderItemData struct {
	ItemID    string `json:"item_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}
