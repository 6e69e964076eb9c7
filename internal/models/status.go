package models

// AvailabilityStatus is the staff-controlled purchasability flag of a menu item
type AvailabilityStatus string

const (
	AvailabilityAvailable   AvailabilityStatus = "available"
	AvailabilityLowStock    AvailabilityStatus = "low-stock"
	AvailabilityUnavailable AvailabilityStatus = "unavailable"
)

// IsAvailable is true for available and low-stock
func (s AvailabilityStatus) IsAvailable() bool {
	return s == AvailabilityAvailable || s == AvailabilityLowStock
}

// OutletStatus values
type OutletStatus string

const (
	OutletStatusOpen   OutletStatus = "open"
	OutletStatusClosed OutletStatus = "closed"
)

// OrderStatus is the order lifecycle state. Transitions only move forward.
type OrderStatus string

const (
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
)

var nextOrderStatus = map[OrderStatus]OrderStatus{
	OrderStatusConfirmed: OrderStatusPreparing,
	OrderStatusPreparing: OrderStatusReady,
	OrderStatusReady:     OrderStatusDelivered,
}

// Next returns the single status that may follow s
func (s OrderStatus) Next() (OrderStatus, bool) {
	next, ok := nextOrderStatus[s]
	return next, ok
}

// Valid reports whether s is a known order status
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusConfirmed, OrderStatusPreparing, OrderStatusReady, OrderStatusDelivered:
		return true
	}
	return false
}

// PaymentStatus values. Payment is simulated, so every placed order is paid.
type PaymentStatus string

const PaymentStatusPaid PaymentStatus = "paid"

// PaymentMethod values
type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "cash"
	PaymentMethodCard    PaymentMethod = "card"
	PaymentMethodAccount PaymentMethod = "account"
)

// Valid reports whether m is a supported payment method
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodAccount:
		return true
	}
	return false
}

// DeliveryType values
type DeliveryType string

const (
	DeliveryTypePickup   DeliveryType = "pickup"
	DeliveryTypeDelivery DeliveryType = "delivery"
)

// Valid reports whether d is a supported delivery type
func (d DeliveryType) Valid() bool {
	return d == DeliveryTypePickup || d == DeliveryTypeDelivery
}

// Theme is the persisted display preference
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle returns the other theme
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
