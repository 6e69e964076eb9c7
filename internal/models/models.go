package models

import "time"

// Outlet is a single food vendor location
type Outlet struct {
	ID              string       `db:"id" json:"id"`
	Name            string       `db:"name" json:"name"`
	Location        string       `db:"location" json:"location"`
	Status          OutletStatus `db:"status" json:"status"`
	OpeningTime     string       `db:"opening_time" json:"openingTime"`
	ClosingTime     string       `db:"closing_time" json:"closingTime"`
	AverageWaitTime int          `db:"average_wait_time" json:"averageWaitTime"`
	Image           string       `db:"image" json:"image,omitempty"`
}

// IsOpen reports whether the outlet accepts orders
func (o Outlet) IsOpen() bool {
	return o.Status == OutletStatusOpen
}

// MenuItem represents an item on an outlet's menu
type MenuItem struct {
	ID                 string             `db:"id" json:"id"`
	OutletID           string             `db:"outlet_id" json:"outletId"`
	Name               string             `db:"name" json:"name"`
	Description        string             `db:"description" json:"description"`
	Category           string             `db:"category" json:"category"`
	Price              int64              `db:"price" json:"price"`
	Stock              int                `db:"stock" json:"stock"`
	AvailabilityStatus AvailabilityStatus `db:"availability_status" json:"availabilityStatus"`
	IsVegetarian       bool               `db:"is_vegetarian" json:"isVegetarian"`
	SpiceLevel         string             `db:"spice_level" json:"spiceLevel"`
	PreparationTime    int                `db:"preparation_time" json:"preparationTime"`
}

// IsAvailable reports whether the item can be added to a cart
func (m MenuItem) IsAvailable() bool {
	return m.AvailabilityStatus.IsAvailable()
}

// User is the signed-in student
type User struct {
	ID             string `db:"id" json:"id"`
	Name           string `db:"name" json:"name"`
	Email          string `db:"email" json:"email"`
	AccountBalance int64  `db:"account_balance" json:"accountBalance"`
}

// CartLine is one entry of a cart. ItemID references a MenuItem, it does not own it.
type CartLine struct {
	ItemID        string `json:"itemId"`
	Quantity      int    `json:"quantity"`
	Customization string `json:"customizations"`
}

// Order is a submitted cart tracked through the status lifecycle
type Order struct {
	ID                  string        `db:"id" json:"id"`
	UserID              string        `db:"user_id" json:"userId"`
	UserName            string        `db:"user_name" json:"userName"`
	OutletID            string        `db:"outlet_id" json:"outletId"`
	Items               []OrderItem   `db:"-" json:"items"`
	TotalAmount         int64         `db:"total_amount" json:"totalAmount"`
	Status              OrderStatus   `db:"status" json:"orderStatus"`
	PaymentMethod       PaymentMethod `db:"payment_method" json:"paymentMethod"`
	PaymentStatus       PaymentStatus `db:"payment_status" json:"paymentStatus"`
	DeliveryType        DeliveryType  `db:"delivery_type" json:"deliveryType"`
	SpecialInstructions string        `db:"special_instructions" json:"specialInstructions,omitempty"`
	EstimatedMinutes    int           `db:"estimated_minutes" json:"estimatedTime"`
	Rating              int           `db:"rating" json:"rating,omitempty"`
	Feedback            string        `db:"feedback" json:"feedback,omitempty"`
	CreatedAt           time.Time     `db:"created_at" json:"orderDateTime"`
	UpdatedAt           time.Time     `db:"updated_at" json:"updatedAt"`
}

// Clone returns a deep copy so callers never share the Items slice
func (o Order) Clone() Order {
	c := o
	c.Items = append([]OrderItem(nil), o.Items...)
	return c
}

// IsActive reports whether staff still need to act on the order
func (o Order) IsActive() bool {
	return o.Status != OrderStatusDelivered
}

// OrderItem is a snapshot of a menu item taken when the order was placed
type OrderItem struct {
	OrderID       string `db:"order_id" json:"-"`
	ItemID        string `db:"item_id" json:"itemId"`
	ItemName      string `db:"item_name" json:"itemName"`
	Quantity      int    `db:"quantity" json:"quantity"`
	Price         int64  `db:"price" json:"price"`
	Customization string `db:"customization" json:"customizations,omitempty"`
}

// Subtotal is unit price times quantity
func (i OrderItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

// PopularItem aggregates how often an item was ordered
type PopularItem struct {
	ItemName string `json:"itemName"`
	Count    int    `json:"count"`
	Revenue  int64  `json:"revenue"`
}

// OutletPerformance summarises one outlet's orders
type OutletPerformance struct {
	OutletID   string `json:"outletId"`
	OutletName string `json:"name"`
	Orders     int    `json:"orders"`
	Revenue    int64  `json:"revenue"`
	AvgWait    int    `json:"avgWait"`
}

// Analytics is the admin dashboard summary
type Analytics struct {
	TodaySales         int64               `json:"todaySales"`
	TodayOrders        int                 `json:"todayOrders"`
	AverageWaitMinutes int                 `json:"averageWaitMinutes"`
	PopularItems       []PopularItem       `json:"popularItems"`
	OutletPerformance  []OutletPerformance `json:"outletPerformance"`
	LowStockItems      []MenuItem          `json:"lowStockItems"`
}
