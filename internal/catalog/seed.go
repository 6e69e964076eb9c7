package catalog

import (
	"time"

	"campus-food/internal/models"
)

// Seed returns the demo dataset. Order timestamps are relative to now.
func Seed(now time.Time) Dataset {
	user := models.User{ID: "u-2021451", Name: "Ayesha Khan", Email: "ayesha.khan@campus.edu", AccountBalance: 4500}

	outlets := []models.Outlet{
		{ID: "cafe", Name: "Central Cafe", Location: "Academic Block", Status: models.OutletStatusOpen,
			OpeningTime: "08:00", ClosingTime: "22:00", AverageWaitTime: 10, Image: "images/outlets/cafe.jpg"},
		{ID: "grill", Name: "Hostel Grill", Location: "Hostel Row", Status: models.OutletStatusOpen,
			OpeningTime: "12:00", ClosingTime: "02:00", AverageWaitTime: 15, Image: "images/outlets/grill.jpg"},
		{ID: "juice", Name: "Juice Corner", Location: "Sports Complex", Status: models.OutletStatusClosed,
			OpeningTime: "16:00", ClosingTime: "23:00", AverageWaitTime: 5, Image: "images/outlets/juice.jpg"},
	}

	items := []models.MenuItem{
		{ID: "cafe-club", OutletID: "cafe", Name: "Club Sandwich", Description: "Triple-decker with chicken and egg",
			Category: "Sandwiches", Price: 350, Stock: 20, AvailabilityStatus: models.AvailabilityAvailable, SpiceLevel: "none", PreparationTime: 8},
		{ID: "cafe-veg", OutletID: "cafe", Name: "Veggie Wrap", Description: "Grilled vegetables with hummus",
			Category: "Sandwiches", Price: 280, Stock: 4, AvailabilityStatus: models.AvailabilityLowStock, IsVegetarian: true, SpiceLevel: "mild", PreparationTime: 6},
		{ID: "cafe-latte", OutletID: "cafe", Name: "Cafe Latte", Description: "Double shot with steamed milk",
			Category: "Beverages", Price: 250, Stock: 50, AvailabilityStatus: models.AvailabilityAvailable, IsVegetarian: true, SpiceLevel: "none", PreparationTime: 4},
		{ID: "cafe-brownie", OutletID: "cafe", Name: "Fudge Brownie", Description: "Warm chocolate brownie",
			Category: "Desserts", Price: 200, Stock: 0, AvailabilityStatus: models.AvailabilityUnavailable, IsVegetarian: true, SpiceLevel: "none", PreparationTime: 2},
		{ID: "grill-burger", OutletID: "grill", Name: "Zinger Burger", Description: "Crispy fried chicken fillet",
			Category: "Burgers", Price: 450, Stock: 25, AvailabilityStatus: models.AvailabilityAvailable, SpiceLevel: "medium", PreparationTime: 12},
		{ID: "grill-tikka", OutletID: "grill", Name: "Chicken Tikka", Description: "Charcoal grilled leg piece",
			Category: "BBQ", Price: 400, Stock: 3, AvailabilityStatus: models.AvailabilityLowStock, SpiceLevel: "hot", PreparationTime: 15},
		{ID: "grill-fries", OutletID: "grill", Name: "Masala Fries", Description: "Fries tossed in chaat masala",
			Category: "Sides", Price: 150, Stock: 40, AvailabilityStatus: models.AvailabilityAvailable, IsVegetarian: true, SpiceLevel: "mild", PreparationTime: 5},
		{ID: "juice-mango", OutletID: "juice", Name: "Mango Shake", Description: "Fresh mango with milk",
			Category: "Shakes", Price: 220, Stock: 30, AvailabilityStatus: models.AvailabilityAvailable, IsVegetarian: true, SpiceLevel: "none", PreparationTime: 3},
	}

	orders := []models.Order{
		{ID: "CAFE-SEED-001", UserID: "u-2020117", UserName: "Bilal Ahmed", OutletID: "cafe",
			Items: []models.OrderItem{
				{ItemID: "cafe-club", ItemName: "Club Sandwich", Quantity: 2, Price: 350},
				{ItemID: "cafe-latte", ItemName: "Cafe Latte", Quantity: 1, Price: 250, Customization: "extra hot"},
			},
			TotalAmount: 950, Status: models.OrderStatusConfirmed, PaymentMethod: models.PaymentMethodCash,
			PaymentStatus: models.PaymentStatusPaid, DeliveryType: models.DeliveryTypePickup, EstimatedMinutes: 15,
			CreatedAt: now.Add(-6 * time.Minute), UpdatedAt: now.Add(-6 * time.Minute)},
		{ID: "CAFE-SEED-002", UserID: "u-2022034", UserName: "Sara Malik", OutletID: "cafe",
			Items: []models.OrderItem{
				{ItemID: "cafe-veg", ItemName: "Veggie Wrap", Quantity: 1, Price: 280},
			},
			TotalAmount: 280, Status: models.OrderStatusPreparing, PaymentMethod: models.PaymentMethodAccount,
			PaymentStatus: models.PaymentStatusPaid, DeliveryType: models.DeliveryTypePickup, EstimatedMinutes: 10,
			CreatedAt: now.Add(-12 * time.Minute), UpdatedAt: now.Add(-9 * time.Minute)},
		{ID: "GRILL-SEED-001", UserID: user.ID, UserName: user.Name, OutletID: "grill",
			Items: []models.OrderItem{
				{ItemID: "grill-burger", ItemName: "Zinger Burger", Quantity: 1, Price: 450},
				{ItemID: "grill-fries", ItemName: "Masala Fries", Quantity: 2, Price: 150},
			},
			TotalAmount: 750, Status: models.OrderStatusDelivered, PaymentMethod: models.PaymentMethodCard,
			PaymentStatus: models.PaymentStatusPaid, DeliveryType: models.DeliveryTypeDelivery, EstimatedMinutes: 20,
			Rating: 4, Feedback: "Fries were great",
			CreatedAt: now.AddDate(0, 0, -2), UpdatedAt: now.AddDate(0, 0, -2)},
		{ID: "CAFE-SEED-000", UserID: user.ID, UserName: user.Name, OutletID: "cafe",
			Items: []models.OrderItem{
				{ItemID: "cafe-latte", ItemName: "Cafe Latte", Quantity: 2, Price: 250},
			},
			TotalAmount: 500, Status: models.OrderStatusDelivered, PaymentMethod: models.PaymentMethodCash,
			PaymentStatus: models.PaymentStatusPaid, DeliveryType: models.DeliveryTypePickup, EstimatedMinutes: 10,
			Rating: 5, CreatedAt: now.AddDate(0, 0, -5), UpdatedAt: now.AddDate(0, 0, -5)},
	}

	return Dataset{User: user, Outlets: outlets, Items: items, Orders: orders}
}
