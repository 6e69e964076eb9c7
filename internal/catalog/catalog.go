// Package catalog is the data store behind the ordering flow and the staff
// dashboard: outlets, menu items, the current user and orders.
package catalog

import (
	"context"
	"sort"
	"strings"
	"time"

	"campus-food/internal/models"
)

// DataStore is implemented by the in-memory Memory store and by store.Store
// (Postgres). Returned values are copies; mutating them never changes the store.
type DataStore interface {
	CurrentUser(ctx context.Context) (*models.User, error)
	Outlets(ctx context.Context) ([]models.Outlet, error)
	OutletByID(ctx context.Context, id string) (*models.Outlet, error)
	MenuByOutlet(ctx context.Context, outletID string) ([]models.MenuItem, error)
	MenuItemByID(ctx context.Context, id string) (*models.MenuItem, error)
	SearchMenuItems(ctx context.Context, query string) ([]models.MenuItem, error)
	ActiveOrders(ctx context.Context) ([]models.Order, error)
	OrderByID(ctx context.Context, id string) (*models.Order, error)
	AddOrder(ctx context.Context, order *models.Order) error
	// UpdateOrderStatus moves an order from one status to the next and fails
	// with apperr.ErrInvalidState when the order is no longer in from.
	UpdateOrderStatus(ctx context.Context, id string, from, to models.OrderStatus) (*models.Order, error)
	UpdateItemAvailability(ctx context.Context, id string, status models.AvailabilityStatus) (*models.MenuItem, error)
	OrderHistory(ctx context.Context, userID string) ([]models.Order, error)
	Analytics(ctx context.Context) (*models.Analytics, error)
}

// Categories returns "all" followed by the distinct categories of items in menu order
func Categories(items []models.MenuItem) []string {
	categories := []string{"all"}
	seen := make(map[string]bool)
	for _, item := range items {
		if !seen[item.Category] {
			seen[item.Category] = true
			categories = append(categories, item.Category)
		}
	}
	return categories
}

// FilterByCategory keeps items of category; "all" or "" keeps everything
func FilterByCategory(items []models.MenuItem, category string) []models.MenuItem {
	if category == "" || category == "all" {
		return items
	}
	filtered := make([]models.MenuItem, 0, len(items))
	for _, item := range items {
		if item.Category == category {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// MatchesQuery is the case-insensitive search used by menu search
func MatchesQuery(item models.MenuItem, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}
	return strings.Contains(strings.ToLower(item.Name), q) ||
		strings.Contains(strings.ToLower(item.Description), q) ||
		strings.Contains(strings.ToLower(item.Category), q)
}

// IsLowStock reports whether an item is running out but not yet empty
func IsLowStock(item models.MenuItem, threshold int) bool {
	return item.Stock > 0 && item.Stock <= threshold
}

// BuildAnalytics derives the admin dashboard summary from raw data
func BuildAnalytics(outlets []models.Outlet, items []models.MenuItem, orders []models.Order, now time.Time, lowStockThreshold int) *models.Analytics {
	a := &models.Analytics{
		PopularItems:      []models.PopularItem{},
		OutletPerformance: []models.OutletPerformance{},
		LowStockItems:     []models.MenuItem{},
	}

	y, m, d := now.Date()
	popular := make(map[string]*models.PopularItem)
	perf := make(map[string]*models.OutletPerformance)
	for _, o := range outlets {
		perf[o.ID] = &models.OutletPerformance{OutletID: o.ID, OutletName: o.Name, AvgWait: o.AverageWaitTime}
	}

	for _, order := range orders {
		oy, om, od := order.CreatedAt.In(now.Location()).Date()
		if oy == y && om == m && od == d {
			a.TodaySales += order.TotalAmount
			a.TodayOrders++
		}
		if p, ok := perf[order.OutletID]; ok {
			p.Orders++
			p.Revenue += order.TotalAmount
		}
		for _, item := range order.Items {
			p, ok := popular[item.ItemName]
			if !ok {
				p = &models.PopularItem{ItemName: item.ItemName}
				popular[item.ItemName] = p
			}
			p.Count += item.Quantity
			p.Revenue += item.Subtotal()
		}
	}

	for _, p := range popular {
		a.PopularItems = append(a.PopularItems, *p)
	}
	sort.Slice(a.PopularItems, func(i, j int) bool {
		if a.PopularItems[i].Count != a.PopularItems[j].Count {
			return a.PopularItems[i].Count > a.PopularItems[j].Count
		}
		return a.PopularItems[i].ItemName < a.PopularItems[j].ItemName
	})
	if len(a.PopularItems) > 5 {
		a.PopularItems = a.PopularItems[:5]
	}

	totalWait := 0
	for _, o := range outlets {
		a.OutletPerformance = append(a.OutletPerformance, *perf[o.ID])
		totalWait += o.AverageWaitTime
	}
	if len(outlets) > 0 {
		a.AverageWaitMinutes = (totalWait + len(outlets)/2) / len(outlets)
	}

	for _, item := range items {
		if IsLowStock(item, lowStockThreshold) {
			a.LowStockItems = append(a.LowStockItems, item)
		}
	}
	return a
}
