package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"campus-food/internal/apperr"
	"campus-food/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMemory(t *testing.T) (*Memory, time.Time) {
	t.Helper()
	now := time.Date(2026, 10, 17, 13, 0, 0, 0, time.UTC)
	m := NewMemory(Seed(now), 5)
	m.now = func() time.Time { return now }
	return m, now
}

func TestMenuItemByIDReturnsCopy(t *testing.T) {
	m, _ := newTestMemory(t)
	ctx := context.Background()

	item, err := m.MenuItemByID(ctx, "cafe-club")
	require.NoError(t, err)
	item.Price = 1

	again, err := m.MenuItemByID(ctx, "cafe-club")
	require.NoError(t, err)
	assert.Equal(t, int64(350), again.Price)

	_, err = m.MenuItemByID(ctx, "missing")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestMenuByOutletAndCategories(t *testing.T) {
	m, _ := newTestMemory(t)

	items, err := m.MenuByOutlet(context.Background(), "cafe")
	require.NoError(t, err)
	assert.Len(t, items, 4)
	assert.Equal(t, []string{"all", "Sandwiches", "Beverages", "Desserts"}, Categories(items))
	assert.Len(t, FilterByCategory(items, "Sandwiches"), 2)
	assert.Len(t, FilterByCategory(items, "all"), 4)
}

func TestSearchMenuItems(t *testing.T) {
	m, _ := newTestMemory(t)
	ctx := context.Background()

	results, err := m.SearchMenuItems(ctx, "  BURGER ")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "grill-burger", results[0].ID)

	results, err = m.SearchMenuItems(ctx, "chicken")
	require.NoError(t, err)
	assert.Len(t, results, 3)

	results, err = m.SearchMenuItems(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestUpdateOrderStatusIsGuarded(t *testing.T) {
	m, _ := newTestMemory(t)
	ctx := context.Background()

	order, err := m.UpdateOrderStatus(ctx, "CAFE-SEED-001", models.OrderStatusConfirmed, models.OrderStatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPreparing, order.Status)

	_, err = m.UpdateOrderStatus(ctx, "CAFE-SEED-001", models.OrderStatusConfirmed, models.OrderStatusPreparing)
	assert.True(t, errors.Is(err, apperr.ErrInvalidState))

	_, err = m.UpdateOrderStatus(ctx, "nope", models.OrderStatusConfirmed, models.OrderStatusPreparing)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestActiveOrdersAndHistory(t *testing.T) {
	m, _ := newTestMemory(t)
	ctx := context.Background()

	active, err := m.ActiveOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	history, err := m.OrderHistory(ctx, "u-2021451")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "GRILL-SEED-001", history[0].ID)
	assert.Equal(t, "CAFE-SEED-000", history[1].ID)
}

func TestAddOrderRejectsDuplicateID(t *testing.T) {
	m, now := newTestMemory(t)
	ctx := context.Background()

	order := &models.Order{ID: "X-1", Status: models.OrderStatusConfirmed, CreatedAt: now}
	require.NoError(t, m.AddOrder(ctx, order))
	err := m.AddOrder(ctx, order)
	assert.True(t, errors.Is(err, apperr.ErrInvalidState))
}

func TestRemoveMenuItemReindexes(t *testing.T) {
	m, _ := newTestMemory(t)
	ctx := context.Background()

	require.NoError(t, m.RemoveMenuItem(ctx, "cafe-club"))
	_, err := m.MenuItemByID(ctx, "cafe-club")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	item, err := m.MenuItemByID(ctx, "grill-fries")
	require.NoError(t, err)
	assert.Equal(t, "Masala Fries", item.Name)
}

func TestAnalytics(t *testing.T) {
	m, _ := newTestMemory(t)

	a, err := m.Analytics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, a.TodayOrders)
	assert.Equal(t, int64(950+280), a.TodaySales)
	assert.Equal(t, 10, a.AverageWaitMinutes)
	require.NotEmpty(t, a.PopularItems)
	assert.Equal(t, "Cafe Latte", a.PopularItems[0].ItemName)
	assert.Equal(t, 3, a.PopularItems[0].Count)

	lowStock := make([]string, 0, len(a.LowStockItems))
	for _, item := range a.LowStockItems {
		lowStock = append(lowStock, item.ID)
	}
	assert.ElementsMatch(t, []string{"cafe-veg", "grill-tikka"}, lowStock)
}
