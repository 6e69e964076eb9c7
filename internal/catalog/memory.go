package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"campus-food/internal/apperr"
	"campus-food/internal/models"
)

// Dataset is the content a Memory store starts with
type Dataset struct {
	User    models.User
	Outlets []models.Outlet
	Items   []models.MenuItem
	Orders  []models.Order
}

// Memory is the in-process DataStore. It is safe for concurrent use.
type Memory struct {
	mu                sync.RWMutex
	user              models.User
	outlets           []models.Outlet
	items             []models.MenuItem
	itemIndex         map[string]int
	orders            []models.Order
	orderIndex        map[string]int
	lowStockThreshold int
	now               func() time.Time
}

// NewMemory creates a store holding a copy of data
func NewMemory(data Dataset, lowStockThreshold int) *Memory {
	m := &Memory{
		user:              data.User,
		outlets:           append([]models.Outlet(nil), data.Outlets...),
		itemIndex:         make(map[string]int),
		orderIndex:        make(map[string]int),
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
	for _, item := range data.Items {
		m.itemIndex[item.ID] = len(m.items)
		m.items = append(m.items, item)
	}
	for _, order := range data.Orders {
		m.orderIndex[order.ID] = len(m.orders)
		m.orders = append(m.orders, order.Clone())
	}
	return m
}

func (m *Memory) CurrentUser(ctx context.Context) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user := m.user
	return &user, nil
}

func (m *Memory) Outlets(ctx context.Context) ([]models.Outlet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Outlet(nil), m.outlets...), nil
}

func (m *Memory) OutletByID(ctx context.Context, id string) (*models.Outlet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.outlets {
		if o.ID == id {
			outlet := o
			return &outlet, nil
		}
	}
	return nil, apperr.NotFound("catalog.OutletByID", "outlet", id)
}

func (m *Memory) MenuByOutlet(ctx context.Context, outletID string) ([]models.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := []models.MenuItem{}
	for _, item := range m.items {
		if item.OutletID == outletID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (m *Memory) MenuItemByID(ctx context.Context, id string) (*models.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx, ok := m.itemIndex[id]
	if !ok {
		return nil, apperr.NotFound("catalog.MenuItemByID", "menu item", id)
	}
	item := m.items[idx]
	return &item, nil
}

func (m *Memory) SearchMenuItems(ctx context.Context, query string) ([]models.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	results := []models.MenuItem{}
	for _, item := range m.items {
		if MatchesQuery(item, query) {
			results = append(results, item)
		}
	}
	return results, nil
}

func (m *Memory) ActiveOrders(ctx context.Context) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	orders := []models.Order{}
	for _, o := range m.orders {
		if o.IsActive() {
			orders = append(orders, o.Clone())
		}
	}
	return orders, nil
}

func (m *Memory) OrderByID(ctx context.Context, id string) (*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx, ok := m.orderIndex[id]
	if !ok {
		return nil, apperr.NotFound("catalog.OrderByID", "order", id)
	}
	order := m.orders[idx].Clone()
	return &order, nil
}

func (m *Memory) AddOrder(ctx context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.orderIndex[order.ID]; exists {
		return apperr.InvalidState("catalog.AddOrder", order.ID, "order %s already exists", order.ID)
	}
	m.orderIndex[order.ID] = len(m.orders)
	m.orders = append(m.orders, order.Clone())
	return nil
}

func (m *Memory) UpdateOrderStatus(ctx context.Context, id string, from, to models.OrderStatus) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx, ok := m.orderIndex[id]
	if !ok {
		return nil, apperr.NotFound("catalog.UpdateOrderStatus", "order", id)
	}
	order := &m.orders[idx]
	if order.Status != from {
		return nil, apperr.InvalidState("catalog.UpdateOrderStatus", id,
			"order %s is %s, expected %s", id, order.Status, from)
	}
	order.Status = to
	order.UpdatedAt = m.now()
	updated := order.Clone()
	return &updated, nil
}

func (m *Memory) UpdateItemAvailability(ctx context.Context, id string, status models.AvailabilityStatus) (*models.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx, ok := m.itemIndex[id]
	if !ok {
		return nil, apperr.NotFound("catalog.UpdateItemAvailability", "menu item", id)
	}
	m.items[idx].AvailabilityStatus = status
	item := m.items[idx]
	return &item, nil
}

// UpdateItemPrice changes a catalog price. Placed orders keep their snapshot.
func (m *Memory) UpdateItemPrice(ctx context.Context, id string, price int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx, ok := m.itemIndex[id]
	if !ok {
		return apperr.NotFound("catalog.UpdateItemPrice", "menu item", id)
	}
	m.items[idx].Price = price
	return nil
}

// RemoveMenuItem drops an item from the catalog
func (m *Memory) RemoveMenuItem(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx, ok := m.itemIndex[id]
	if !ok {
		return apperr.NotFound("catalog.RemoveMenuItem", "menu item", id)
	}
	m.items = append(m.items[:idx], m.items[idx+1:]...)
	delete(m.itemIndex, id)
	for i := idx; i < len(m.items); i++ {
		m.itemIndex[m.items[i].ID] = i
	}
	return nil
}

func (m *Memory) OrderHistory(ctx context.Context, userID string) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	history := []models.Order{}
	for _, o := range m.orders {
		if o.UserID == userID {
			history = append(history, o.Clone())
		}
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].CreatedAt.After(history[j].CreatedAt)
	})
	return history, nil
}

func (m *Memory) Analytics(ctx context.Context) (*models.Analytics, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return BuildAnalytics(m.outlets, m.items, m.orders, m.now(), m.lowStockThreshold), nil
}
