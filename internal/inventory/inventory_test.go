package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"campus-food/internal/apperr"
	"campus-food/internal/catalog"
	"campus-food/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type savedEvent struct {
	outletID string
	changes  map[string]models.AvailabilityStatus
}

type recordingPublisher struct {
	saved []savedEvent
}

func (p *recordingPublisher) PublishOrderPlaced(ctx context.Context, order *models.Order) {}

func (p *recordingPublisher) PublishOrderStatusChanged(ctx context.Context, order *models.Order, from models.OrderStatus) {
}

func (p *recordingPublisher) PublishInventorySaved(ctx context.Context, outletID string, changes map[string]models.AvailabilityStatus) {
	p.saved = append(p.saved, savedEvent{outletID: outletID, changes: changes})
}

func newTestService(t *testing.T) (*Service, *catalog.Memory, *recordingPublisher) {
	t.Helper()
	data := catalog.Seed(time.Now())
	data.Items = append(data.Items,
		models.MenuItem{ID: "cafe-muffin", OutletID: "cafe", Name: "Blueberry Muffin", Category: "Bakery",
			Price: 180, Stock: 3, AvailabilityStatus: models.AvailabilityUnavailable},
		models.MenuItem{ID: "cafe-tea", OutletID: "cafe", Name: "Green Tea", Category: "Beverages",
			Price: 120, Stock: 20, AvailabilityStatus: models.AvailabilityUnavailable},
	)
	store := catalog.NewMemory(data, 5)
	pub := &recordingPublisher{}
	return NewService(store, "cafe", 5, pub), store, pub
}

func TestToggleOnUsesStock(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	pending := NewPending()

	item, err := svc.Toggle(ctx, pending, "cafe-muffin")
	require.NoError(t, err)
	assert.Equal(t, models.AvailabilityLowStock, item.AvailabilityStatus)
	assert.Equal(t, 3, item.Stock)

	item, err = svc.Toggle(ctx, pending, "cafe-tea")
	require.NoError(t, err)
	assert.Equal(t, models.AvailabilityAvailable, item.AvailabilityStatus)

	stored, err := store.MenuItemByID(ctx, "cafe-tea")
	require.NoError(t, err)
	assert.Equal(t, models.AvailabilityAvailable, stored.AvailabilityStatus)
	assert.Equal(t, 20, stored.Stock)
}

func TestToggleTwiceReturnsToUnavailable(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	pending := NewPending()

	for _, id := range []string{"cafe-muffin", "cafe-tea"} {
		_, err := svc.Toggle(ctx, pending, id)
		require.NoError(t, err)
		item, err := svc.Toggle(ctx, pending, id)
		require.NoError(t, err)
		assert.Equal(t, models.AvailabilityUnavailable, item.AvailabilityStatus, id)
	}

	changes := pending.Changes()
	assert.Len(t, changes, 2)
	assert.Equal(t, models.AvailabilityUnavailable, changes["cafe-muffin"])
}

func TestToggleZeroStockComesBackLowStock(t *testing.T) {
	svc, _, _ := newTestService(t)

	item, err := svc.Toggle(context.Background(), NewPending(), "cafe-brownie")
	require.NoError(t, err)
	assert.Equal(t, models.AvailabilityLowStock, item.AvailabilityStatus)
	assert.Equal(t, 0, item.Stock)
}

func TestToggleOutsideOutlet(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	pending := NewPending()

	_, err := svc.Toggle(ctx, pending, "grill-burger")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	_, err = svc.Toggle(ctx, pending, "no-such-item")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.Equal(t, 0, pending.Len())

	stored, err := store.MenuItemByID(ctx, "grill-burger")
	require.NoError(t, err)
	assert.Equal(t, models.AvailabilityAvailable, stored.AvailabilityStatus)
}

func TestSave(t *testing.T) {
	svc, _, pub := newTestService(t)
	ctx := context.Background()
	pending := NewPending()

	result, err := svc.Save(ctx, pending)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Saved)
	assert.Equal(t, "No changes to save", result.Message)
	assert.Empty(t, pub.saved)

	_, err = svc.Toggle(ctx, pending, "cafe-muffin")
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, pending, "cafe-club")
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, pending, "cafe-club")
	require.NoError(t, err)

	result, err = svc.Save(ctx, pending)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Saved)
	assert.Equal(t, "2 items updated successfully", result.Message)
	assert.Equal(t, 0, pending.Len())

	require.Len(t, pub.saved, 1)
	assert.Equal(t, "cafe", pub.saved[0].outletID)
	assert.Equal(t, models.AvailabilityAvailable, pub.saved[0].changes["cafe-club"])
}

func TestListAndSearch(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 6)
	for _, item := range all {
		assert.Equal(t, "cafe", item.OutletID)
	}

	bev, err := svc.List(ctx, "  BEVER ")
	require.NoError(t, err)
	assert.Len(t, bev, 2)

	byName, err := svc.List(ctx, "wrap")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "cafe-veg", byName[0].ID)

	none, err := svc.List(ctx, "burger")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLowStock(t *testing.T) {
	svc, _, _ := newTestService(t)

	low, err := svc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "cafe-muffin", low[0].ID)
	assert.Equal(t, "cafe-veg", low[1].ID)
}
