package kitchen

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"campus-food/internal/apperr"
	"campus-food/internal/catalog"
	"campus-food/internal/models"
	"campus-food/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusChange struct {
	orderID  string
	from, to models.OrderStatus
}

type recordingPublisher struct {
	mu      sync.Mutex
	changes []statusChange
}

func (p *recordingPublisher) PublishOrderPlaced(ctx context.Context, order *models.Order) {}

func (p *recordingPublisher) PublishOrderStatusChanged(ctx context.Context, order *models.Order, from models.OrderStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, statusChange{orderID: order.ID, from: from, to: order.Status})
}

func (p *recordingPublisher) PublishInventorySaved(ctx context.Context, outletID string, changes map[string]models.AvailabilityStatus) {
}

func newTestService() (*Service, *catalog.Memory, *recordingPublisher) {
	store := catalog.NewMemory(catalog.Seed(time.Now()), 5)
	pub := &recordingPublisher{}
	return NewService(store, pub), store, pub
}

func TestAcceptThenComplete(t *testing.T) {
	svc, store, pub := newTestService()
	ctx := context.Background()

	order, err := svc.Accept(ctx, "CAFE-SEED-001")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPreparing, order.Status)

	order, err = svc.Complete(ctx, "CAFE-SEED-001")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusReady, order.Status)

	stored, err := store.OrderByID(ctx, "CAFE-SEED-001")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusReady, stored.Status)

	require.Len(t, pub.changes, 2)
	assert.Equal(t, statusChange{"CAFE-SEED-001", models.OrderStatusConfirmed, models.OrderStatusPreparing}, pub.changes[0])
	assert.Equal(t, statusChange{"CAFE-SEED-001", models.OrderStatusPreparing, models.OrderStatusReady}, pub.changes[1])
}

func TestCompleteOnConfirmedIsInvalidState(t *testing.T) {
	svc, store, pub := newTestService()
	ctx := context.Background()

	_, err := svc.Complete(ctx, "CAFE-SEED-001")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInvalidState))

	stored, err := store.OrderByID(ctx, "CAFE-SEED-001")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, stored.Status)
	assert.Empty(t, pub.changes)
}

func TestAcceptTwiceIsInvalidState(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Accept(ctx, "CAFE-SEED-001")
	require.NoError(t, err)
	_, err = svc.Accept(ctx, "CAFE-SEED-001")
	assert.True(t, errors.Is(err, apperr.ErrInvalidState))
}

func TestTransitionUnknownOrder(t *testing.T) {
	svc, _, pub := newTestService()

	_, err := svc.Accept(context.Background(), "NOPE-1")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	_, err = svc.Complete(context.Background(), "NOPE-1")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.Empty(t, pub.changes)
}

func TestConcurrentAcceptOnlyOneWins(t *testing.T) {
	svc, _, pub := newTestService()
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Accept(ctx, "CAFE-SEED-001"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Len(t, pub.changes, 1)
}

func TestOrdersFilter(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	all, err := svc.Orders(ctx, FilterAll)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	preparing, err := svc.Orders(ctx, "preparing")
	require.NoError(t, err)
	require.Len(t, preparing, 1)
	assert.Equal(t, "CAFE-SEED-002", preparing[0].ID)

	ready, err := svc.Orders(ctx, "ready")
	require.NoError(t, err)
	assert.Empty(t, ready)

	_, err = svc.Orders(ctx, "cooking")
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestStats(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Active: 2, Confirmed: 1, Preparing: 1, Ready: 0, Revenue: 1230}, *stats)

	_, err = svc.Complete(ctx, "CAFE-SEED-002")
	require.NoError(t, err)

	stats, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Preparing)
	assert.Equal(t, 1, stats.Ready)
}

func TestOrderDetail(t *testing.T) {
	svc, _, _ := newTestService()

	order, err := svc.Order(context.Background(), "CAFE-SEED-001")
	require.NoError(t, err)
	assert.Len(t, order.Items, 2)

	_, err = svc.Order(context.Background(), "missing")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

type fakeDashboard struct {
	mu     sync.Mutex
	view   router.View
	filter string
}

func (d *fakeDashboard) CurrentView() router.View {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view
}

func (d *fakeDashboard) StatusFilter() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.filter
}

func (d *fakeDashboard) set(v router.View) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.view = v
}

func TestRefresherTickGuard(t *testing.T) {
	svc, _, _ := newTestService()
	dash := &fakeDashboard{view: router.ViewInventory, filter: FilterAll}
	r := NewRefresher(svc, dash, time.Second)
	ctx := context.Background()

	assert.False(t, r.Tick(ctx))
	assert.Nil(t, r.Snapshot())

	dash.set(router.ViewOrders)
	assert.True(t, r.Tick(ctx))
	snap := r.Snapshot()
	require.NotNil(t, snap)
	assert.Len(t, snap.Orders, 2)
	assert.Equal(t, 2, snap.Stats.Active)
	assert.Equal(t, FilterAll, snap.Filter)
}

func TestRefresherRunStopsOnCancel(t *testing.T) {
	svc, _, _ := newTestService()
	dash := &fakeDashboard{view: router.ViewOrders, filter: "confirmed"}
	r := NewRefresher(svc, dash, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool { return r.Snapshot() != nil }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("refresh loop did not stop")
	}

	snap := r.Snapshot()
	require.Len(t, snap.Orders, 1)
	assert.Equal(t, "CAFE-SEED-001", snap.Orders[0].ID)
}

func TestRefresherRunDisabledByZeroInterval(t *testing.T) {
	svc, _, _ := newTestService()
	dash := &fakeDashboard{view: router.ViewOrders, filter: FilterAll}

	for _, interval := range []time.Duration{0, -time.Second} {
		r := NewRefresher(svc, dash, interval)
		assert.NotPanics(t, func() {
			assert.NoError(t, r.Run(context.Background()))
		})
		assert.Nil(t, r.Snapshot())
	}
}
