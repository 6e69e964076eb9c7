package kitchen

import (
	"context"
	"sync"
	"time"

	"campus-food/internal/models"
	"campus-food/internal/router"
	"campus-food/internal/util"

	"go.uber.org/zap"
)

// Dashboard is the staff session state the refresh loop reads on every tick
type Dashboard interface {
	CurrentView() router.View
	StatusFilter() string
}

// Snapshot is the last computed state of the orders view
type Snapshot struct {
	Orders      []models.Order `json:"orders"`
	Stats       Stats          `json:"stats"`
	Filter      string         `json:"filter"`
	RefreshedAt time.Time      `json:"refreshedAt"`
}

// Refresher periodically recomputes the orders view. The ticker keeps running
// while another view is shown; ticks are skipped instead.
type Refresher struct {
	service   *Service
	dashboard Dashboard
	interval  time.Duration

	mu       sync.RWMutex
	snapshot *Snapshot

	logger *zap.Logger
}

func NewRefresher(service *Service, dashboard Dashboard, interval time.Duration) *Refresher {
	return &Refresher{
		service:   service,
		dashboard: dashboard,
		interval:  interval,
		logger:    util.Named("kitchen.refresh"),
	}
}

// Run ticks until ctx is cancelled. A non-positive interval disables the
// loop; snapshots are then only computed on demand.
func (r *Refresher) Run(ctx context.Context) error {
	if r.interval <= 0 {
		r.logger.Warn("Staff refresh loop disabled", zap.Duration("interval", r.interval))
		return nil
	}
	r.logger.Info("Starting staff refresh loop", zap.Duration("interval", r.interval))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Staff refresh loop stopped")
			return ctx.Err()
		case <-ticker.C:
			r.Tick(ctx)
		}
	}
}

// Tick refreshes the snapshot if the orders view is active and reports
// whether it did
func (r *Refresher) Tick(ctx context.Context) bool {
	if r.dashboard.CurrentView() != router.ViewOrders {
		util.StaffRefreshesTotal.WithLabelValues("skipped").Inc()
		return false
	}
	if err := r.Refresh(ctx); err != nil {
		util.StaffRefreshesTotal.WithLabelValues("error").Inc()
		r.logger.Warn("Staff refresh failed", zap.Error(err))
		return false
	}
	util.StaffRefreshesTotal.WithLabelValues("ok").Inc()
	return true
}

// Refresh recomputes the snapshot regardless of the current view
func (r *Refresher) Refresh(ctx context.Context) error {
	ctx, span := util.StartSpan(ctx, "Refresher.Refresh")
	defer span.End()

	filter := r.dashboard.StatusFilter()
	orders, err := r.service.Orders(ctx, filter)
	if err != nil {
		return err
	}
	stats, err := r.service.Stats(ctx)
	if err != nil {
		return err
	}

	snap := &Snapshot{Orders: orders, Stats: *stats, Filter: filter, RefreshedAt: time.Now()}
	r.mu.Lock()
	r.snapshot = snap
	r.mu.Unlock()
	return nil
}

// Snapshot returns the last refresh, or nil before the first one
func (r *Refresher) Snapshot() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.snapshot == nil {
		return nil
	}
	snap := *r.snapshot
	snap.Orders = append([]models.Order(nil), r.snapshot.Orders...)
	return &snap
}
