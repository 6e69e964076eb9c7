package session

import (
	"sync"
	"time"

	"campus-food/internal/apperr"
	"campus-food/internal/inventory"
	"campus-food/internal/kitchen"
	"campus-food/internal/models"
	"campus-food/internal/notify"
	"campus-food/internal/router"
)

// Staff is the dashboard state of the outlet's staff: the visible view, the
// order status filter and the unsaved inventory changes
type Staff struct {
	mu       sync.Mutex
	router   *router.Router
	filter   string
	pending  *inventory.Pending
	notifier *notify.Presenter
}

func NewStaff(toastTTL time.Duration) *Staff {
	return &Staff{
		router:   router.NewStaff(),
		filter:   kitchen.FilterAll,
		pending:  inventory.NewPending(),
		notifier: notify.NewPresenter(toastTTL),
	}
}

func (s *Staff) CurrentView() router.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router.Current()
}

func (s *Staff) StatusFilter() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// SetStatusFilter selects "all" or one order status
func (s *Staff) SetStatusFilter(filter string) error {
	if filter == "" {
		filter = kitchen.FilterAll
	}
	if filter != kitchen.FilterAll && !models.OrderStatus(filter).Valid() {
		return apperr.Validation("session.SetStatusFilter", "unknown status filter %q", filter)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = filter
	return nil
}

func (s *Staff) SwitchTo(v router.View) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router.SwitchTo(v)
}

func (s *Staff) Pending() *inventory.Pending {
	return s.pending
}

func (s *Staff) Notifier() *notify.Presenter {
	return s.notifier
}
