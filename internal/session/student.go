// Package session holds the explicit per-user state of the student app and
// the staff dashboard.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"campus-food/internal/apperr"
	"campus-food/internal/cart"
	"campus-food/internal/catalog"
	"campus-food/internal/kv"
	"campus-food/internal/models"
	"campus-food/internal/notify"
	"campus-food/internal/router"

	"go.uber.org/zap"
)

// Student is one browsing session. All methods serialize on the session lock;
// the notifier has its own lock so background pushes never wait on it.
type Student struct {
	ID string

	lastSeen atomic.Int64

	mu       sync.Mutex
	store    catalog.DataStore
	storage  kv.Storage
	cart     *cart.Manager
	router   *router.Router
	notifier *notify.Presenter
	theme    models.Theme

	currentOrderID string
	cancelSim      context.CancelFunc

	minSearch int
	logger    *zap.Logger
}

func newStudent(id string, store catalog.DataStore, storage kv.Storage, toastTTL time.Duration, minSearch int, logger *zap.Logger) *Student {
	s := &Student{
		ID:        id,
		store:     store,
		storage:   storage,
		cart:      cart.NewManager(store, storage, kv.CartKey(id)),
		router:    router.NewStudent(),
		notifier:  notify.NewPresenter(toastTTL),
		theme:     models.ThemeLight,
		minSearch: minSearch,
		logger:    logger.With(zap.String("session_id", id)),
	}
	s.router.OnLeave(func(from, to router.View) {
		if from == router.ViewTracking {
			s.stopSimulation()
		}
	})
	return s
}

// restore loads the persisted cart and theme
func (s *Student) restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cart.Restore(ctx); err != nil {
		return err
	}
	theme, ok, err := s.storage.Get(ctx, kv.ThemeKey(s.ID))
	if err != nil {
		return fmt.Errorf("failed to load theme: %w", err)
	}
	if ok && models.Theme(theme) == models.ThemeDark {
		s.theme = models.ThemeDark
	}
	return nil
}

func (s *Student) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Student) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastSeen.Load()))
}

// stopSimulation must be called with the lock held
func (s *Student) stopSimulation() {
	if s.cancelSim != nil {
		s.cancelSim()
		s.cancelSim = nil
	}
}

func (s *Student) fail(err error) error {
	if err != nil {
		s.notifier.Push(notify.KindError, apperr.Message(err))
	}
	return err
}

// Notifier returns the session's toast queue
func (s *Student) Notifier() *notify.Presenter {
	return s.notifier
}

// AddToCart adds one unit of itemID. A cross-outlet conflict is returned to
// the caller as a question, not reported as an error toast.
func (s *Student) AddToCart(ctx context.Context, itemID string, decision cart.Decision) (cart.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome, err := s.cart.AddItem(ctx, itemID, decision)
	switch {
	case outcome == cart.OutcomeNeedsConfirmation, outcome == cart.OutcomeCancelled:
		return outcome, err
	case err != nil:
		return outcome, s.fail(err)
	}

	if item, err := s.store.MenuItemByID(ctx, itemID); err == nil {
		s.notifier.Push(notify.KindSuccess, fmt.Sprintf("%s added to cart!", item.Name))
	}
	return outcome, nil
}

func (s *Student) RemoveFromCart(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fail(s.cart.RemoveItem(ctx, itemID))
}

// UpdateLine applies a customization and a quantity change to one line. The
// quantity change is validated first so a rejected request changes nothing.
func (s *Student) UpdateLine(ctx context.Context, itemID string, delta *int, customization *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if delta != nil {
		if err := s.cart.CheckQuantity(itemID, *delta); err != nil {
			return s.fail(err)
		}
	}
	if customization != nil {
		if err := s.cart.SetCustomization(ctx, itemID, *customization); err != nil {
			return s.fail(err)
		}
	}
	if delta != nil {
		return s.fail(s.cart.ChangeQuantity(ctx, itemID, *delta))
	}
	return nil
}

func (s *Student) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fail(s.cart.Clear(ctx))
}

// Cart returns the resolved cart for display
func (s *Student) Cart(ctx context.Context) (*cart.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.View(ctx)
}

// CartPreview returns the first n lines for the header dropdown
func (s *Student) CartPreview(ctx context.Context, n int) (*cart.Preview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Preview(ctx, n)
}

// View returns the visible screen and its selection
func (s *Student) View() (router.View, router.Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router.Current(), s.router.Selection()
}

func (s *Student) SwitchTo(v router.View) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router.SwitchTo(v)
}

func (s *Student) Back() router.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router.Back()
}

// OpenMenu shows an outlet's menu. Closed outlets cannot be opened.
func (s *Student) OpenMenu(ctx context.Context, outletID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	outlet, err := s.store.OutletByID(ctx, outletID)
	if err != nil {
		return s.fail(err)
	}
	if !outlet.IsOpen() {
		return s.fail(apperr.InvalidState("session.OpenMenu", outletID,
			"%s is currently closed. Opens at %s.", outlet.Name, outlet.OpeningTime))
	}
	return s.router.OpenMenu(outletID)
}

func (s *Student) SelectCategory(category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router.SelectCategory(category)
}

// Menu is the menu view's content
type Menu struct {
	Outlet     *models.Outlet    `json:"outlet"`
	Categories []string          `json:"categories"`
	Category   string            `json:"category"`
	Items      []models.MenuItem `json:"items"`
}

// Menu returns the items of the open outlet in the selected category
func (s *Student) Menu(ctx context.Context) (*Menu, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.router.Current() != router.ViewMenu {
		return nil, apperr.InvalidState("session.Menu", string(s.router.Current()), "no menu is open")
	}
	sel := s.router.Selection()
	outlet, err := s.store.OutletByID(ctx, sel.OutletID)
	if err != nil {
		return nil, err
	}
	items, err := s.store.MenuByOutlet(ctx, sel.OutletID)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu: %w", err)
	}
	return &Menu{
		Outlet:     outlet,
		Categories: catalog.Categories(items),
		Category:   sel.Category,
		Items:      catalog.FilterByCategory(items, sel.Category),
	}, nil
}

// Search runs a menu search. A blank query returns home from any view; a query
// shorter than the minimum length returns nothing and keeps the current view.
func (s *Student) Search(ctx context.Context, query string) ([]models.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.TrimSpace(query)
	if q == "" {
		if err := s.router.SwitchTo(router.ViewHome); err != nil {
			return nil, err
		}
		return []models.MenuItem{}, nil
	}
	if len([]rune(q)) < s.minSearch {
		return []models.MenuItem{}, nil
	}
	if err := s.router.OpenSearch(q); err != nil {
		return nil, err
	}
	return s.store.SearchMenuItems(ctx, q)
}

// Theme returns the display preference
func (s *Student) Theme() models.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// ToggleTheme flips and persists the display preference
func (s *Student) ToggleTheme(ctx context.Context) (models.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.theme.Toggle()
	if err := s.storage.Set(ctx, kv.ThemeKey(s.ID), string(next)); err != nil {
		return s.theme, s.fail(fmt.Errorf("failed to persist theme: %w", err))
	}
	s.theme = next
	label := "☀️ Light"
	if next == models.ThemeDark {
		label = "🌙 Dark"
	}
	s.notifier.PushFor(notify.KindInfo, label+" mode activated", 2*time.Second)
	return next, nil
}

// CurrentOrderID is the order shown on the tracking view, "" before checkout
func (s *Student) CurrentOrderID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentOrderID
}
