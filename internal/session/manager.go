package session

import (
	"context"
	"sync"
	"time"

	"campus-food/internal/apperr"
	"campus-food/internal/catalog"
	"campus-food/internal/kv"
	"campus-food/internal/models"
	"campus-food/internal/notify"
	"campus-food/internal/ordering"
	"campus-food/internal/router"
	"campus-food/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config tunes new sessions
type Config struct {
	ToastTTL       time.Duration
	SearchMinChars int
	// IdleTimeout evicts sessions not opened for this long; zero keeps them forever
	IdleTimeout time.Duration
}

// Manager is the registry of student sessions and the single staff
// dashboard. It also remembers which session placed each order so status
// notifications reach the right student.
type Manager struct {
	base      context.Context
	store     catalog.DataStore
	storage   kv.Storage
	orders    *ordering.Service
	simulator *ordering.Simulator
	cfg       Config
	staff     *Staff

	mu       sync.RWMutex
	students map[string]*Student
	owners   map[string]string

	now    func() time.Time
	logger *zap.Logger
}

// NewManager creates a registry. Background work started for sessions, such
// as progress simulation, runs under base.
func NewManager(base context.Context, store catalog.DataStore, storage kv.Storage, orders *ordering.Service, simulator *ordering.Simulator, cfg Config) *Manager {
	return &Manager{
		base:      base,
		store:     store,
		storage:   storage,
		orders:    orders,
		simulator: simulator,
		cfg:       cfg,
		staff:     NewStaff(cfg.ToastTTL),
		students:  make(map[string]*Student),
		owners:    make(map[string]string),
		now:       time.Now,
		logger:    util.Named("session"),
	}
}

// Create starts a new session with an empty cart
func (m *Manager) Create(ctx context.Context) (*Student, error) {
	return m.Open(ctx, uuid.New().String())
}

// Open returns the session with id, rebuilding it from persisted storage if it
// is not in memory
func (m *Manager) Open(ctx context.Context, id string) (*Student, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.Validation("session.Open", "invalid session id %q", id)
	}

	m.mu.RLock()
	s, ok := m.students[id]
	m.mu.RUnlock()
	if ok {
		s.touch(m.now())
		return s, nil
	}

	s = newStudent(id, m.store, m.storage, m.cfg.ToastTTL, m.cfg.SearchMinChars, m.logger)
	if err := s.restore(ctx); err != nil {
		m.logger.Warn("Failed to restore session, starting empty", zap.String("session_id", id), zap.Error(err))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.students[id]; ok {
		existing.touch(m.now())
		return existing, nil
	}
	s.touch(m.now())
	m.students[id] = s
	util.ActiveSessions.Set(float64(len(m.students)))
	m.logger.Info("Session opened", zap.String("session_id", id))
	return s, nil
}

// Get returns an in-memory session
func (m *Manager) Get(id string) (*Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.students[id]
	if !ok {
		return nil, apperr.NotFound("session.Get", "session", id)
	}
	s.touch(m.now())
	return s, nil
}

// Staff returns the staff dashboard state
func (m *Manager) Staff() *Staff {
	return m.staff
}

// Checkout places the session's cart as an order, shows the tracking view and
// starts the progress simulation for it
func (m *Manager) Checkout(ctx context.Context, s *Student, checkout ordering.Checkout) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := m.orders.PlaceOrder(ctx, s.cart, checkout)
	if err != nil {
		return nil, s.fail(err)
	}

	m.mu.Lock()
	m.owners[order.ID] = s.ID
	m.mu.Unlock()

	s.stopSimulation()
	s.currentOrderID = order.ID
	_ = s.router.SwitchTo(router.ViewTracking)
	s.cancelSim = m.simulator.Start(m.base, order.ID)
	return order, nil
}

// NotifyOrder pushes a toast to the session that placed orderID. It reports
// false when the order was not placed through this process.
func (m *Manager) NotifyOrder(orderID string, kind notify.Kind, message string) bool {
	m.mu.RLock()
	sid, ok := m.owners[orderID]
	var s *Student
	if ok {
		s = m.students[sid]
	}
	m.mu.RUnlock()
	if s == nil {
		return false
	}
	s.notifier.Push(kind, message)
	return true
}

// Sweep evicts sessions idle for longer than the configured timeout and
// returns how many were removed. Their cart and theme stay in storage, so
// Open rebuilds an evicted session.
func (m *Manager) Sweep() int {
	if m.cfg.IdleTimeout <= 0 {
		return 0
	}
	now := m.now()

	m.mu.Lock()
	var evicted []*Student
	for id, s := range m.students {
		if s.idleSince(now) > m.cfg.IdleTimeout {
			evicted = append(evicted, s)
			delete(m.students, id)
		}
	}
	if len(evicted) > 0 {
		for orderID, sid := range m.owners {
			if _, ok := m.students[sid]; !ok {
				delete(m.owners, orderID)
			}
		}
	}
	util.ActiveSessions.Set(float64(len(m.students)))
	m.mu.Unlock()

	for _, s := range evicted {
		s.mu.Lock()
		s.stopSimulation()
		s.mu.Unlock()
	}
	if len(evicted) > 0 {
		m.logger.Info("Idle sessions evicted", zap.Int("count", len(evicted)))
	}
	return len(evicted)
}

// RunCleanup sweeps idle sessions every interval until ctx is cancelled
func (m *Manager) RunCleanup(ctx context.Context, interval time.Duration) error {
	if interval <= 0 || m.cfg.IdleTimeout <= 0 {
		m.logger.Info("Session cleanup disabled")
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Close stops the background work of every session
func (m *Manager) Close() {
	m.mu.RLock()
	students := make([]*Student, 0, len(m.students))
	for _, s := range m.students {
		students = append(students, s)
	}
	m.mu.RUnlock()

	for _, s := range students {
		s.mu.Lock()
		s.stopSimulation()
		s.mu.Unlock()
	}
}
