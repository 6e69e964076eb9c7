// Package inventory lets staff flip the availability of their outlet's menu
// items and collect the flips for a save.
package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"campus-food/internal/apperr"
	"campus-food/internal/broker"
	"campus-food/internal/catalog"
	"campus-food/internal/models"
	"campus-food/internal/util"

	"go.uber.org/zap"
)

// Pending records the latest status of every item toggled since the last save
type Pending struct {
	mu      sync.Mutex
	changes map[string]models.AvailabilityStatus
}

func NewPending() *Pending {
	return &Pending{changes: make(map[string]models.AvailabilityStatus)}
}

func (p *Pending) record(itemID string, status models.AvailabilityStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes[itemID] = status
}

// Len is the number of distinct items changed
func (p *Pending) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.changes)
}

// Changes returns a copy of the pending set
func (p *Pending) Changes() map[string]models.AvailabilityStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]models.AvailabilityStatus, len(p.changes))
	for k, v := range p.changes {
		out[k] = v
	}
	return out
}

// drain returns the pending set and empties it
func (p *Pending) drain() map[string]models.AvailabilityStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.changes
	p.changes = make(map[string]models.AvailabilityStatus)
	return out
}

// SaveResult reports what Save did
type SaveResult struct {
	Saved   int    `json:"saved"`
	Message string `json:"message"`
}

type Service struct {
	store     catalog.DataStore
	outletID  string
	threshold int
	publisher broker.Publisher
	logger    *zap.Logger
}

// NewService manages the items of outletID. Items with stock at or below
// threshold come back as low-stock when turned on.
func NewService(store catalog.DataStore, outletID string, threshold int, publisher broker.Publisher) *Service {
	return &Service{
		store:     store,
		outletID:  outletID,
		threshold: threshold,
		publisher: publisher,
		logger:    util.Named("inventory"),
	}
}

// OutletID is the outlet whose items this service manages
func (s *Service) OutletID() string {
	return s.outletID
}

// Toggle flips the item between purchasable and unavailable. Only the status
// label changes; stock is never touched.
func (s *Service) Toggle(ctx context.Context, pending *Pending, itemID string) (*models.MenuItem, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.Toggle")
	defer span.End()

	item, err := s.store.MenuItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OutletID != s.outletID {
		return nil, apperr.NotFound("inventory.Toggle", "menu item", itemID)
	}

	next := s.nextStatus(item)
	updated, err := s.store.UpdateItemAvailability(ctx, itemID, next)
	if err != nil {
		return nil, fmt.Errorf("failed to update availability: %w", err)
	}
	pending.record(itemID, next)

	util.AvailabilityTogglesTotal.WithLabelValues(string(next)).Inc()
	s.logger.Info("Availability toggled",
		zap.String("item_id", itemID),
		zap.String("from", string(item.AvailabilityStatus)),
		zap.String("to", string(next)),
		zap.Int("stock", item.Stock))
	return updated, nil
}

func (s *Service) nextStatus(item *models.MenuItem) models.AvailabilityStatus {
	if item.IsAvailable() {
		return models.AvailabilityUnavailable
	}
	if item.Stock <= s.threshold {
		return models.AvailabilityLowStock
	}
	return models.AvailabilityAvailable
}

// Save reports how many items changed and clears the pending set. The
// changes are already applied; save only announces them.
func (s *Service) Save(ctx context.Context, pending *Pending) (*SaveResult, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.Save")
	defer span.End()

	changes := pending.drain()
	if len(changes) == 0 {
		return &SaveResult{Message: "No changes to save"}, nil
	}

	util.InventorySavesTotal.Inc()
	s.publisher.PublishInventorySaved(ctx, s.outletID, changes)
	s.logger.Info("Inventory changes saved", zap.String("outlet_id", s.outletID), zap.Int("count", len(changes)))

	return &SaveResult{
		Saved:   len(changes),
		Message: fmt.Sprintf("%d items updated successfully", len(changes)),
	}, nil
}

// List returns the outlet's items, filtered by name or category when query
// is not blank
func (s *Service) List(ctx context.Context, query string) ([]models.MenuItem, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.List")
	defer span.End()

	items, err := s.store.MenuByOutlet(ctx, s.outletID)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu: %w", err)
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items, nil
	}
	filtered := []models.MenuItem{}
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), q) || strings.Contains(strings.ToLower(item.Category), q) {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

// LowStock returns the outlet's items with some but few units left, lowest first
func (s *Service) LowStock(ctx context.Context) ([]models.MenuItem, error) {
	items, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}
	low := []models.MenuItem{}
	for _, item := range items {
		if catalog.IsLowStock(item, s.threshold) {
			low = append(low, item)
		}
	}
	sort.SliceStable(low, func(i, j int) bool { return low[i].Stock < low[j].Stock })
	return low, nil
}
