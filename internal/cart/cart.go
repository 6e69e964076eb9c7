// Package cart holds the in-progress item selection of one session.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"campus-food/internal/apperr"
	"campus-food/internal/kv"
	"campus-food/internal/models"
	"campus-food/internal/util"

	"go.uber.org/zap"
)

// ItemResolver looks up catalog items referenced by cart lines
type ItemResolver interface {
	MenuItemByID(ctx context.Context, id string) (*models.MenuItem, error)
}

// MaxLineQuantity caps the units of a single cart line
const MaxLineQuantity = 999

// Decision is the caller's answer to a cross-outlet conflict
type Decision int

const (
	DecisionNone Decision = iota
	DecisionConfirm
	DecisionCancel
)

// ParseDecision maps "confirm"/"cancel"/"" to a Decision
func ParseDecision(s string) (Decision, error) {
	switch s {
	case "":
		return DecisionNone, nil
	case "confirm":
		return DecisionConfirm, nil
	case "cancel":
		return DecisionCancel, nil
	}
	return DecisionNone, apperr.Validation("cart.ParseDecision", "unknown decision %q", s)
}

// Outcome reports what AddItem did
type Outcome string

const (
	OutcomeAdded             Outcome = "added"
	OutcomeReplaced          Outcome = "replaced"
	OutcomeNeedsConfirmation Outcome = "needs_confirmation"
	OutcomeCancelled         Outcome = "cancelled"
	OutcomeIgnored           Outcome = "ignored"
)

// Manager owns the ordered cart lines of one session and persists them after
// every mutation. All lines reference items of a single outlet.
// A Manager is not safe for concurrent use; the owning session serializes access.
type Manager struct {
	lines   []models.CartLine
	items   ItemResolver
	storage kv.Storage
	key     string
	logger  *zap.Logger
}

// NewManager creates an empty cart persisted under key
func NewManager(items ItemResolver, storage kv.Storage, key string) *Manager {
	return &Manager{
		lines:   []models.CartLine{},
		items:   items,
		storage: storage,
		key:     key,
		logger:  util.Named("cart"),
	}
}

// Restore loads the persisted cart. A missing key leaves the cart empty.
func (m *Manager) Restore(ctx context.Context) error {
	saved, ok, err := m.storage.Get(ctx, m.key)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}
	if !ok || saved == "" {
		return nil
	}

	var lines []models.CartLine
	if err := json.Unmarshal([]byte(saved), &lines); err != nil {
		return fmt.Errorf("failed to decode cart: %w", err)
	}

	m.lines = m.lines[:0]
	outletID := ""
	dropped := 0
	for _, line := range lines {
		if line.Quantity <= 0 {
			dropped++
			continue
		}
		if item, err := m.items.MenuItemByID(ctx, line.ItemID); err == nil {
			if outletID == "" {
				outletID = item.OutletID
			} else if item.OutletID != outletID {
				dropped++
				continue
			}
		}
		line.Quantity = min(line.Quantity, MaxLineQuantity)
		if idx := m.find(line.ItemID); idx >= 0 {
			m.lines[idx].Quantity = min(m.lines[idx].Quantity+line.Quantity, MaxLineQuantity)
			dropped++
		} else {
			m.lines = append(m.lines, line)
		}
	}
	m.logger.Debug("Cart restored", zap.String("key", m.key), zap.Int("lines", len(m.lines)))

	if dropped > 0 {
		m.logger.Warn("Stored cart normalized", zap.String("key", m.key), zap.Int("dropped", dropped))
		return m.save(ctx)
	}
	return nil
}

// AddItem adds one unit of itemID. If the cart holds items of another outlet,
// DecisionNone returns OutcomeNeedsConfirmation with apperr.ErrConflict,
// DecisionCancel leaves the cart untouched and DecisionConfirm clears it first.
func (m *Manager) AddItem(ctx context.Context, itemID string, decision Decision) (Outcome, error) {
	ctx, span := util.StartSpan(ctx, "Cart.AddItem")
	defer span.End()

	item, err := m.items.MenuItemByID(ctx, itemID)
	if err != nil {
		return OutcomeIgnored, err
	}
	if !item.IsAvailable() {
		return OutcomeIgnored, apperr.InvalidState("cart.AddItem", itemID, "%s is currently unavailable", item.Name)
	}

	outcome := OutcomeAdded
	if len(m.lines) > 0 {
		outletID, err := m.OutletID(ctx)
		if err != nil {
			return OutcomeIgnored, err
		}
		if outletID != item.OutletID {
			switch decision {
			case DecisionConfirm:
				util.CartConflictsTotal.WithLabelValues("confirm").Inc()
				m.lines = m.lines[:0]
				outcome = OutcomeReplaced
			case DecisionCancel:
				util.CartConflictsTotal.WithLabelValues("cancel").Inc()
				return OutcomeCancelled, nil
			default:
				util.CartConflictsTotal.WithLabelValues("pending").Inc()
				return OutcomeNeedsConfirmation, apperr.Conflict("cart.AddItem", itemID,
					"Your cart contains items from a different outlet. Clear cart and add this item?")
			}
		}
	}

	if idx := m.find(itemID); idx >= 0 {
		if m.lines[idx].Quantity >= MaxLineQuantity {
			return OutcomeIgnored, apperr.Validation("cart.AddItem", "quantity cannot exceed %d", MaxLineQuantity)
		}
		m.lines[idx].Quantity++
	} else {
		m.lines = append(m.lines, models.CartLine{ItemID: itemID, Quantity: 1})
	}

	util.CartMutationsTotal.WithLabelValues("add").Inc()
	return outcome, m.save(ctx)
}

// RemoveItem deletes the line for itemID. Removing an absent line is not an error.
func (m *Manager) RemoveItem(ctx context.Context, itemID string) error {
	idx := m.find(itemID)
	if idx < 0 {
		return nil
	}
	m.lines = append(m.lines[:idx], m.lines[idx+1:]...)
	util.CartMutationsTotal.WithLabelValues("remove").Inc()
	return m.save(ctx)
}

// CheckQuantity validates a ChangeQuantity call without applying it
func (m *Manager) CheckQuantity(itemID string, delta int) error {
	if delta == 0 {
		return apperr.Validation("cart.ChangeQuantity", "quantity change must be non-zero")
	}
	idx := m.find(itemID)
	if idx < 0 {
		return apperr.NotFound("cart.ChangeQuantity", "cart line", itemID)
	}
	if delta > 0 && m.lines[idx].Quantity > MaxLineQuantity-delta {
		return apperr.Validation("cart.ChangeQuantity", "quantity cannot exceed %d", MaxLineQuantity)
	}
	return nil
}

// ChangeQuantity adds delta to a line's quantity. A result of zero or less
// removes the line; a zero delta or a result above MaxLineQuantity is rejected.
func (m *Manager) ChangeQuantity(ctx context.Context, itemID string, delta int) error {
	if err := m.CheckQuantity(itemID, delta); err != nil {
		return err
	}
	idx := m.find(itemID)
	if delta <= -m.lines[idx].Quantity {
		return m.RemoveItem(ctx, itemID)
	}
	m.lines[idx].Quantity += delta
	util.CartMutationsTotal.WithLabelValues("quantity").Inc()
	return m.save(ctx)
}

// SetCustomization replaces the free-text customization of a line
func (m *Manager) SetCustomization(ctx context.Context, itemID, text string) error {
	idx := m.find(itemID)
	if idx < 0 {
		return apperr.NotFound("cart.SetCustomization", "cart line", itemID)
	}
	m.lines[idx].Customization = text
	util.CartMutationsTotal.WithLabelValues("customize").Inc()
	return m.save(ctx)
}

// Clear empties the cart and persists the empty cart
func (m *Manager) Clear(ctx context.Context) error {
	m.lines = m.lines[:0]
	util.CartMutationsTotal.WithLabelValues("clear").Inc()
	return m.save(ctx)
}

// Total is the sum of price times quantity over all lines. A line whose item
// no longer exists is an error rather than a silent zero.
func (m *Manager) Total(ctx context.Context) (int64, error) {
	var total int64
	for _, line := range m.lines {
		item, err := m.items.MenuItemByID(ctx, line.ItemID)
		if err != nil {
			return 0, fmt.Errorf("failed to price cart line: %w", err)
		}
		sub, err := lineSubtotal(item.Price, line.Quantity)
		if err != nil {
			return 0, err
		}
		if total, err = addAmount(total, sub); err != nil {
			return 0, err
		}
	}
	return total, nil
}

func lineSubtotal(price int64, qty int) (int64, error) {
	q := int64(qty)
	if q < 0 || price < 0 || (q != 0 && price > math.MaxInt64/q) {
		return 0, apperr.Validation("cart.Total", "cart amount out of range")
	}
	return price * q, nil
}

func addAmount(total, amount int64) (int64, error) {
	if amount > math.MaxInt64-total {
		return 0, apperr.Validation("cart.Total", "cart amount out of range")
	}
	return total + amount, nil
}

// OutletID is the outlet every line belongs to, or "" for an empty cart
func (m *Manager) OutletID(ctx context.Context) (string, error) {
	if len(m.lines) == 0 {
		return "", nil
	}
	item, err := m.items.MenuItemByID(ctx, m.lines[0].ItemID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve cart outlet: %w", err)
	}
	return item.OutletID, nil
}

// Lines returns a copy of the cart lines in insertion order
func (m *Manager) Lines() []models.CartLine {
	return append([]models.CartLine(nil), m.lines...)
}

// IsEmpty reports whether the cart has no lines
func (m *Manager) IsEmpty() bool {
	return len(m.lines) == 0
}

// Count is the total number of units in the cart
func (m *Manager) Count() int {
	n := 0
	for _, line := range m.lines {
		n += line.Quantity
	}
	return n
}

func (m *Manager) find(itemID string) int {
	for i, line := range m.lines {
		if line.ItemID == itemID {
			return i
		}
	}
	return -1
}

func (m *Manager) save(ctx context.Context) error {
	data, err := json.Marshal(m.lines)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := m.storage.Set(ctx, m.key, string(data)); err != nil {
		m.logger.Error("Failed to persist cart", zap.String("key", m.key), zap.Error(err))
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}
