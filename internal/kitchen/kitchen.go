// Package kitchen implements the staff side of the order lifecycle.
package kitchen

import (
	"context"
	"fmt"

	"campus-food/internal/apperr"
	"campus-food/internal/broker"
	"campus-food/internal/catalog"
	"campus-food/internal/models"
	"campus-food/internal/util"

	"go.uber.org/zap"
)

// FilterAll selects every active order
const FilterAll = "all"

// Stats summarises the active orders on the dashboard
type Stats struct {
	Active    int   `json:"active"`
	Confirmed int   `json:"confirmed"`
	Preparing int   `json:"preparing"`
	Ready     int   `json:"ready"`
	Revenue   int64 `json:"revenue"`
}

type Service struct {
	store     catalog.DataStore
	publisher broker.Publisher
	logger    *zap.Logger
}

func NewService(store catalog.DataStore, publisher broker.Publisher) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    util.Named("kitchen"),
	}
}

// Accept moves a confirmed order to preparing
func (s *Service) Accept(ctx context.Context, orderID string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "KitchenService.Accept")
	defer span.End()

	return s.transition(ctx, "kitchen.Accept", orderID, models.OrderStatusConfirmed)
}

// Complete moves a preparing order to ready
func (s *Service) Complete(ctx context.Context, orderID string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "KitchenService.Complete")
	defer span.End()

	return s.transition(ctx, "kitchen.Complete", orderID, models.OrderStatusPreparing)
}

// transition moves an order from `from` to the status that follows it, only if
// the order is still in from. The store re-checks the status under its own
// lock, so two racing staff actions cannot both succeed.
func (s *Service) transition(ctx context.Context, op, orderID string, from models.OrderStatus) (*models.Order, error) {
	to, ok := from.Next()
	if !ok {
		return nil, apperr.InvalidState(op, orderID, "Order status %s is final", from)
	}

	current, err := s.store.OrderByID(ctx, orderID)
	if err != nil {
		util.OrderTransitionsRejected.WithLabelValues(op, "not_found").Inc()
		return nil, err
	}
	if current.Status != from {
		util.OrderTransitionsRejected.WithLabelValues(op, "invalid_state").Inc()
		return nil, apperr.InvalidState(op, orderID, "Order %s is %s and cannot move to %s", orderID, current.Status, to)
	}

	order, err := s.store.UpdateOrderStatus(ctx, orderID, from, to)
	if err != nil {
		util.OrderTransitionsRejected.WithLabelValues(op, "store").Inc()
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	util.OrderTransitionsTotal.WithLabelValues(string(to)).Inc()
	s.logger.Info("Order status changed",
		zap.String("order_id", orderID),
		zap.String("from", string(from)),
		zap.String("to", string(to)))

	s.publisher.PublishOrderStatusChanged(ctx, order, from)
	return order, nil
}

// Orders returns the active orders, optionally restricted to one status
func (s *Service) Orders(ctx context.Context, filter string) ([]models.Order, error) {
	ctx, span := util.StartSpan(ctx, "KitchenService.Orders")
	defer span.End()

	if filter != "" && filter != FilterAll && !models.OrderStatus(filter).Valid() {
		return nil, apperr.Validation("kitchen.Orders", "unknown status filter %q", filter)
	}

	orders, err := s.store.ActiveOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active orders: %w", err)
	}
	if filter == "" || filter == FilterAll {
		return orders, nil
	}

	filtered := []models.Order{}
	for _, o := range orders {
		if string(o.Status) == filter {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}

// Order returns one order for the detail view
func (s *Service) Order(ctx context.Context, orderID string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "KitchenService.Order")
	defer span.End()

	return s.store.OrderByID(ctx, orderID)
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	ctx, span := util.StartSpan(ctx, "KitchenService.Stats")
	defer span.End()

	orders, err := s.store.ActiveOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active orders: %w", err)
	}
	return computeStats(orders), nil
}

func computeStats(orders []models.Order) *Stats {
	stats := &Stats{Active: len(orders)}
	for _, o := range orders {
		switch o.Status {
		case models.OrderStatusConfirmed:
			stats.Confirmed++
		case models.OrderStatusPreparing:
			stats.Preparing++
		case models.OrderStatusReady:
			stats.Ready++
		}
		stats.Revenue += o.TotalAmount
	}
	return stats
}
