// Package ordering turns a student's cart into an order.
package ordering

import (
	"context"
	"fmt"
	"time"

	"campus-food/internal/apperr"
	"campus-food/internal/broker"
	"campus-food/internal/cart"
	"campus-food/internal/catalog"
	"campus-food/internal/models"
	"campus-food/internal/util"

	"go.uber.org/zap"
)

// Checkout carries the choices made on the checkout form
type Checkout struct {
	PaymentMethod       models.PaymentMethod `json:"paymentMethod"`
	DeliveryType        models.DeliveryType  `json:"deliveryType"`
	SpecialInstructions string               `json:"specialInstructions"`
}

func (c *Checkout) normalize() error {
	if c.PaymentMethod == "" {
		c.PaymentMethod = models.PaymentMethodCash
	}
	if c.DeliveryType == "" {
		c.DeliveryType = models.DeliveryTypePickup
	}
	if !c.PaymentMethod.Valid() {
		return apperr.Validation("ordering.PlaceOrder", "unsupported payment method %q", c.PaymentMethod)
	}
	if !c.DeliveryType.Valid() {
		return apperr.Validation("ordering.PlaceOrder", "unsupported delivery type %q", c.DeliveryType)
	}
	return nil
}

type Service struct {
	store            catalog.DataStore
	ids              *IDGenerator
	publisher        broker.Publisher
	estimatedMinutes int
	logger           *zap.Logger
}

func NewService(store catalog.DataStore, ids *IDGenerator, publisher broker.Publisher, estimatedMinutes int) *Service {
	return &Service{
		store:            store,
		ids:              ids,
		publisher:        publisher,
		estimatedMinutes: estimatedMinutes,
		logger:           util.Named("ordering"),
	}
}

// PlaceOrder creates a confirmed, paid order from a non-empty cart and clears
// the cart. Item names and prices are copied so later catalog edits do not
// change the order.
func (s *Service) PlaceOrder(ctx context.Context, c *cart.Manager, checkout Checkout) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderingService.PlaceOrder")
	defer span.End()

	if c.IsEmpty() {
		util.OrdersFailedTotal.WithLabelValues("empty_cart").Inc()
		return nil, apperr.EmptyCart("ordering.PlaceOrder")
	}
	if err := checkout.normalize(); err != nil {
		util.OrdersFailedTotal.WithLabelValues("validation").Inc()
		return nil, err
	}

	user, err := s.store.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	items := make([]models.OrderItem, 0, len(c.Lines()))
	var total int64
	outletID := ""
	for _, line := range c.Lines() {
		item, err := s.store.MenuItemByID(ctx, line.ItemID)
		if err != nil {
			util.OrdersFailedTotal.WithLabelValues("stale_item").Inc()
			return nil, fmt.Errorf("failed to snapshot cart line: %w", err)
		}
		if outletID == "" {
			outletID = item.OutletID
		}
		customization := line.Customization
		if customization == "" {
			customization = checkout.SpecialInstructions
		}
		snap := models.OrderItem{
			ItemID:        item.ID,
			ItemName:      item.Name,
			Quantity:      line.Quantity,
			Price:         item.Price,
			Customization: customization,
		}
		total += snap.Subtotal()
		items = append(items, snap)
	}

	orderID, err := s.ids.Next(ctx, outletID)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("id").Inc()
		return nil, err
	}
	for i := range items {
		items[i].OrderID = orderID
	}

	now := time.Now()
	order := &models.Order{
		ID:                  orderID,
		UserID:              user.ID,
		UserName:            user.Name,
		OutletID:            outletID,
		Items:               items,
		TotalAmount:         total,
		Status:              models.OrderStatusConfirmed,
		PaymentMethod:       checkout.PaymentMethod,
		PaymentStatus:       models.PaymentStatusPaid,
		DeliveryType:        checkout.DeliveryType,
		SpecialInstructions: checkout.SpecialInstructions,
		EstimatedMinutes:    s.estimatedMinutes,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.store.AddOrder(ctx, order); err != nil {
		util.OrdersFailedTotal.WithLabelValues("store").Inc()
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	if err := c.Clear(ctx); err != nil {
		s.logger.Warn("Order placed but cart could not be persisted", zap.String("order_id", orderID), zap.Error(err))
	}

	util.OrdersPlacedTotal.Inc()
	util.OrderAmount.Observe(float64(total))
	s.logger.Info("Order placed",
		zap.String("order_id", orderID),
		zap.String("user_id", user.ID),
		zap.String("outlet_id", outletID),
		zap.Int64("total", total))

	s.publisher.PublishOrderPlaced(ctx, order)
	return order, nil
}

// History returns the user's past orders, newest first
func (s *Service) History(ctx context.Context, userID string) ([]models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderingService.History")
	defer span.End()

	return s.store.OrderHistory(ctx, userID)
}

// Track returns the order as the tracking view shows it: no time left once
// the order is ready
func (s *Service) Track(ctx context.Context, orderID string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderingService.Track")
	defer span.End()

	order, err := s.store.OrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == models.OrderStatusReady || order.Status == models.OrderStatusDelivered {
		order.EstimatedMinutes = 0
	}
	return order, nil
}
