package worker

import (
	"context"
	"fmt"

	"campus-food/internal/broker"
	"campus-food/internal/models"
	"campus-food/internal/notify"
	"campus-food/internal/util"

	"go.uber.org/zap"
)

// OrderNotifier delivers a toast to the student who placed an order
type OrderNotifier interface {
	NotifyOrder(orderID string, kind notify.Kind, message string) bool
}

// NotificationWorker turns order events into toasts for students and staff
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	students     OrderNotifier
	staff        *notify.Presenter
	logger       *zap.Logger
}

// NewNotificationWorker registers its handlers on eventHandler. consumer is
// nil when events are delivered in-process.
func NewNotificationWorker(
	consumer *broker.Consumer,
	eventHandler *broker.EventHandler,
	students OrderNotifier,
	staff *notify.Presenter,
) *NotificationWorker {
	w := &NotificationWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		students:     students,
		staff:        staff,
		logger:       util.Named("worker"),
	}

	eventHandler.OnOrderPlaced(w.HandleOrderPlaced)
	eventHandler.OnOrderStatusChanged(w.HandleOrderStatusChanged)
	eventHandler.OnInventorySaved(w.HandleInventorySaved)
	return w
}

// Start consumes from Kafka until ctx is cancelled
func (w *NotificationWorker) Start(ctx context.Context) error {
	if w.consumer == nil {
		w.logger.Info("No consumer configured, events are delivered in-process")
		return nil
	}
	w.logger.Info("Starting notification worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	if w.consumer == nil {
		return nil
	}
	w.logger.Info("Stopping notification worker")
	return w.consumer.Close()
}

func (w *NotificationWorker) HandleOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	w.staff.Push(notify.KindInfo, fmt.Sprintf("New order %s received", event.OrderID))
	return nil
}

func (w *NotificationWorker) HandleOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	var student, staff string
	kind := notify.KindSuccess
	switch event.To {
	case models.OrderStatusPreparing:
		student = "👨‍🍳 Your order is being prepared"
		staff = fmt.Sprintf("Order %s accepted", event.OrderID)
		kind = notify.KindInfo
	case models.OrderStatusReady:
		student = "🎉 Your order is ready for pickup!"
		staff = fmt.Sprintf("Order %s is ready for pickup!", event.OrderID)
	default:
		return nil
	}

	w.staff.Push(notify.KindSuccess, staff)
	if !w.students.NotifyOrder(event.OrderID, kind, student) {
		w.logger.Debug("No session owns order", zap.String("order_id", event.OrderID))
	}
	return nil
}

func (w *NotificationWorker) HandleInventorySaved(ctx context.Context, event *models.InventorySavedEvent) error {
	w.logger.Info("Inventory changes announced",
		zap.String("outlet_id", event.OutletID),
		zap.Int("count", len(event.Changes)))
	return nil
}
