package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"campus-food/internal/models"
	"campus-food/internal/util"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Sender delivers one keyed event. Producer sends to Kafka, LocalSender hands
// the encoded message straight to an EventHandler.
type Sender interface {
	Send(ctx context.Context, key string, value interface{}) error
}

// Publisher is what services use to announce domain events
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, order *models.Order)
	PublishOrderStatusChanged(ctx context.Context, order *models.Order, from models.OrderStatus)
	PublishInventorySaved(ctx context.Context, outletID string, changes map[string]models.AvailabilityStatus)
}

// EventPublisher builds events and sends them. Delivery failures are logged
// and counted, never returned: no user action depends on them.
type EventPublisher struct {
	sender Sender
	logger *zap.Logger
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(sender Sender) *EventPublisher {
	return &EventPublisher{sender: sender, logger: util.Named("events")}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}

// PublishOrderPlaced publishes OrderPlaced event
func (ep *EventPublisher) PublishOrderPlaced(ctx context.Context, order *models.Order) {
	items := make([]models.OrderItemData, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, models.OrderItemData{ItemID: item.ItemID, Quantity: item.Quantity, UnitPrice: item.Price})
	}
	event := &models.OrderPlacedEvent{
		BaseEvent:   newBaseEvent(models.EventTypeOrderPlaced),
		OrderID:     order.ID,
		UserID:      order.UserID,
		OutletID:    order.OutletID,
		TotalAmount: order.TotalAmount,
		Items:       items,
	}
	ep.send(ctx, "order-"+order.ID, event.EventType, event)
}

// PublishOrderStatusChanged publishes OrderStatusChanged event
func (ep *EventPublisher) PublishOrderStatusChanged(ctx context.Context, order *models.Order, from models.OrderStatus) {
	event := &models.OrderStatusChangedEvent{
		BaseEvent: newBaseEvent(models.EventTypeOrderStatusChanged),
		OrderID:   order.ID,
		OutletID:  order.OutletID,
		From:      from,
		To:        order.Status,
	}
	ep.send(ctx, "order-"+order.ID, event.EventType, event)
}

// PublishInventorySaved publishes InventorySaved event
func (ep *EventPublisher) PublishInventorySaved(ctx context.Context, outletID string, changes map[string]models.AvailabilityStatus) {
	event := &models.InventorySavedEvent{
		BaseEvent: newBaseEvent(models.EventTypeInventorySaved),
		OutletID:  outletID,
		Changes:   changes,
	}
	ep.send(ctx, "inventory-"+outletID, event.EventType, event)
}

func (ep *EventPublisher) send(ctx context.Context, key, eventType string, event interface{}) {
	if err := ep.sender.Send(ctx, key, event); err != nil {
		util.EventsPublishedTotal.WithLabelValues(eventType, "error").Inc()
		ep.logger.Error("Failed to publish event",
			zap.String("key", key),
			zap.String("event_type", eventType),
			zap.Error(err))
		return
	}
	util.EventsPublishedTotal.WithLabelValues(eventType, "ok").Inc()
}

// LocalSender delivers events in-process to an EventHandler using the same
// encoding as Kafka, for deployments without a broker
type LocalSender struct {
	handler *EventHandler
}

// NewLocalSender creates a sender that calls handler synchronously
func NewLocalSender(handler *EventHandler) *LocalSender {
	return &LocalSender{handler: handler}
}

// Send encodes value and hands it to the handler
func (s *LocalSender) Send(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return s.handler.HandleMessage(ctx, kafka.Message{Key: []byte(key), Value: data, Time: time.Now()})
}

// EventHandler routes incoming messages by event type
type EventHandler struct {
	onOrderPlaced        func(context.Context, *models.OrderPlacedEvent) error
	onOrderStatusChanged func(context.Context, *models.OrderStatusChangedEvent) error
	onInventorySaved     func(context.Context, *models.InventorySavedEvent) error
	logger               *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.Named("events")}
}

// OnOrderPlaced registers a handler for OrderPlaced events
func (eh *EventHandler) OnOrderPlaced(handler func(context.Context, *models.OrderPlacedEvent) error) {
	eh.onOrderPlaced = handler
}

// OnOrderStatusChanged registers a handler for OrderStatusChanged events
func (eh *EventHandler) OnOrderStatusChanged(handler func(context.Context, *models.OrderStatusChangedEvent) error) {
	eh.onOrderStatusChanged = handler
}

// OnInventorySaved registers a handler for InventorySaved events
func (eh *EventHandler) OnInventorySaved(handler func(context.Context, *models.InventorySavedEvent) error) {
	eh.onInventorySaved = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	eh.logger.Debug("Handling event",
		zap.String("event_type", baseEvent.EventType),
		zap.String("event_id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeOrderPlaced:
		if eh.onOrderPlaced != nil {
			var event models.OrderPlacedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderPlaced event: %w", err)
			}
			return eh.onOrderPlaced(ctx, &event)
		}

	case models.EventTypeOrderStatusChanged:
		if eh.onOrderStatusChanged != nil {
			var event models.OrderStatusChangedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderStatusChanged event: %w", err)
			}
			return eh.onOrderStatusChanged(ctx, &event)
		}

	case models.EventTypeInventorySaved:
		if eh.onInventorySaved != nil {
			var event models.InventorySavedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal InventorySaved event: %w", err)
			}
			return eh.onInventorySaved(ctx, &event)
		}

	default:
		eh.logger.Warn("Unhandled event type", zap.String("event_type", baseEvent.EventType))
	}

	return nil
}
