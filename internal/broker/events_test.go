package broker

import (
	"context"
	"errors"
	"testing"
	"time"

	"campus-food/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSenderRoutesStatusChanges(t *testing.T) {
	handler := NewEventHandler()
	var got []*models.OrderStatusChangedEvent
	handler.OnOrderStatusChanged(func(ctx context.Context, e *models.OrderStatusChangedEvent) error {
		got = append(got, e)
		return nil
	})

	publisher := NewEventPublisher(NewLocalSender(handler))
	order := &models.Order{ID: "CAFE-20261017-001", OutletID: "cafe", Status: models.OrderStatusPreparing, CreatedAt: time.Now()}
	publisher.PublishOrderStatusChanged(context.Background(), order, models.OrderStatusConfirmed)

	require.Len(t, got, 1)
	assert.Equal(t, "CAFE-20261017-001", got[0].OrderID)
	assert.Equal(t, models.OrderStatusConfirmed, got[0].From)
	assert.Equal(t, models.OrderStatusPreparing, got[0].To)
	assert.Equal(t, models.EventTypeOrderStatusChanged, got[0].EventType)
	assert.NotEmpty(t, got[0].EventID)
}

func TestLocalSenderRoutesPlacedAndInventory(t *testing.T) {
	handler := NewEventHandler()
	var placed *models.OrderPlacedEvent
	var saved *models.InventorySavedEvent
	handler.OnOrderPlaced(func(ctx context.Context, e *models.OrderPlacedEvent) error {
		placed = e
		return nil
	})
	handler.OnInventorySaved(func(ctx context.Context, e *models.InventorySavedEvent) error {
		saved = e
		return nil
	})

	publisher := NewEventPublisher(NewLocalSender(handler))
	publisher.PublishOrderPlaced(context.Background(), &models.Order{
		ID: "O1", UserID: "u1", OutletID: "cafe", TotalAmount: 550,
		Items: []models.OrderItem{{ItemID: "A", Quantity: 2, Price: 200}, {ItemID: "B", Quantity: 1, Price: 150}},
	})
	publisher.PublishInventorySaved(context.Background(), "cafe", map[string]models.AvailabilityStatus{
		"A": models.AvailabilityUnavailable,
	})

	require.NotNil(t, placed)
	assert.Equal(t, int64(550), placed.TotalAmount)
	assert.Len(t, placed.Items, 2)
	require.NotNil(t, saved)
	assert.Equal(t, models.AvailabilityUnavailable, saved.Changes["A"])
}

type failingSender struct{}

func (failingSender) Send(ctx context.Context, key string, value interface{}) error {
	return errors.New("broker down")
}

func TestPublishFailureIsSwallowed(t *testing.T) {
	publisher := NewEventPublisher(failingSender{})
	assert.NotPanics(t, func() {
		publisher.PublishOrderPlaced(context.Background(), &models.Order{ID: "O1"})
	})
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	handler := NewEventHandler()
	err := handler.HandleMessage(context.Background(), kafka.Message{Value: []byte("not json")})
	assert.Error(t, err)

	err = handler.HandleMessage(context.Background(), kafka.Message{Value: []byte(`{"event_type":"SOMETHING_ELSE"}`)})
	assert.NoError(t, err)
}
