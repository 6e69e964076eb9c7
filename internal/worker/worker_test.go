package worker

import (
	"context"
	"testing"
	"time"

	"campus-food/internal/broker"
	"campus-food/internal/models"
	"campus-food/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type toast struct {
	orderID string
	kind    notify.Kind
	message string
}

type fakeStudents struct {
	owned  map[string]bool
	toasts []toast
}

func (f *fakeStudents) NotifyOrder(orderID string, kind notify.Kind, message string) bool {
	if !f.owned[orderID] {
		return false
	}
	f.toasts = append(f.toasts, toast{orderID, kind, message})
	return true
}

func setup() (*broker.EventPublisher, *fakeStudents, *notify.Presenter) {
	handler := broker.NewEventHandler()
	students := &fakeStudents{owned: map[string]bool{"CAFE-20261017-001": true}}
	staff := notify.NewPresenter(time.Minute)
	NewNotificationWorker(nil, handler, students, staff)
	return broker.NewEventPublisher(broker.NewLocalSender(handler)), students, staff
}

func TestStatusChangesNotifyOwner(t *testing.T) {
	pub, students, staff := setup()
	ctx := context.Background()
	order := &models.Order{ID: "CAFE-20261017-001", OutletID: "cafe"}

	order.Status = models.OrderStatusPreparing
	pub.PublishOrderStatusChanged(ctx, order, models.OrderStatusConfirmed)
	order.Status = models.OrderStatusReady
	pub.PublishOrderStatusChanged(ctx, order, models.OrderStatusPreparing)

	require.Len(t, students.toasts, 2)
	assert.Equal(t, notify.KindInfo, students.toasts[0].kind)
	assert.Equal(t, "🎉 Your order is ready for pickup!", students.toasts[1].message)
	assert.Equal(t, notify.KindSuccess, students.toasts[1].kind)

	msgs := []string{}
	for _, m := range staff.Active() {
		msgs = append(msgs, m.Message)
	}
	assert.Equal(t, []string{
		"Order CAFE-20261017-001 accepted",
		"Order CAFE-20261017-001 is ready for pickup!",
	}, msgs)
}

func TestStatusChangeForUnknownOrderOnlyNotifiesStaff(t *testing.T) {
	pub, students, staff := setup()
	pub.PublishOrderStatusChanged(context.Background(),
		&models.Order{ID: "CAFE-SEED-002", Status: models.OrderStatusReady}, models.OrderStatusPreparing)

	assert.Empty(t, students.toasts)
	assert.Len(t, staff.Active(), 1)
}

func TestOrderPlacedNotifiesStaff(t *testing.T) {
	pub, _, staff := setup()
	pub.PublishOrderPlaced(context.Background(), &models.Order{ID: "GRILL-20261017-004"})

	active := staff.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "New order GRILL-20261017-004 received", active[0].Message)
	assert.Equal(t, notify.KindInfo, active[0].Kind)
}

func TestStartWithoutConsumerReturns(t *testing.T) {
	w := NewNotificationWorker(nil, broker.NewEventHandler(), &fakeStudents{}, notify.NewPresenter(time.Second))
	assert.NoError(t, w.Start(context.Background()))
	assert.NoError(t, w.Stop())
}
