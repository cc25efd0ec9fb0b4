package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

type capturingPublisher struct {
	subject string
	data    []byte
	err     error
	calls   int
}

func (p *capturingPublisher) Publish(_ context.Context, subject string, data []byte) error {
	p.calls++
	p.subject = subject
	p.data = data
	return p.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testOrder(id int64) *domain.ScheduledOrder {
	return &domain.ScheduledOrder{
		ID:              id,
		EstablishmentID: 7,
		CustomerID:      42,
		SlotID:          ptr.Ptr(int64(5)),
		ScheduledDate:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		ScheduledTime:   "10:00",
		IsScheduled:     true,
		Status:          domain.StatusConfirmed,
	}
}

func TestPublishOrderRescheduled(t *testing.T) {
	pub := &capturingPublisher{}
	p := NewOrderEventPublisher(pub, "orders.status", nopLogger{})

	original := testOrder(1)
	successor := testOrder(100)
	successor.SlotID = ptr.Ptr(int64(9))

	p.PublishOrderRescheduled(context.Background(), original, successor)

	require.Equal(t, 1, pub.calls)
	assert.Equal(t, "orders.status", pub.subject)

	var event OrderStatusEvent
	require.NoError(t, json.Unmarshal(pub.data, &event))
	assert.Equal(t, EventOrderRescheduled, event.EventType)
	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, int64(1), event.OrderID)
	require.NotNil(t, event.SuccessorID)
	assert.Equal(t, int64(100), *event.SuccessorID)
	assert.Equal(t, int64(7), event.EstablishmentID)
	assert.Equal(t, int64(42), event.CustomerID)
}

func TestPublishOrderCancelled(t *testing.T) {
	pub := &capturingPublisher{}
	p := NewOrderEventPublisher(pub, "orders.status", nopLogger{})

	p.PublishOrderCancelled(context.Background(), testOrder(1), "передумал")

	require.Equal(t, 1, pub.calls)

	var event OrderStatusEvent
	require.NoError(t, json.Unmarshal(pub.data, &event))
	assert.Equal(t, EventOrderCancelled, event.EventType)
	assert.Equal(t, int64(1), event.OrderID)
	require.NotNil(t, event.Reason)
	assert.Equal(t, "передумал", *event.Reason)
	assert.Nil(t, event.SuccessorID)
}

func TestPublish_ErrorsAreSwallowed(t *testing.T) {
	pub := &capturingPublisher{err: errors.New("nats: connection closed")}
	p := NewOrderEventPublisher(pub, "orders.status", nopLogger{})

	// Публикация fire-and-forget: сбой шины не паникует и не всплывает
	p.PublishOrderCancelled(context.Background(), testOrder(1), "")
	p.PublishOrderRescheduled(context.Background(), testOrder(1), testOrder(2))

	assert.Equal(t, 2, pub.calls)
}
