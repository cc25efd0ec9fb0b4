package cancel_order

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	orderRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/order"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

type fixture struct {
	orders    *mockOrderRepo
	slots     *mockSlotRepo
	publisher *mockPublisher
	notifier  *mockNotifier
	metrics   *mockMetrics
	uc        *UseCase
}

func newFixture(order *domain.ScheduledOrder) *fixture {
	f := &fixture{
		orders: &mockOrderRepo{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.ScheduledOrder, error) {
				if order != nil && id == order.ID {
					return order, nil
				}
				return nil, orderRepo.ErrOrderNotFound
			},
		},
		slots:     &mockSlotRepo{},
		publisher: &mockPublisher{},
		notifier:  &mockNotifier{},
		metrics:   &mockMetrics{},
	}

	f.uc = NewUseCase(f.orders, f.slots, f.publisher, f.notifier, f.metrics, nopLogger{})
	return f
}

func scheduledOrder() *domain.ScheduledOrder {
	return &domain.ScheduledOrder{
		ID:          1,
		SlotID:      ptr.Ptr(int64(5)),
		IsScheduled: true,
		Status:      domain.StatusConfirmed,
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(scheduledOrder())

	resp, err := f.uc.Execute(context.Background(), &Request{
		OrderID: 1,
		Reason:  ptr.Ptr("передумал"),
	})

	require.NoError(t, err)
	assert.Equal(t, "заказ отменен", resp.Message)

	// Место освобождено ровно один раз, под маркером
	assert.Equal(t, []int64{1}, f.orders.MarkCalls)
	assert.Equal(t, []int64{5}, f.slots.ReleaseCalls)
	assert.Empty(t, f.orders.UnmarkCalls)

	assert.Equal(t, []string{"передумал"}, f.orders.CancelCalls)
	assert.Equal(t, []string{"direct"}, f.metrics.CancellationSources)
	assert.Equal(t, 1, f.publisher.CancelledCalls)
	assert.Equal(t, "передумал", f.publisher.LastReason)
	assert.Equal(t, 1, f.notifier.CancelledCalls)
}

func TestExecute_NoReason(t *testing.T) {
	f := newFixture(scheduledOrder())

	_, err := f.uc.Execute(context.Background(), &Request{OrderID: 1})

	require.NoError(t, err)
	assert.Equal(t, []string{""}, f.orders.CancelCalls)
}

func TestExecute_ReasonTooLong(t *testing.T) {
	f := newFixture(scheduledOrder())
	long := strings.Repeat("д", domain.MaxCancellationReasonLength+1)

	_, err := f.uc.Execute(context.Background(), &Request{
		OrderID: 1,
		Reason:  &long,
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, f.orders.MarkCalls)
}

func TestExecute_OrderNotFound(t *testing.T) {
	f := newFixture(nil)

	_, err := f.uc.Execute(context.Background(), &Request{OrderID: 99})

	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestExecute_NotScheduled(t *testing.T) {
	order := scheduledOrder()
	order.IsScheduled = false
	f := newFixture(order)

	_, err := f.uc.Execute(context.Background(), &Request{OrderID: 1})

	assert.ErrorIs(t, err, ErrNotScheduled)
	assert.Empty(t, f.slots.ReleaseCalls)
}

func TestExecute_AlreadyCancelled(t *testing.T) {
	order := scheduledOrder()
	order.Status = domain.StatusCancelled
	f := newFixture(order)

	_, err := f.uc.Execute(context.Background(), &Request{OrderID: 1})

	assert.ErrorIs(t, err, ErrOrderCancelled)
	assert.Empty(t, f.slots.ReleaseCalls)
	assert.Empty(t, f.orders.CancelCalls)
}

func TestExecute_SlotAlreadyReleased_SkipsDecrement(t *testing.T) {
	f := newFixture(scheduledOrder())
	// Маркер уже стоит: место вернула синхронизация отмен
	f.orders.MarkSlotReleasedFunc = func(ctx context.Context, id int64) (bool, error) {
		return false, nil
	}

	resp, err := f.uc.Execute(context.Background(), &Request{OrderID: 1})

	require.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Empty(t, f.slots.ReleaseCalls)
	assert.Equal(t, []string{""}, f.orders.CancelCalls)
}

func TestExecute_ReleaseFailure_RevertsMarker(t *testing.T) {
	f := newFixture(scheduledOrder())
	f.slots.ReleaseFunc = func(ctx context.Context, id int64) error {
		return errors.New("connection reset")
	}

	_, err := f.uc.Execute(context.Background(), &Request{OrderID: 1})

	assert.ErrorIs(t, err, ErrInternal)
	// Маркер снят, повтор отмены сможет довести освобождение до конца
	assert.Equal(t, []int64{1}, f.orders.UnmarkCalls)
	assert.Empty(t, f.orders.CancelCalls)
}

func TestExecute_StatusUpdateFailure_AfterRelease(t *testing.T) {
	f := newFixture(scheduledOrder())
	f.orders.CancelFunc = func(ctx context.Context, id int64, reason string) error {
		return errors.New("update failed")
	}

	_, err := f.uc.Execute(context.Background(), &Request{OrderID: 1})

	assert.ErrorIs(t, err, ErrUpdateFailed)
	// Освобождение не откатывается: заказ все равно движется к отмене
	assert.Equal(t, []int64{5}, f.slots.ReleaseCalls)
	assert.Empty(t, f.orders.UnmarkCalls)
	assert.Equal(t, 0, f.publisher.CancelledCalls)
}

func TestExecute_OrderWithoutSlot(t *testing.T) {
	order := scheduledOrder()
	order.SlotID = nil
	f := newFixture(order)

	_, err := f.uc.Execute(context.Background(), &Request{OrderID: 1})

	require.NoError(t, err)
	assert.Empty(t, f.slots.ReleaseCalls)
	assert.Equal(t, []string{""}, f.orders.CancelCalls)
}
