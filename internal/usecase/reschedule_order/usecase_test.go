package reschedule_order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	orderRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/order"
	slotRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

type fixture struct {
	orders    *mockOrderRepo
	slots     *mockSlotRepo
	tx        *mockTxManager
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
		tx:        &mockTxManager{},
		publisher: &mockPublisher{},
		notifier:  &mockNotifier{},
		metrics:   &mockMetrics{},
	}

	f.uc = NewUseCase(f.orders, f.slots, f.tx, f.publisher, f.notifier, f.metrics, nopLogger{})
	// За трое суток до запланированного времени заказа
	f.uc.timeProvider = &fixedClock{now: time.Date(2026, 3, 17, 12, 0, 0, 0, time.UTC)}

	return f
}

func scheduledOrder() *domain.ScheduledOrder {
	return &domain.ScheduledOrder{
		ID:              1,
		EstablishmentID: 7,
		CustomerID:      42,
		SlotID:          ptr.Ptr(int64(5)),
		ScheduledDate:   time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		ScheduledTime:   "12:00",
		IsScheduled:     true,
		CanReschedule:   true,
		Status:          domain.StatusConfirmed,
		CustomerName:    "Иван",
		CustomerPhone:   "+79990001122",
		TotalPrice:      1500,
	}
}

func validRequest() *Request {
	return &Request{
		OrderID:       1,
		CurrentSlotID: 5,
		NewSlotID:     2,
		NewSlotDate:   time.Date(2026, 3, 25, 0, 0, 0, 0, time.UTC),
		NewSlotTime:   "18:00",
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(scheduledOrder())

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(100), resp.NewOrderID)
	assert.Equal(t, time.Date(2026, 3, 25, 0, 0, 0, 0, time.UTC), resp.ScheduledDate)
	assert.EqualValues(t, "18:00", resp.ScheduledTime)

	// Счетчики: освобожден текущий слот, занят целевой, без компенсаций
	assert.Equal(t, []int64{5}, f.slots.ReleaseCalls)
	assert.Equal(t, []int64{2}, f.slots.ReserveCalls)
	assert.Empty(t, f.slots.RestoreCalls)

	// Перевязка заказов
	assert.Equal(t, []int64{1}, f.orders.MarkRescheduledCalls)
	require.Len(t, f.orders.CreatedOrders, 1)

	successor := f.orders.CreatedOrders[0]
	assert.Equal(t, int64(2), *successor.SlotID)
	assert.Equal(t, int64(1), *successor.PredecessorID)
	assert.Equal(t, domain.StatusPending, successor.Status)
	assert.Equal(t, 1, successor.RescheduleCount)
	assert.True(t, successor.CanReschedule)
	assert.Equal(t, "Иван", successor.CustomerName)
	require.NotNil(t, successor.RescheduleLimit)
	assert.Equal(t, time.Date(2026, 3, 23, 18, 0, 0, 0, time.UTC), *successor.RescheduleLimit)

	// Уведомления и метрики
	assert.Equal(t, 1, f.publisher.RescheduledCalls)
	assert.Equal(t, 1, f.notifier.RescheduledCalls)
	assert.Equal(t, []string{"success"}, f.metrics.RescheduleLabels)
}

func TestExecute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{name: "zeroOrderID", mutate: func(r *Request) { r.OrderID = 0 }},
		{name: "zeroCurrentSlot", mutate: func(r *Request) { r.CurrentSlotID = 0 }},
		{name: "zeroNewSlot", mutate: func(r *Request) { r.NewSlotID = 0 }},
		{name: "sameSlot", mutate: func(r *Request) { r.NewSlotID = r.CurrentSlotID }},
		{name: "zeroDate", mutate: func(r *Request) { r.NewSlotDate = time.Time{} }},
		{name: "emptyTime", mutate: func(r *Request) { r.NewSlotTime = "" }},
		{name: "malformedTime", mutate: func(r *Request) { r.NewSlotTime = "25:99" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(scheduledOrder())
			req := validRequest()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, f.slots.ReleaseCalls)
			assert.Equal(t, []string{"invalid_input"}, f.metrics.RescheduleLabels)
		})
	}
}

func TestExecute_SlotMismatch(t *testing.T) {
	f := newFixture(scheduledOrder())
	req := validRequest()
	req.CurrentSlotID = 9
	req.NewSlotID = 2

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrSlotMismatch)
	assert.Empty(t, f.slots.ReleaseCalls)
}

func TestExecute_PolicyDenials(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.ScheduledOrder)
		wantErr error
	}{
		{
			name:    "cancelled",
			mutate:  func(o *domain.ScheduledOrder) { o.Status = domain.StatusCancelled },
			wantErr: ErrOrderCancelled,
		},
		{
			name:    "alreadyRescheduled",
			mutate:  func(o *domain.ScheduledOrder) { o.IsRescheduled = true },
			wantErr: ErrAlreadyRescheduled,
		},
		{
			name:    "notPermitted",
			mutate:  func(o *domain.ScheduledOrder) { o.CanReschedule = false },
			wantErr: ErrRescheduleNotPermitted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := scheduledOrder()
			tt.mutate(order)
			f := newFixture(order)

			_, err := f.uc.Execute(context.Background(), validRequest())

			assert.ErrorIs(t, err, tt.wantErr)
			// Политика проверяется до каких-либо записей
			assert.Empty(t, f.slots.ReleaseCalls)
			assert.Empty(t, f.slots.ReserveCalls)
		})
	}
}

func TestExecute_DeadlineExpired(t *testing.T) {
	f := newFixture(scheduledOrder())
	// Через час после дедлайна (48ч до 2026-03-20 12:00)
	f.uc.timeProvider = &fixedClock{now: time.Date(2026, 3, 18, 13, 0, 0, 0, time.UTC)}

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrDeadlineExpired)
	assert.Empty(t, f.slots.ReleaseCalls)
	assert.Equal(t, []string{"deadline_expired"}, f.metrics.RescheduleLabels)
}

func TestExecute_OrderNotFound(t *testing.T) {
	f := newFixture(nil)

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.Equal(t, []string{"not_found"}, f.metrics.RescheduleLabels)
}

func TestExecute_TargetSlotUnavailable_CompensatesCurrentSlot(t *testing.T) {
	f := newFixture(scheduledOrder())
	f.slots.ReserveFunc = func(ctx context.Context, id int64) error {
		return slotRepo.ErrSlotUnavailable
	}

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// Место в текущем слоте возвращено компенсацией
	assert.Equal(t, []int64{5}, f.slots.ReleaseCalls)
	assert.Equal(t, []int64{5}, f.slots.RestoreCalls)

	// До перевязки заказов дело не дошло
	assert.Empty(t, f.orders.MarkRescheduledCalls)
	assert.Equal(t, 0, f.publisher.RescheduledCalls)
	assert.Equal(t, []string{"slot_unavailable"}, f.metrics.RescheduleLabels)
}

func TestExecute_TargetSlotNotFound(t *testing.T) {
	f := newFixture(scheduledOrder())
	f.slots.ReserveFunc = func(ctx context.Context, id int64) error {
		return slotRepo.ErrSlotNotFound
	}

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrSlotNotFound)
	assert.Equal(t, []int64{5}, f.slots.RestoreCalls)
}

func TestExecute_CompensationRetriesOnceThenSucceeds(t *testing.T) {
	f := newFixture(scheduledOrder())
	f.slots.ReserveFunc = func(ctx context.Context, id int64) error {
		return slotRepo.ErrSlotUnavailable
	}

	restoreAttempts := 0
	f.slots.RestoreFunc = func(ctx context.Context, id int64) error {
		restoreAttempts++
		if restoreAttempts == 1 {
			return errors.New("connection reset")
		}
		return nil
	}

	_, err := f.uc.Execute(context.Background(), validRequest())

	// Компенсация прошла со второй попытки, наружу уходит исходная ошибка
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Equal(t, 2, restoreAttempts)
	assert.Equal(t, 0, f.metrics.CompensationFailures)
}

func TestExecute_CompensationFailsAfterRetry(t *testing.T) {
	f := newFixture(scheduledOrder())
	f.slots.ReserveFunc = func(ctx context.Context, id int64) error {
		return slotRepo.ErrSlotUnavailable
	}
	f.slots.RestoreFunc = func(ctx context.Context, id int64) error {
		return errors.New("connection refused")
	}

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrCompensationFailed)
	assert.Equal(t, 1, f.metrics.CompensationFailures)
	assert.Equal(t, []string{"compensation_failed"}, f.metrics.RescheduleLabels)
	assert.Len(t, f.slots.RestoreCalls, 2)
}

func TestExecute_TxFailure_RevertsBothCounters(t *testing.T) {
	f := newFixture(scheduledOrder())
	f.orders.CreateFunc = func(ctx context.Context, o *domain.ScheduledOrder) (*domain.ScheduledOrder, error) {
		return nil, errors.New("insert failed")
	}

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrOrderCreationFailed)

	// Возвращено место в старый слот и снята бронь с нового
	assert.Equal(t, []int64{5}, f.slots.RestoreCalls)
	assert.Equal(t, []int64{5, 2}, f.slots.ReleaseCalls)
	assert.Equal(t, 0, f.publisher.RescheduledCalls)
}

func TestExecute_MarkRescheduledFailure(t *testing.T) {
	f := newFixture(scheduledOrder())
	f.orders.MarkRescheduledFunc = func(ctx context.Context, id int64) error {
		return errors.New("update failed")
	}

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrUpdateFailed)
	assert.Equal(t, []int64{5}, f.slots.RestoreCalls)
	assert.Equal(t, []int64{5, 2}, f.slots.ReleaseCalls)
	// Преемник не должен появиться
	assert.Empty(t, f.orders.CreatedOrders)
}
