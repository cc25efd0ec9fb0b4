package reschedule_order

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type mockOrderRepo struct {
	GetByIDFunc         func(ctx context.Context, id int64) (*domain.ScheduledOrder, error)
	CreateFunc          func(ctx context.Context, o *domain.ScheduledOrder) (*domain.ScheduledOrder, error)
	MarkRescheduledFunc func(ctx context.Context, id int64) error

	MarkRescheduledCalls []int64
	CreatedOrders        []*domain.ScheduledOrder
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id int64) (*domain.ScheduledOrder, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockOrderRepo) Create(ctx context.Context, o *domain.ScheduledOrder) (*domain.ScheduledOrder, error) {
	m.CreatedOrders = append(m.CreatedOrders, o)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, o)
	}
	created := *o
	created.ID = 100
	return &created, nil
}

func (m *mockOrderRepo) MarkRescheduled(ctx context.Context, id int64) error {
	m.MarkRescheduledCalls = append(m.MarkRescheduledCalls, id)
	if m.MarkRescheduledFunc != nil {
		return m.MarkRescheduledFunc(ctx, id)
	}
	return nil
}

type mockSlotRepo struct {
	ReserveFunc func(ctx context.Context, id int64) error
	ReleaseFunc func(ctx context.Context, id int64) error
	RestoreFunc func(ctx context.Context, id int64) error

	ReserveCalls []int64
	ReleaseCalls []int64
	RestoreCalls []int64
}

func (m *mockSlotRepo) Reserve(ctx context.Context, id int64) error {
	m.ReserveCalls = append(m.ReserveCalls, id)
	if m.ReserveFunc != nil {
		return m.ReserveFunc(ctx, id)
	}
	return nil
}

func (m *mockSlotRepo) Release(ctx context.Context, id int64) error {
	m.ReleaseCalls = append(m.ReleaseCalls, id)
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, id)
	}
	return nil
}

func (m *mockSlotRepo) Restore(ctx context.Context, id int64) error {
	m.RestoreCalls = append(m.RestoreCalls, id)
	if m.RestoreFunc != nil {
		return m.RestoreFunc(ctx, id)
	}
	return nil
}

type mockTxManager struct {
	DoSerializableFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.DoSerializableFunc != nil {
		return m.DoSerializableFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockPublisher struct {
	RescheduledCalls int
	LastOriginal     *domain.ScheduledOrder
	LastSuccessor    *domain.ScheduledOrder
}

func (m *mockPublisher) PublishOrderRescheduled(_ context.Context, original, successor *domain.ScheduledOrder) {
	m.RescheduledCalls++
	m.LastOriginal = original
	m.LastSuccessor = successor
}

type mockNotifier struct {
	RescheduledCalls int
}

func (m *mockNotifier) NotifyRescheduled(context.Context, *domain.ScheduledOrder) {
	m.RescheduledCalls++
}

type mockMetrics struct {
	RescheduleLabels     []string
	CompensationFailures int
}

func (m *mockMetrics) IncReschedule(result string) {
	m.RescheduleLabels = append(m.RescheduleLabels, result)
}

func (m *mockMetrics) IncCompensationFailure() {
	m.CompensationFailures++
}

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
