package cancel_order

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type mockOrderRepo struct {
	GetByIDFunc            func(ctx context.Context, id int64) (*domain.ScheduledOrder, error)
	CancelFunc             func(ctx context.Context, id int64, reason string) error
	MarkSlotReleasedFunc   func(ctx context.Context, id int64) (bool, error)
	UnmarkSlotReleasedFunc func(ctx context.Context, id int64) error

	CancelCalls []string
	MarkCalls   []int64
	UnmarkCalls []int64
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id int64) (*domain.ScheduledOrder, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockOrderRepo) Cancel(ctx context.Context, id int64, reason string) error {
	m.CancelCalls = append(m.CancelCalls, reason)
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, id, reason)
	}
	return nil
}

func (m *mockOrderRepo) MarkSlotReleased(ctx context.Context, id int64) (bool, error) {
	m.MarkCalls = append(m.MarkCalls, id)
	if m.MarkSlotReleasedFunc != nil {
		return m.MarkSlotReleasedFunc(ctx, id)
	}
	return true, nil
}

func (m *mockOrderRepo) UnmarkSlotReleased(ctx context.Context, id int64) error {
	m.UnmarkCalls = append(m.UnmarkCalls, id)
	if m.UnmarkSlotReleasedFunc != nil {
		return m.UnmarkSlotReleasedFunc(ctx, id)
	}
	return nil
}

type mockSlotRepo struct {
	ReleaseFunc  func(ctx context.Context, id int64) error
	ReleaseCalls []int64
}

func (m *mockSlotRepo) Release(ctx context.Context, id int64) error {
	m.ReleaseCalls = append(m.ReleaseCalls, id)
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, id)
	}
	return nil
}

type mockPublisher struct {
	CancelledCalls int
	LastReason     string
}

func (m *mockPublisher) PublishOrderCancelled(_ context.Context, _ *domain.ScheduledOrder, reason string) {
	m.CancelledCalls++
	m.LastReason = reason
}

type mockNotifier struct {
	CancelledCalls int
}

func (m *mockNotifier) NotifyCancelled(context.Context, *domain.ScheduledOrder, string) {
	m.CancelledCalls++
}

type mockMetrics struct {
	CancellationSources []string
}

func (m *mockMetrics) IncCancellation(source string) {
	m.CancellationSources = append(m.CancellationSources, source)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
