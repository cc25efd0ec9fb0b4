package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/pgfeed"
)

type mockSlotRepo struct {
	slots    []*domain.Slot
	err      error
	loads    int
	lastDate time.Time

	ListFunc func(ctx context.Context, establishmentID int64, date time.Time) ([]*domain.Slot, error)
}

func (m *mockSlotRepo) ListByEstablishmentAndDate(ctx context.Context, establishmentID int64, date time.Time) ([]*domain.Slot, error) {
	m.loads++
	m.lastDate = date
	if m.ListFunc != nil {
		return m.ListFunc(ctx, establishmentID, date)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.slots, nil
}

type mockMetrics struct {
	becameFull int
}

func (m *mockMetrics) IncSlotBecameFull() {
	m.becameFull++
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testDate = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

func feedEvent(payload string) pgfeed.Event {
	return pgfeed.Event{Payload: []byte(payload)}
}

func resetEvent() pgfeed.Event {
	return pgfeed.Event{Reset: true}
}

func TestParseSlotChange(t *testing.T) {
	t.Run("update", func(t *testing.T) {
		payload := []byte(`{"op":"UPDATE","record":{"id":3,"establishment_id":7,"slot_date":"2026-04-01","start_time":"10:30:00","capacity":5,"occupied":5,"blocked":false}}`)

		change, err := ParseSlotChange(payload)

		require.NoError(t, err)
		assert.Equal(t, OpUpdate, change.Op)
		assert.Equal(t, int64(3), change.Slot.ID)
		assert.Equal(t, int64(7), change.Slot.EstablishmentID)
		assert.Equal(t, testDate, change.Slot.Date)
		assert.EqualValues(t, "10:30", change.Slot.StartTime)
		assert.Equal(t, 5, change.Slot.Occupied)
	})

	t.Run("timeWithoutSeconds", func(t *testing.T) {
		payload := []byte(`{"op":"INSERT","record":{"id":1,"establishment_id":7,"slot_date":"2026-04-01","start_time":"09:00","capacity":5,"occupied":0,"blocked":false}}`)

		change, err := ParseSlotChange(payload)

		require.NoError(t, err)
		assert.EqualValues(t, "09:00", change.Slot.StartTime)
	})

	t.Run("unknownOp", func(t *testing.T) {
		payload := []byte(`{"op":"TRUNCATE","record":{"id":1,"establishment_id":7,"slot_date":"2026-04-01","start_time":"09:00","capacity":5}}`)

		_, err := ParseSlotChange(payload)

		assert.Error(t, err)
	})

	t.Run("malformedJSON", func(t *testing.T) {
		_, err := ParseSlotChange([]byte("not json"))
		assert.Error(t, err)
	})

	t.Run("badDate", func(t *testing.T) {
		payload := []byte(`{"op":"INSERT","record":{"id":1,"establishment_id":7,"slot_date":"01.04.2026","start_time":"09:00","capacity":5}}`)

		_, err := ParseSlotChange(payload)

		assert.Error(t, err)
	})
}

func TestViewApply(t *testing.T) {
	base := &domain.Slot{
		ID: 1, EstablishmentID: 7, Date: testDate, StartTime: "10:00", Capacity: 5, Occupied: 4,
	}

	t.Run("updateCrossingToFullReports", func(t *testing.T) {
		v := newView([]*domain.Slot{base})

		full := *base
		full.Occupied = 5
		becameFull := v.apply(&SlotChange{Op: OpUpdate, Slot: full})

		assert.True(t, becameFull)
	})

	t.Run("updateAlreadyFullDoesNotReport", func(t *testing.T) {
		alreadyFull := *base
		alreadyFull.Occupied = 5
		v := newView([]*domain.Slot{&alreadyFull})

		becameFull := v.apply(&SlotChange{Op: OpUpdate, Slot: alreadyFull})

		assert.False(t, becameFull)
	})

	t.Run("insertFullDoesNotReport", func(t *testing.T) {
		v := newView(nil)

		full := *base
		full.Occupied = 5
		becameFull := v.apply(&SlotChange{Op: OpInsert, Slot: full})

		assert.False(t, becameFull)
	})

	t.Run("blockedFullDoesNotReport", func(t *testing.T) {
		v := newView([]*domain.Slot{base})

		blocked := *base
		blocked.Occupied = 5
		blocked.Blocked = true
		becameFull := v.apply(&SlotChange{Op: OpUpdate, Slot: blocked})

		assert.False(t, becameFull)
	})

	t.Run("deleteRemovesSlot", func(t *testing.T) {
		v := newView([]*domain.Slot{base})

		v.apply(&SlotChange{Op: OpDelete, Slot: *base})

		assert.Empty(t, v.snapshot())
	})
}

func TestViewSnapshotSortedByStartTime(t *testing.T) {
	v := newView([]*domain.Slot{
		{ID: 3, Date: testDate, StartTime: "14:00", Capacity: 5},
		{ID: 1, Date: testDate, StartTime: "09:00", Capacity: 5},
		{ID: 2, Date: testDate, StartTime: "11:30", Capacity: 5},
	})

	snapshot := v.snapshot()

	require.Len(t, snapshot, 3)
	assert.EqualValues(t, "09:00", snapshot[0].StartTime)
	assert.EqualValues(t, "11:30", snapshot[1].StartTime)
	assert.EqualValues(t, "14:00", snapshot[2].StartTime)
}

func TestManagerListSlots(t *testing.T) {
	t.Run("nilDateReturnsEmpty", func(t *testing.T) {
		repo := &mockSlotRepo{}
		m := NewManager(repo, &mockMetrics{}, nopLogger{})

		slots, err := m.ListSlots(context.Background(), 7, nil)

		require.NoError(t, err)
		assert.Empty(t, slots)
		assert.Equal(t, 0, repo.loads)
	})

	t.Run("coldViewLoadsFromRepository", func(t *testing.T) {
		repo := &mockSlotRepo{slots: []*domain.Slot{
			{ID: 1, EstablishmentID: 7, Date: testDate, StartTime: "10:00", Capacity: 5, Occupied: 2},
		}}
		m := NewManager(repo, &mockMetrics{}, nopLogger{})

		slots, err := m.ListSlots(context.Background(), 7, &testDate)

		require.NoError(t, err)
		require.Len(t, slots, 1)
		assert.Equal(t, domain.SlotStatusAvailable, slots[0].Status)
		assert.Equal(t, 1, repo.loads)
	})

	t.Run("warmViewServedFromMemory", func(t *testing.T) {
		repo := &mockSlotRepo{}
		m := NewManager(repo, &mockMetrics{}, nopLogger{})

		_, err := m.ListSlots(context.Background(), 7, &testDate)
		require.NoError(t, err)
		_, err = m.ListSlots(context.Background(), 7, &testDate)
		require.NoError(t, err)

		assert.Equal(t, 1, repo.loads)
	})

	t.Run("repositoryErrorPropagates", func(t *testing.T) {
		repo := &mockSlotRepo{err: errors.New("connection refused")}
		m := NewManager(repo, &mockMetrics{}, nopLogger{})

		_, err := m.ListSlots(context.Background(), 7, &testDate)

		assert.Error(t, err)
	})

	t.Run("warmReadNotBlockedByColdLoad", func(t *testing.T) {
		warmDate := testDate
		coldDate := testDate.AddDate(0, 0, 1)

		entered := make(chan struct{})
		release := make(chan struct{})

		repo := &mockSlotRepo{}
		repo.ListFunc = func(_ context.Context, _ int64, date time.Time) ([]*domain.Slot, error) {
			if date.Equal(coldDate) {
				close(entered)
				<-release
			}
			return nil, nil
		}
		m := NewManager(repo, &mockMetrics{}, nopLogger{})

		_, err := m.ListSlots(context.Background(), 7, &warmDate)
		require.NoError(t, err)

		coldDone := make(chan struct{})
		go func() {
			defer close(coldDone)
			_, _ = m.ListSlots(context.Background(), 7, &coldDate)
		}()
		<-entered

		warmDone := make(chan error, 1)
		go func() {
			_, err := m.ListSlots(context.Background(), 7, &warmDate)
			warmDone <- err
		}()

		select {
		case err := <-warmDone:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("warm read waited for an unrelated cold load")
		}

		close(release)
		<-coldDone
	})

	t.Run("staleViewReloads", func(t *testing.T) {
		repo := &mockSlotRepo{}
		m := NewManager(repo, &mockMetrics{}, nopLogger{})

		_, err := m.ListSlots(context.Background(), 7, &testDate)
		require.NoError(t, err)

		m.markAllStale()

		_, err = m.ListSlots(context.Background(), 7, &testDate)
		require.NoError(t, err)
		assert.Equal(t, 2, repo.loads)
	})
}

func TestManagerHandleEvent(t *testing.T) {
	t.Run("updateRefreshesTrackedView", func(t *testing.T) {
		repo := &mockSlotRepo{slots: []*domain.Slot{
			{ID: 1, EstablishmentID: 7, Date: testDate, StartTime: "10:00", Capacity: 5, Occupied: 4},
		}}
		metrics := &mockMetrics{}
		m := NewManager(repo, metrics, nopLogger{})

		_, err := m.ListSlots(context.Background(), 7, &testDate)
		require.NoError(t, err)

		m.handleEvent(feedEvent(`{"op":"UPDATE","record":{"id":1,"establishment_id":7,"slot_date":"2026-04-01","start_time":"10:00:00","capacity":5,"occupied":5,"blocked":false}}`))

		slots, err := m.ListSlots(context.Background(), 7, &testDate)
		require.NoError(t, err)
		require.Len(t, slots, 1)
		assert.Equal(t, domain.SlotStatusFull, slots[0].Status)
		assert.Equal(t, 5, slots[0].Occupied)

		// Переход в full зафиксирован
		assert.Equal(t, 1, metrics.becameFull)
		// Повторная выдача — из памяти, без перезагрузки
		assert.Equal(t, 1, repo.loads)
	})

	t.Run("eventForUntrackedViewIgnored", func(t *testing.T) {
		repo := &mockSlotRepo{}
		m := NewManager(repo, &mockMetrics{}, nopLogger{})

		m.handleEvent(feedEvent(`{"op":"UPDATE","record":{"id":1,"establishment_id":99,"slot_date":"2026-04-01","start_time":"10:00:00","capacity":5,"occupied":5,"blocked":false}}`))

		assert.Equal(t, 0, repo.loads)
	})

	t.Run("malformedEventDropped", func(t *testing.T) {
		m := NewManager(&mockSlotRepo{}, &mockMetrics{}, nopLogger{})

		m.handleEvent(feedEvent("garbage"))
	})

	t.Run("resetMarksViewsStale", func(t *testing.T) {
		repo := &mockSlotRepo{}
		m := NewManager(repo, &mockMetrics{}, nopLogger{})

		_, err := m.ListSlots(context.Background(), 7, &testDate)
		require.NoError(t, err)

		m.handleEvent(resetEvent())

		_, err = m.ListSlots(context.Background(), 7, &testDate)
		require.NoError(t, err)
		assert.Equal(t, 2, repo.loads)
	})
}
