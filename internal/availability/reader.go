package availability

import (
	"sort"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/slots/models"
)

// view материализованное представление слотов одной пары
// (заведение, дата), поддерживаемое событиями change feed.
// Не потокобезопасен: синхронизацию обеспечивает Manager.
type view struct {
	slots map[int64]*domain.Slot
	stale bool
}

func newView(slots []*domain.Slot) *view {
	v := &view{slots: make(map[int64]*domain.Slot, len(slots))}
	for _, s := range slots {
		v.slots[s.ID] = s
	}
	return v
}

// apply применяет событие change feed к представлению.
// Возвращает true, если слот перешел из незаполненного состояния
// в заполненное (occupied достиг capacity)
func (v *view) apply(change *SlotChange) bool {
	switch change.Op {
	case OpDelete:
		delete(v.slots, change.Slot.ID)
		return false
	case OpInsert:
		s := change.Slot
		v.slots[s.ID] = &s
		return false
	case OpUpdate:
		prev, ok := v.slots[change.Slot.ID]
		s := change.Slot
		v.slots[s.ID] = &s

		becameFull := s.IsFull() && !s.Blocked && ok && !prev.IsFull()
		return becameFull
	}
	return false
}

// snapshot возвращает слоты представления, отсортированные по времени начала
func (v *view) snapshot() []*models.SlotResponse {
	out := make([]*models.SlotResponse, 0, len(v.slots))
	for _, s := range v.slots {
		out = append(out, models.FromDomainSlot(s))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime == out[j].StartTime {
			return out[i].ID < out[j].ID
		}
		return out[i].StartTime.IsBefore(out[j].StartTime)
	})

	return out
}
