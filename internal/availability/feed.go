package availability

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// ChangeOp тип изменения строки в change feed
type ChangeOp string

const (
	OpInsert ChangeOp = "INSERT"
	OpUpdate ChangeOp = "UPDATE"
	OpDelete ChangeOp = "DELETE"
)

// SlotChange разобранное событие change feed по слоту
type SlotChange struct {
	Op   ChangeOp
	Slot domain.Slot
}

// slotChangePayload формат полезной нагрузки NOTIFY, собираемой триггером
// slots_notify_change (см. migrations)
type slotChangePayload struct {
	Op     string     `json:"op"`
	Record slotRecord `json:"record"`
}

type slotRecord struct {
	ID              int64  `json:"id"`
	EstablishmentID int64  `json:"establishment_id"`
	SlotDate        string `json:"slot_date"`
	StartTime       string `json:"start_time"`
	Capacity        int    `json:"capacity"`
	Occupied        int    `json:"occupied"`
	Blocked         bool   `json:"blocked"`
}

// ParseSlotChange разбирает полезную нагрузку NOTIFY в SlotChange
func ParseSlotChange(payload []byte) (*SlotChange, error) {
	var p slotChangePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("availability: failed to unmarshal feed payload: %w", err)
	}

	op := ChangeOp(p.Op)
	switch op {
	case OpInsert, OpUpdate, OpDelete:
	default:
		return nil, fmt.Errorf("availability: unknown feed operation %q", p.Op)
	}

	date, err := time.Parse(domain.DateFormat, p.Record.SlotDate)
	if err != nil {
		return nil, fmt.Errorf("availability: invalid slot_date %q: %w", p.Record.SlotDate, err)
	}

	startTime := p.Record.StartTime
	if len(startTime) > 5 {
		startTime = startTime[:5]
	}
	ts, err := types.NewTimeStringFromString(startTime)
	if err != nil {
		return nil, fmt.Errorf("availability: invalid start_time %q: %w", p.Record.StartTime, err)
	}

	return &SlotChange{
		Op: op,
		Slot: domain.Slot{
			ID:              p.Record.ID,
			EstablishmentID: p.Record.EstablishmentID,
			Date:            date,
			StartTime:       ts,
			Capacity:        p.Record.Capacity,
			Occupied:        p.Record.Occupied,
			Blocked:         p.Record.Blocked,
		},
	}, nil
}
