package models

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// CreateSlotRequest запрос на создание слота
type CreateSlotRequest struct {
	EstablishmentID int64
	Date            time.Time
	StartTime       types.TimeString
	Capacity        int
}

// UpdateSlotRequest запрос на частичное обновление слота
type UpdateSlotRequest struct {
	Date      *time.Time
	StartTime *types.TimeString
	Capacity  *int
}

// ToDomainUpdate конвертирует запрос в domain.SlotUpdate
func (r *UpdateSlotRequest) ToDomainUpdate() domain.SlotUpdate {
	return domain.SlotUpdate{
		Date:      r.Date,
		StartTime: r.StartTime,
		Capacity:  r.Capacity,
	}
}

// SlotResponse слот с вычисленным статусом доступности
type SlotResponse struct {
	ID              int64             `json:"id"`
	EstablishmentID int64             `json:"establishmentId"`
	Date            string            `json:"date"`
	StartTime       types.TimeString  `json:"startTime"`
	Capacity        int               `json:"capacity"`
	Occupied        int               `json:"occupied"`
	Blocked         bool              `json:"blocked"`
	Status          domain.SlotStatus `json:"status"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// FromDomainSlot конвертирует domain.Slot в SlotResponse
func FromDomainSlot(s *domain.Slot) *SlotResponse {
	return &SlotResponse{
		ID:              s.ID,
		EstablishmentID: s.EstablishmentID,
		Date:            s.Date.Format(domain.DateFormat),
		StartTime:       s.StartTime,
		Capacity:        s.Capacity,
		Occupied:        s.Occupied,
		Blocked:         s.Blocked,
		Status:          s.Status(),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
