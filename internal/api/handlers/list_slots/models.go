package list_slots

import (
	"github.com/m04kA/SMC-SchedulingService/internal/service/slots/models"
)

// ListSlotsResponse HTTP response model
type ListSlotsResponse struct {
	Slots []*models.SlotResponse `json:"slots"`
}
