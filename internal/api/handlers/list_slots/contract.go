package list_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/service/slots/models"
)

type AvailabilityManager interface {
	ListSlots(ctx context.Context, establishmentID int64, date *time.Time) ([]*models.SlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
