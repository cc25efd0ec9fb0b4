package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// SlotRepository интерфейс хранилища слотов для начальной загрузки представлений
type SlotRepository interface {
	ListByEstablishmentAndDate(ctx context.Context, establishmentID int64, date time.Time) ([]*domain.Slot, error)
}

// Metrics интерфейс доменных счетчиков
type Metrics interface {
	IncSlotBecameFull()
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
