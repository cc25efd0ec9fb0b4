package slots

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Create(ctx context.Context, s *domain.Slot) (*domain.Slot, error)
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	Update(ctx context.Context, id int64, upd domain.SlotUpdate) error
	Delete(ctx context.Context, id int64) error
	SetBlocked(ctx context.Context, id int64, blocked bool) error
	ResetOccupied(ctx context.Context, id int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
