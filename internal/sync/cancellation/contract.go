package cancellation

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// OrderRepository интерфейс для работы с заказами
type OrderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ScheduledOrder, error)
	Cancel(ctx context.Context, id int64, reason string) error
	MarkSlotReleased(ctx context.Context, id int64) (bool, error)
	UnmarkSlotReleased(ctx context.Context, id int64) error
}

// SlotRepository интерфейс для работы со слотами
type SlotRepository interface {
	Release(ctx context.Context, id int64) error
}

// Subscriber интерфейс подписки на события шины
type Subscriber interface {
	Subscribe(ctx context.Context, subject string, handler func(ctx context.Context, msg []byte) error) error
}

// Metrics интерфейс доменных счетчиков
type Metrics interface {
	IncCancellation(source string)
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
