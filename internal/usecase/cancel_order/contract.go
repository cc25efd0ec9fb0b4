package cancel_order

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// OrderRepository интерфейс репозитория заказов
type OrderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ScheduledOrder, error)
	Cancel(ctx context.Context, id int64, reason string) error
	MarkSlotReleased(ctx context.Context, id int64) (bool, error)
	UnmarkSlotReleased(ctx context.Context, id int64) error
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Release(ctx context.Context, id int64) error
}

// EventPublisher интерфейс публикации событий смены статуса заказа
type EventPublisher interface {
	PublishOrderCancelled(ctx context.Context, order *domain.ScheduledOrder, reason string)
}

// Notifier интерфейс клиента уведомлений (fire-and-forget)
type Notifier interface {
	NotifyCancelled(ctx context.Context, order *domain.ScheduledOrder, reason string)
}

// Metrics интерфейс доменных метрик отмены
type Metrics interface {
	IncCancellation(source string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
