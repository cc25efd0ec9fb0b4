package reschedule_order

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// OrderRepository интерфейс репозитория заказов
type OrderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ScheduledOrder, error)
	Create(ctx context.Context, o *domain.ScheduledOrder) (*domain.ScheduledOrder, error)
	MarkRescheduled(ctx context.Context, id int64) error
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Reserve(ctx context.Context, id int64) error
	Release(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher интерфейс публикации событий смены статуса заказа
type EventPublisher interface {
	PublishOrderRescheduled(ctx context.Context, original *domain.ScheduledOrder, successor *domain.ScheduledOrder)
}

// Notifier интерфейс клиента уведомлений (fire-and-forget)
type Notifier interface {
	NotifyRescheduled(ctx context.Context, successor *domain.ScheduledOrder)
}

// Metrics интерфейс доменных метрик переноса
type Metrics interface {
	IncReschedule(result string)
	IncCompensationFailure()
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
