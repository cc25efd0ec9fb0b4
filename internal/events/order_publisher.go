package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// OrderEventPublisher публикует события смены статуса заказа в NATS
// Публикация fire-and-forget: ошибки логируются и не влияют на исход
// операции планирования
type OrderEventPublisher struct {
	publisher Publisher
	subject   string
	logger    Logger
}

// NewOrderEventPublisher создает новый публикатор событий заказов
func NewOrderEventPublisher(publisher Publisher, subject string, logger Logger) *OrderEventPublisher {
	return &OrderEventPublisher{
		publisher: publisher,
		subject:   subject,
		logger:    logger,
	}
}

// PublishOrderRescheduled публикует событие переноса заказа
func (p *OrderEventPublisher) PublishOrderRescheduled(ctx context.Context, original *domain.ScheduledOrder, successor *domain.ScheduledOrder) {
	p.publish(ctx, OrderStatusEvent{
		EventID:         uuid.NewString(),
		EventType:       EventOrderRescheduled,
		OccurredAt:      time.Now().UTC(),
		EstablishmentID: original.EstablishmentID,
		CustomerID:      original.CustomerID,
		OrderID:         original.ID,
		SlotID:          original.SlotID,
		SuccessorID:     &successor.ID,
		Status:          string(domain.StatusCancelled),
	})
}

// PublishOrderCancelled публикует событие отмены заказа
func (p *OrderEventPublisher) PublishOrderCancelled(ctx context.Context, order *domain.ScheduledOrder, reason string) {
	evt := OrderStatusEvent{
		EventID:         uuid.NewString(),
		EventType:       EventOrderCancelled,
		OccurredAt:      time.Now().UTC(),
		EstablishmentID: order.EstablishmentID,
		CustomerID:      order.CustomerID,
		OrderID:         order.ID,
		SlotID:          order.SlotID,
		Status:          string(domain.StatusCancelled),
	}
	if reason != "" {
		evt.Reason = &reason
	}
	p.publish(ctx, evt)
}

func (p *OrderEventPublisher) publish(ctx context.Context, evt OrderStatusEvent) {
	data, err := json.Marshal(evt)
	if err != nil {
		p.logger.Error("events: failed to marshal %s for order id=%d: %v", evt.EventType, evt.OrderID, err)
		return
	}

	if err := p.publisher.Publish(ctx, p.subject, data); err != nil {
		p.logger.Error("events: failed to publish %s for order id=%d: %v", evt.EventType, evt.OrderID, err)
		return
	}

	p.logger.Info("events: published %s for order id=%d", evt.EventType, evt.OrderID)
}

// NoopOrderEventPublisher заглушка, когда NATS отключен конфигурацией
type NoopOrderEventPublisher struct{}

func (NoopOrderEventPublisher) PublishOrderRescheduled(context.Context, *domain.ScheduledOrder, *domain.ScheduledOrder) {
}

func (NoopOrderEventPublisher) PublishOrderCancelled(context.Context, *domain.ScheduledOrder, string) {
}
