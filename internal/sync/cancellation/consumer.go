package cancellation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/events"
	storageOrder "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/order"
)

// Consumer синхронизация отмен: слушает события смены статуса заказов и
// освобождает места в слотах по заказам, отмененным вне этого сервиса.
// Повторная доставка события безопасна: освобождение защищено маркером
// slot_released, поэтому место возвращается не более одного раза
type Consumer struct {
	subscriber Subscriber
	orderRepo  OrderRepository
	slotRepo   SlotRepository
	metrics    Metrics
	log        Logger

	subject string
}

// NewConsumer создает новый экземпляр Consumer
func NewConsumer(subscriber Subscriber, orderRepo OrderRepository, slotRepo SlotRepository, metrics Metrics, log Logger, subject string) *Consumer {
	return &Consumer{
		subscriber: subscriber,
		orderRepo:  orderRepo,
		slotRepo:   slotRepo,
		metrics:    metrics,
		log:        log,
		subject:    subject,
	}
}

// Start подписывается на subject событий заказов
func (c *Consumer) Start(ctx context.Context) error {
	if err := c.subscriber.Subscribe(ctx, c.subject, c.handle); err != nil {
		return fmt.Errorf("%w: failed to subscribe to %s: %v", ErrInternal, c.subject, err)
	}

	c.log.Info("sync.cancellation: subscribed to %s", c.subject)

	return nil
}

// handle обрабатывает одно событие шины
func (c *Consumer) handle(ctx context.Context, msg []byte) error {
	var event events.OrderStatusEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		c.log.Warn("sync.cancellation: dropping malformed event: %v", err)
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	if event.EventType != events.EventOrderCancelled {
		return nil
	}

	return c.processCancellation(ctx, &event)
}

func (c *Consumer) processCancellation(ctx context.Context, event *events.OrderStatusEvent) error {
	order, err := c.orderRepo.GetByID(ctx, event.OrderID)
	if err != nil {
		if errors.Is(err, storageOrder.ErrOrderNotFound) {
			// Событие по заказу, который не проходит через планирование
			c.log.Debug("sync.cancellation: order id=%d not tracked, skipping", event.OrderID)
			return nil
		}
		c.log.Error("sync.cancellation: failed to load order id=%d: %v", event.OrderID, err)
		return fmt.Errorf("%w: failed to load order: %v", ErrInternal, err)
	}

	if !order.IsScheduled || order.SlotID == nil {
		c.log.Debug("sync.cancellation: order id=%d has no slot, skipping", order.ID)
		return nil
	}

	if order.IsRescheduled {
		// Место предшественника уже возвращено сагой переноса
		c.log.Debug("sync.cancellation: order id=%d was rescheduled, slot already released, skipping", order.ID)
		return nil
	}

	// 1. Фиксируем отмену локально, если заказ еще не отменен
	if !order.IsCancelled() {
		reason := ""
		if event.Reason != nil {
			reason = *event.Reason
		}
		if err := c.orderRepo.Cancel(ctx, order.ID, reason); err != nil {
			c.log.Error("sync.cancellation: failed to mark order id=%d cancelled: %v", order.ID, err)
			return fmt.Errorf("%w: failed to mark order cancelled: %v", ErrInternal, err)
		}
	}

	// 2. Возвращаем место в слот под защитой маркера: если место уже
	// возвращено прямой отменой или повторной доставкой события, выходим
	marked, err := c.orderRepo.MarkSlotReleased(ctx, order.ID)
	if err != nil {
		c.log.Error("sync.cancellation: failed to acquire release marker for order id=%d: %v", order.ID, err)
		return fmt.Errorf("%w: failed to acquire release marker: %v", ErrInternal, err)
	}
	if !marked {
		c.log.Debug("sync.cancellation: slot already released for order id=%d", order.ID)
		return nil
	}

	if err := c.slotRepo.Release(ctx, *order.SlotID); err != nil {
		// Снимаем маркер, чтобы следующая доставка события повторила попытку
		if unmarkErr := c.orderRepo.UnmarkSlotReleased(ctx, order.ID); unmarkErr != nil {
			c.log.Error("sync.cancellation: failed to revert release marker for order id=%d: %v", order.ID, unmarkErr)
		}
		c.log.Error("sync.cancellation: failed to release slot id=%d for order id=%d: %v", *order.SlotID, order.ID, err)
		return fmt.Errorf("%w: failed to release slot: %v", ErrInternal, err)
	}

	c.metrics.IncCancellation("sync")
	c.log.Info("sync.cancellation: released slot id=%d for cancelled order id=%d", *order.SlotID, order.ID)

	return nil
}
