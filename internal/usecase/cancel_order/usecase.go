package cancel_order

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	orderRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/order"
)

// UseCase use case отмены планового заказа
//
// Шаги последовательные, best-effort: сначала освобождение места (под
// идемпотентным маркером), затем смена статуса. Если статус не записался
// после освобождения, расхождение устраняется синхронизацией отмен
type UseCase struct {
	orderRepo OrderRepository
	slotRepo  SlotRepository
	publisher EventPublisher
	notifier  Notifier
	metrics   Metrics
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	orderRepo OrderRepository,
	slotRepo SlotRepository,
	publisher EventPublisher,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		orderRepo: orderRepo,
		slotRepo:  slotRepo,
		publisher: publisher,
		notifier:  notifier,
		metrics:   metrics,
		logger:    logger,
	}
}

// Execute выполняет отмену планового заказа
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelOrder: order=%d", req.OrderID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelOrder: validation failed: %v", err)
		return nil, err
	}

	// 2. Загружаем заказ
	order, err := uc.orderRepo.GetByID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, orderRepo.ErrOrderNotFound) {
			uc.logger.Warn("CancelOrder: order id=%d not found", req.OrderID)
			return nil, ErrOrderNotFound
		}
		uc.logger.Error("CancelOrder: failed to get order id=%d: %v", req.OrderID, err)
		return nil, fmt.Errorf("%w: failed to get order: %v", ErrInternal, err)
	}

	if !order.IsScheduled {
		uc.logger.Warn("CancelOrder: order id=%d is not scheduled", req.OrderID)
		return nil, ErrNotScheduled
	}

	if order.IsCancelled() {
		uc.logger.Warn("CancelOrder: order id=%d is already cancelled", req.OrderID)
		return nil, ErrOrderCancelled
	}

	// 3. Освобождаем место в слоте, если заказ его держит
	// Маркер slot_released гарантирует ровно один декремент, даже если
	// прямая отмена и синхронизация отмен сработают по одному событию
	if order.SlotID != nil {
		if err := uc.releaseSlot(ctx, order); err != nil {
			return nil, err
		}
	}

	// 4. Переводим заказ в статус cancelled
	reason := ""
	if req.Reason != nil {
		reason = *req.Reason
	}

	if err := uc.orderRepo.Cancel(ctx, order.ID, reason); err != nil {
		// Место уже освобождено, но заказ еще не показывает cancelled —
		// восстановимое расхождение: повтор вызова или синхронизация отмен
		uc.logger.Error("CancelOrder: slot released but status update failed for order id=%d: %v",
			order.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrUpdateFailed, err)
	}

	uc.metrics.IncCancellation("direct")
	uc.logger.Info("CancelOrder: order id=%d cancelled", order.ID)

	// 5. Уведомления — fire-and-forget
	uc.publisher.PublishOrderCancelled(ctx, order, reason)
	uc.notifier.NotifyCancelled(ctx, order, reason)

	return &Response{Message: "заказ отменен"}, nil
}

// releaseSlot освобождает место заказа под идемпотентным маркером
func (uc *UseCase) releaseSlot(ctx context.Context, order *domain.ScheduledOrder) error {
	marked, err := uc.orderRepo.MarkSlotReleased(ctx, order.ID)
	if err != nil {
		uc.logger.Error("CancelOrder: failed to mark slot released for order id=%d: %v", order.ID, err)
		return fmt.Errorf("%w: failed to mark slot released: %v", ErrInternal, err)
	}

	if !marked {
		// Место уже освобождено другим путем (например, синхронизацией отмен)
		uc.logger.Info("CancelOrder: slot already released for order id=%d", order.ID)
		return nil
	}

	if err := uc.slotRepo.Release(ctx, *order.SlotID); err != nil {
		// Снимаем маркер, чтобы повтор отмены мог довести освобождение до конца
		if unmarkErr := uc.orderRepo.UnmarkSlotReleased(ctx, order.ID); unmarkErr != nil {
			uc.logger.Error("CancelOrder: failed to unmark slot released for order id=%d: %v",
				order.ID, unmarkErr)
		}
		uc.logger.Error("CancelOrder: failed to release slot id=%d for order id=%d: %v",
			*order.SlotID, order.ID, err)
		return fmt.Errorf("%w: failed to release slot: %v", ErrInternal, err)
	}

	uc.logger.Info("CancelOrder: released slot id=%d for order id=%d", *order.SlotID, order.ID)
	return nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.OrderID <= 0 {
		return fmt.Errorf("%w: orderID must be positive", ErrInvalidInput)
	}
	if req.Reason != nil && len(*req.Reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellation reason must not exceed %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}
	return nil
}
