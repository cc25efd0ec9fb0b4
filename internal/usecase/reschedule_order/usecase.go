package reschedule_order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	orderRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/order"
	slotRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

// UseCase use case переноса заказа на другой слот
//
// Операция затрагивает две строки слотов и две строки заказов. Счетчики
// слотов живут на независимых строках, поэтому их изменения выполняются
// как сага с явными компенсациями; перевязка заказов (маркировка
// предшественника + вставка преемника) выполняется одной сериализуемой
// транзакцией, чтобы не существовало окна, в котором оба заказа активны
// или ни один
type UseCase struct {
	orderRepo    OrderRepository
	slotRepo     SlotRepository
	txManager    TransactionManager
	publisher    EventPublisher
	notifier     Notifier
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	orderRepo OrderRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		orderRepo:    orderRepo,
		slotRepo:     slotRepo,
		txManager:    txManager,
		publisher:    publisher,
		notifier:     notifier,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет перенос заказа
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleOrder: order=%d, slot %d -> %d (%s %s)",
		req.OrderID, req.CurrentSlotID, req.NewSlotID,
		req.NewSlotDate.Format(domain.DateFormat), req.NewSlotTime)

	resp, err := uc.execute(ctx, req)
	if err != nil {
		uc.metrics.IncReschedule(resultLabel(err))
		return nil, err
	}

	uc.metrics.IncReschedule("success")
	return resp, nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleOrder: validation failed: %v", err)
		return nil, err
	}

	// 2. Загружаем заказ
	original, err := uc.orderRepo.GetByID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, orderRepo.ErrOrderNotFound) {
			uc.logger.Warn("RescheduleOrder: order id=%d not found", req.OrderID)
			return nil, ErrOrderNotFound
		}
		uc.logger.Error("RescheduleOrder: failed to get order id=%d: %v", req.OrderID, err)
		return nil, fmt.Errorf("%w: failed to get order: %v", ErrInternal, err)
	}

	// 3. Переданный текущий слот обязан совпадать с фактическим:
	// компенсации должны быть атрибутируемы конкретному заказу
	if original.SlotID == nil || *original.SlotID != req.CurrentSlotID {
		uc.logger.Warn("RescheduleOrder: slot mismatch for order id=%d: expected %v, got %d",
			req.OrderID, original.SlotID, req.CurrentSlotID)
		return nil, ErrSlotMismatch
	}

	// 4. Повторная проверка политики переноса
	check := original.CheckReschedulable(uc.timeProvider.Now())
	if !check.Allowed {
		uc.logger.Warn("RescheduleOrder: order id=%d denied, reason=%s", req.OrderID, check.Reason)
		return nil, denialToError(check)
	}

	// 5. Освобождаем место в текущем слоте
	if err := uc.slotRepo.Release(ctx, req.CurrentSlotID); err != nil {
		uc.logger.Error("RescheduleOrder: failed to release slot id=%d: %v", req.CurrentSlotID, err)
		return nil, fmt.Errorf("%w: failed to release current slot: %v", ErrUpdateFailed, err)
	}

	// 6. Атомарно резервируем место в целевом слоте
	// Условный UPDATE заменяет пару "прочитать occupied, записать occupied+1":
	// заполненность и блокировка проверяются тем же запросом
	if err := uc.slotRepo.Reserve(ctx, req.NewSlotID); err != nil {
		if compErr := uc.compensate(ctx, "restore-current-slot", req, func(ctx context.Context) error {
			return uc.slotRepo.Restore(ctx, req.CurrentSlotID)
		}); compErr != nil {
			return nil, compErr
		}

		switch {
		case errors.Is(err, slotRepo.ErrSlotUnavailable):
			uc.logger.Warn("RescheduleOrder: target slot id=%d is blocked or full", req.NewSlotID)
			return nil, ErrSlotUnavailable
		case errors.Is(err, slotRepo.ErrSlotNotFound):
			uc.logger.Warn("RescheduleOrder: target slot id=%d not found", req.NewSlotID)
			return nil, ErrSlotNotFound
		default:
			uc.logger.Error("RescheduleOrder: failed to reserve slot id=%d: %v", req.NewSlotID, err)
			return nil, fmt.Errorf("%w: %v", ErrReservationFailed, err)
		}
	}

	// 7. Перевязываем заказы одной сериализуемой транзакцией:
	// пометить предшественника и вставить преемника — либо оба, либо никто
	successor := uc.buildSuccessor(original, req)

	var markErr, createErr error
	txErr := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if markErr = uc.orderRepo.MarkRescheduled(txCtx, original.ID); markErr != nil {
			return markErr
		}
		successor, createErr = uc.orderRepo.Create(txCtx, successor)
		return createErr
	})

	if txErr != nil {
		// Откатываем оба счетчика: вернуть место в старый слот, снять бронь с нового
		if compErr := uc.compensate(ctx, "revert-slot-counters", req, func(ctx context.Context) error {
			if err := uc.slotRepo.Restore(ctx, req.CurrentSlotID); err != nil {
				return err
			}
			return uc.slotRepo.Release(ctx, req.NewSlotID)
		}); compErr != nil {
			return nil, compErr
		}

		if markErr != nil {
			uc.logger.Error("RescheduleOrder: failed to mark order id=%d rescheduled: %v", original.ID, markErr)
			return nil, fmt.Errorf("%w: %v", ErrUpdateFailed, markErr)
		}
		uc.logger.Error("RescheduleOrder: failed to create successor for order id=%d: %v", original.ID, txErr)
		return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, txErr)
	}

	uc.logger.Info("RescheduleOrder: order id=%d rescheduled, successor id=%d, slot %d -> %d",
		original.ID, successor.ID, req.CurrentSlotID, req.NewSlotID)

	// 8. Уведомления — fire-and-forget: их сбои не откатывают перенос
	uc.publisher.PublishOrderRescheduled(ctx, original, successor)
	uc.notifier.NotifyRescheduled(ctx, successor)

	return &Response{
		NewOrderID:    successor.ID,
		ScheduledDate: successor.ScheduledDate,
		ScheduledTime: successor.ScheduledTime,
		Message:       fmt.Sprintf("заказ перенесен на %s %s", successor.ScheduledDate.Format(domain.DateFormat), successor.ScheduledTime),
	}, nil
}

// buildSuccessor собирает заказ-преемник: копия клиентских полей исходного
// заказа с новым слотом и свежим дедлайном переноса
func (uc *UseCase) buildSuccessor(original *domain.ScheduledOrder, req *Request) *domain.ScheduledOrder {
	limit := uc.computeRescheduleLimit(req)

	return &domain.ScheduledOrder{
		EstablishmentID: original.EstablishmentID,
		CustomerID:      original.CustomerID,

		SlotID:          ptr.Ptr(req.NewSlotID),
		ScheduledDate:   req.NewSlotDate,
		ScheduledTime:   req.NewSlotTime,
		IsScheduled:     true,
		CanReschedule:   true,
		RescheduleLimit: &limit,
		RescheduleCount: original.RescheduleCount + 1,
		PredecessorID:   ptr.Ptr(original.ID),

		Status: domain.StatusPending,

		CustomerName:      original.CustomerName,
		CustomerPhone:     original.CustomerPhone,
		DeliveryAddress:   original.DeliveryAddress,
		PaymentMethod:     original.PaymentMethod,
		TotalPrice:        original.TotalPrice,
		LoyaltyPointsUsed: original.LoyaltyPointsUsed,
		Notes:             original.Notes,
	}
}

// computeRescheduleLimit вычисляет дедлайн переноса для нового времени
func (uc *UseCase) computeRescheduleLimit(req *Request) time.Time {
	at, err := req.NewSlotTime.OnDate(req.NewSlotDate)
	if err != nil {
		at = req.NewSlotDate
	}
	return at.Add(-domain.RescheduleNoticeHours * time.Hour)
}

// compensate выполняет компенсирующую запись с одним повтором
// Если запись не прошла и после повтора, система остается в расходящемся,
// но обнаружимом состоянии: ошибка эскалируется до ErrCompensationFailed
// с полным контекстом для ручной сверки, дальнейших попыток авторемонта нет
func (uc *UseCase) compensate(ctx context.Context, step string, req *Request, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	if err == nil {
		uc.logger.Info("RescheduleOrder: compensation %s applied for order id=%d", step, req.OrderID)
		return nil
	}

	uc.logger.Warn("RescheduleOrder: compensation %s failed for order id=%d, retrying once: %v",
		step, req.OrderID, err)

	if err = fn(ctx); err == nil {
		uc.logger.Info("RescheduleOrder: compensation %s applied on retry for order id=%d", step, req.OrderID)
		return nil
	}

	uc.metrics.IncCompensationFailure()
	uc.logger.Error("RescheduleOrder: COMPENSATION FAILED step=%s order=%d current_slot=%d new_slot=%d: %v",
		step, req.OrderID, req.CurrentSlotID, req.NewSlotID, err)

	return fmt.Errorf("%w: step=%s order=%d current_slot=%d new_slot=%d: %v",
		ErrCompensationFailed, step, req.OrderID, req.CurrentSlotID, req.NewSlotID, err)
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.OrderID <= 0 {
		return fmt.Errorf("%w: orderID must be positive", ErrInvalidInput)
	}
	if req.CurrentSlotID <= 0 {
		return fmt.Errorf("%w: currentSlotID must be positive", ErrInvalidInput)
	}
	if req.NewSlotID <= 0 {
		return fmt.Errorf("%w: newSlotID must be positive", ErrInvalidInput)
	}
	if req.CurrentSlotID == req.NewSlotID {
		return fmt.Errorf("%w: target slot must differ from the current slot", ErrInvalidInput)
	}
	if req.NewSlotDate.IsZero() {
		return fmt.Errorf("%w: newSlotDate is required", ErrInvalidInput)
	}
	if req.NewSlotTime.IsZero() {
		return fmt.Errorf("%w: newSlotTime is required", ErrInvalidInput)
	}
	if err := req.NewSlotTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid newSlotTime format: %v", ErrInvalidInput, err)
	}
	return nil
}

// denialToError конвертирует причину отказа политики в ошибку usecase
func denialToError(check domain.RescheduleCheck) error {
	switch check.Reason {
	case domain.ReasonNotScheduled:
		return ErrNotScheduled
	case domain.ReasonOrderCancelled:
		return ErrOrderCancelled
	case domain.ReasonAlreadyRescheduled:
		return ErrAlreadyRescheduled
	case domain.ReasonNotPermitted:
		return ErrRescheduleNotPermitted
	case domain.ReasonDeadlineExpired:
		return fmt.Errorf("%w: deadline was %s", ErrDeadlineExpired, check.Deadline.Format("2006-01-02 15:04"))
	default:
		return ErrInternal
	}
}

// resultLabel метка результата для метрик
func resultLabel(err error) string {
	switch {
	case errors.Is(err, ErrCompensationFailed):
		return "compensation_failed"
	case errors.Is(err, ErrSlotUnavailable):
		return "slot_unavailable"
	case errors.Is(err, ErrDeadlineExpired):
		return "deadline_expired"
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrSlotMismatch):
		return "invalid_input"
	case errors.Is(err, ErrOrderNotFound), errors.Is(err, ErrSlotNotFound):
		return "not_found"
	case errors.Is(err, ErrNotScheduled), errors.Is(err, ErrOrderCancelled),
		errors.Is(err, ErrAlreadyRescheduled), errors.Is(err, ErrRescheduleNotPermitted):
		return "policy_denied"
	default:
		return "error"
	}
}
