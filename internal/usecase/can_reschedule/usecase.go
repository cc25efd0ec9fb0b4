package can_reschedule

import (
	"context"
	"errors"
	"fmt"

	orderRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/order"
)

// UseCase use case проверки, может ли заказ быть перенесен
// Проверки без побочных эффектов; тот же набор условий повторяется движком
// переноса непосредственно перед выполнением саги
type UseCase struct {
	orderRepo    OrderRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(orderRepo OrderRepository, logger Logger) *UseCase {
	return &UseCase{
		orderRepo:    orderRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет проверку возможности переноса
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CanReschedule: order=%d", req.OrderID)

	if req.OrderID <= 0 {
		return nil, fmt.Errorf("%w: orderID must be positive", ErrInvalidInput)
	}

	order, err := uc.orderRepo.GetByID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, orderRepo.ErrOrderNotFound) {
			uc.logger.Warn("CanReschedule: order id=%d not found", req.OrderID)
			return nil, ErrOrderNotFound
		}
		uc.logger.Error("CanReschedule: failed to get order id=%d: %v", req.OrderID, err)
		return nil, fmt.Errorf("%w: failed to get order: %v", ErrInternal, err)
	}

	check := order.CheckReschedulable(uc.timeProvider.Now())
	if !check.Allowed {
		uc.logger.Info("CanReschedule: order id=%d denied, reason=%s", req.OrderID, check.Reason)
		resp := &Response{Allowed: false, Reason: check.Reason}
		if !check.Deadline.IsZero() {
			resp.Deadline = &check.Deadline
		}
		return resp, nil
	}

	uc.logger.Info("CanReschedule: order id=%d allowed, deadline=%s",
		req.OrderID, check.Deadline.Format("2006-01-02 15:04"))

	return &Response{Allowed: true, Deadline: &check.Deadline}, nil
}
