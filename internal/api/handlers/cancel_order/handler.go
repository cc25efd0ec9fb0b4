package cancel_order

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	cancelOrder "github.com/m04kA/SMC-SchedulingService/internal/usecase/cancel_order"
)

const (
	msgInvalidOrderID     = "некорректный ID заказа"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgOrderNotFound      = "заказ не найден"
	msgNotScheduled       = "заказ не является плановым"
	msgOrderCancelled     = "заказ уже отменен"
	msgInvalidReason      = "некорректная причина отмены"
)

type Handler struct {
	useCase CancelOrderUseCase
	logger  Logger
}

func NewHandler(useCase CancelOrderUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/orders/{orderId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orderIDStr := vars["orderId"]

	orderID, err := strconv.ParseInt(orderIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /orders/{id}/cancel - Invalid order ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrderID)
		return
	}

	// Декодируем body; пустое тело допустимо — отмена без причины
	var req CancelOrderRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("PATCH /orders/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(orderID))
	if err != nil {
		switch {
		case errors.Is(err, cancelOrder.ErrOrderNotFound):
			h.logger.Warn("PATCH /orders/{id}/cancel - Order not found: order_id=%d", orderID)
			handlers.RespondNotFound(w, msgOrderNotFound)

		case errors.Is(err, cancelOrder.ErrNotScheduled):
			h.logger.Warn("PATCH /orders/{id}/cancel - Order is not scheduled: order_id=%d", orderID)
			handlers.RespondBadRequest(w, msgNotScheduled)

		case errors.Is(err, cancelOrder.ErrOrderCancelled):
			h.logger.Warn("PATCH /orders/{id}/cancel - Order already cancelled: order_id=%d", orderID)
			handlers.RespondConflict(w, msgOrderCancelled)

		case errors.Is(err, cancelOrder.ErrInvalidInput):
			h.logger.Warn("PATCH /orders/{id}/cancel - Invalid input: order_id=%d, error=%v", orderID, err)
			handlers.RespondBadRequest(w, msgInvalidReason)

		default:
			h.logger.Error("PATCH /orders/{id}/cancel - Failed to cancel order: order_id=%d, error=%v",
				orderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	userID, _ := middleware.UserIDFromContext(r.Context())
	h.logger.Info("PATCH /orders/{id}/cancel - Order cancelled successfully: order_id=%d, user_id=%d",
		orderID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
