package can_reschedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	canReschedule "github.com/m04kA/SMC-SchedulingService/internal/usecase/can_reschedule"
)

const (
	msgInvalidOrderID = "некорректный ID заказа"
	msgOrderNotFound  = "заказ не найден"
)

type Handler struct {
	useCase CanRescheduleUseCase
	logger  Logger
}

func NewHandler(useCase CanRescheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/orders/{orderId}/can-reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orderIDStr := vars["orderId"]

	orderID, err := strconv.ParseInt(orderIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /orders/{id}/can-reschedule - Invalid order ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrderID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &canReschedule.Request{OrderID: orderID})
	if err != nil {
		switch {
		case errors.Is(err, canReschedule.ErrOrderNotFound):
			h.logger.Warn("GET /orders/{id}/can-reschedule - Order not found: order_id=%d", orderID)
			handlers.RespondNotFound(w, msgOrderNotFound)

		case errors.Is(err, canReschedule.ErrInvalidInput):
			h.logger.Warn("GET /orders/{id}/can-reschedule - Invalid input: order_id=%d, error=%v", orderID, err)
			handlers.RespondBadRequest(w, msgInvalidOrderID)

		default:
			h.logger.Error("GET /orders/{id}/can-reschedule - Failed to check: order_id=%d, error=%v", orderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /orders/{id}/can-reschedule - Check completed: order_id=%d, allowed=%t, reason=%s",
		orderID, result.Allowed, result.Reason)
	handlers.RespondJSON(w, http.StatusOK, result)
}
