package reschedule_order

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	rescheduleOrder "github.com/m04kA/SMC-SchedulingService/internal/usecase/reschedule_order"
)

const (
	msgInvalidOrderID       = "некорректный ID заказа"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidSlotData      = "некорректные данные слота"
	msgOrderNotFound        = "заказ не найден"
	msgSlotNotFound         = "слот не найден"
	msgNotScheduled         = "заказ не является плановым"
	msgOrderCancelled       = "заказ отменен"
	msgAlreadyRescheduled   = "заказ уже был перенесен"
	msgNotPermitted         = "перенос запрещен для данного заказа"
	msgDeadlineExpired      = "срок переноса заказа истек"
	msgSlotMismatch         = "указанный текущий слот не соответствует заказу"
	msgSlotUnavailable      = "выбранный слот недоступен"
	msgCompensationRequired = "перенос не выполнен, обратитесь в поддержку"
)

type Handler struct {
	useCase RescheduleOrderUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleOrderUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/orders/{orderId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orderIDStr := vars["orderId"]

	orderID, err := strconv.ParseInt(orderIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /orders/{id}/reschedule - Invalid order ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrderID)
		return
	}

	// Декодируем body
	var req RescheduleOrderRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /orders/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(orderID)
	if err != nil {
		h.logger.Warn("POST /orders/{id}/reschedule - Invalid slot data: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotData)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleOrder.ErrOrderNotFound):
			h.logger.Warn("POST /orders/{id}/reschedule - Order not found: order_id=%d", orderID)
			handlers.RespondNotFound(w, msgOrderNotFound)

		case errors.Is(err, rescheduleOrder.ErrSlotNotFound):
			h.logger.Warn("POST /orders/{id}/reschedule - Target slot not found: order_id=%d, slot_id=%d",
				orderID, req.NewSlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, rescheduleOrder.ErrNotScheduled):
			h.logger.Warn("POST /orders/{id}/reschedule - Order is not scheduled: order_id=%d", orderID)
			handlers.RespondBadRequest(w, msgNotScheduled)

		case errors.Is(err, rescheduleOrder.ErrOrderCancelled):
			h.logger.Warn("POST /orders/{id}/reschedule - Order is cancelled: order_id=%d", orderID)
			handlers.RespondConflict(w, msgOrderCancelled)

		case errors.Is(err, rescheduleOrder.ErrAlreadyRescheduled):
			h.logger.Warn("POST /orders/{id}/reschedule - Order already rescheduled: order_id=%d", orderID)
			handlers.RespondConflict(w, msgAlreadyRescheduled)

		case errors.Is(err, rescheduleOrder.ErrRescheduleNotPermitted):
			h.logger.Warn("POST /orders/{id}/reschedule - Reschedule not permitted: order_id=%d", orderID)
			handlers.RespondForbidden(w, msgNotPermitted)

		case errors.Is(err, rescheduleOrder.ErrDeadlineExpired):
			h.logger.Warn("POST /orders/{id}/reschedule - Deadline expired: order_id=%d", orderID)
			handlers.RespondForbidden(w, msgDeadlineExpired)

		case errors.Is(err, rescheduleOrder.ErrSlotMismatch):
			h.logger.Warn("POST /orders/{id}/reschedule - Slot mismatch: order_id=%d, claimed_slot_id=%d",
				orderID, req.CurrentSlotID)
			handlers.RespondConflict(w, msgSlotMismatch)

		case errors.Is(err, rescheduleOrder.ErrSlotUnavailable):
			h.logger.Warn("POST /orders/{id}/reschedule - Target slot unavailable: order_id=%d, slot_id=%d",
				orderID, req.NewSlotID)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, rescheduleOrder.ErrInvalidInput):
			h.logger.Warn("POST /orders/{id}/reschedule - Invalid input: order_id=%d, error=%v", orderID, err)
			handlers.RespondBadRequest(w, msgInvalidSlotData)

		case errors.Is(err, rescheduleOrder.ErrCompensationFailed):
			h.logger.Error("POST /orders/{id}/reschedule - COMPENSATION FAILED: order_id=%d, error=%v",
				orderID, err)
			handlers.RespondJSON(w, http.StatusInternalServerError,
				handlers.ErrorResponse{Message: msgCompensationRequired})

		default:
			h.logger.Error("POST /orders/{id}/reschedule - Failed to reschedule: order_id=%d, error=%v",
				orderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	userID, _ := middleware.UserIDFromContext(r.Context())
	h.logger.Info("POST /orders/{id}/reschedule - Order rescheduled successfully: order_id=%d, new_order_id=%d, user_id=%d",
		orderID, result.NewOrderID, userID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
