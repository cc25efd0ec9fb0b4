package create_slot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/slots"
)

const (
	msgInvalidEstablishmentID = "некорректный ID заведения"
	msgInvalidRequestBody     = "некорректное тело запроса"
	msgInvalidSlotData        = "некорректные данные слота"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/establishments/{establishmentId}/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	establishmentIDStr := vars["establishmentId"]

	establishmentID, err := strconv.ParseInt(establishmentIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /establishments/{id}/slots - Invalid establishment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEstablishmentID)
		return
	}

	// Декодируем body
	var req CreateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /establishments/{id}/slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем в модель сервиса (с парсингом даты и времени)
	serviceReq, err := req.ToServiceRequest(establishmentID)
	if err != nil {
		h.logger.Warn("POST /establishments/{id}/slots - Invalid slot data: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotData)
		return
	}

	created, err := h.service.Create(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("POST /establishments/{id}/slots - Validation failed: establishment_id=%d, error=%v",
				establishmentID, err)
			handlers.RespondBadRequest(w, msgInvalidSlotData)

		default:
			h.logger.Error("POST /establishments/{id}/slots - Failed to create slot: establishment_id=%d, error=%v",
				establishmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /establishments/{id}/slots - Slot created successfully: establishment_id=%d, slot_id=%d",
		establishmentID, created.ID)
	handlers.RespondJSON(w, http.StatusCreated, created)
}
