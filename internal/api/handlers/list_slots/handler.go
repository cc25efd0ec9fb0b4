package list_slots

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

const (
	msgInvalidEstablishmentID = "некорректный ID заведения"
	msgInvalidDate            = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type Handler struct {
	manager AvailabilityManager
	logger  Logger
}

func NewHandler(manager AvailabilityManager, logger Logger) *Handler {
	return &Handler{
		manager: manager,
		logger:  logger,
	}
}

// Handle GET /api/v1/establishments/{establishmentId}/slots
// Query params: date (YYYY-MM-DD); отсутствующая дата дает пустой список
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	establishmentIDStr := vars["establishmentId"]

	establishmentID, err := strconv.ParseInt(establishmentIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /establishments/{id}/slots - Invalid establishment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEstablishmentID)
		return
	}

	// Извлекаем date из query параметров
	var date *time.Time
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			h.logger.Warn("GET /establishments/{id}/slots - Invalid date format: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		date = &parsed
	}

	slots, err := h.manager.ListSlots(r.Context(), establishmentID, date)
	if err != nil {
		h.logger.Error("GET /establishments/{id}/slots - Failed to list slots: establishment_id=%d, error=%v",
			establishmentID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /establishments/{id}/slots - Slots retrieved successfully: establishment_id=%d, slots_count=%d",
		establishmentID, len(slots))
	handlers.RespondJSON(w, http.StatusOK, ListSlotsResponse{Slots: slots})
}
