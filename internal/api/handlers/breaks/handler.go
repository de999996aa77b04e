package breaks

import (
	"errors"
	"net/http"

	"github.com/m04kA/BarberBookingService/internal/api/handlers"
	"github.com/m04kA/BarberBookingService/internal/service/schedule"
	"github.com/m04kA/BarberBookingService/internal/service/schedule/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBreaks      = "некорректные перерывы: время HH:MM, начало раньше конца"
)

// Handler ежедневные перерывы
type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleGet GET /api/v1/admin/breaks
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetBreaks(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/breaks - Failed to get breaks: %v", err)
		handlers.RespondUnavailable(w)
		return
	}

	h.logger.Info("GET /admin/breaks - Breaks retrieved successfully: count=%d", len(result.Breaks))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleReplace PUT /api/v1/admin/breaks
// Список заменяется целиком, пустой массив удаляет все перерывы
func (h *Handler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	var req models.ReplaceBreaksRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/breaks - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.ReplaceBreaks(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /admin/breaks - Invalid breaks: %v", err)
			handlers.RespondBadRequest(w, msgInvalidBreaks)

		default:
			h.logger.Error("PUT /admin/breaks - Failed to replace breaks: %v", err)
			handlers.RespondUnavailable(w)
		}
		return
	}

	h.logger.Info("PUT /admin/breaks - Breaks replaced successfully: count=%d", len(result.Breaks))
	handlers.RespondJSON(w, http.StatusOK, result)
}
