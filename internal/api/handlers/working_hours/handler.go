package working_hours

import (
	"errors"
	"net/http"

	"github.com/m04kA/BarberBookingService/internal/api/handlers"
	"github.com/m04kA/BarberBookingService/internal/service/schedule"
	"github.com/m04kA/BarberBookingService/internal/service/schedule/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSchedule    = "некорректное расписание: нужны все 7 дней, время HH:MM, начало раньше конца"
)

// Handler часы работы по дням недели
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

// HandleGet GET /api/v1/admin/working-hours
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetWorkingHours(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/working-hours - Failed to get working hours: %v", err)
		handlers.RespondUnavailable(w)
		return
	}

	h.logger.Info("GET /admin/working-hours - Working hours retrieved successfully: days=%d", len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleReplace PUT /api/v1/admin/working-hours
func (h *Handler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	var req models.ReplaceWorkingHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/working-hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.ReplaceWorkingHours(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /admin/working-hours - Invalid schedule: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSchedule)

		default:
			h.logger.Error("PUT /admin/working-hours - Failed to replace working hours: %v", err)
			handlers.RespondUnavailable(w)
		}
		return
	}

	h.logger.Info("PUT /admin/working-hours - Working hours replaced successfully")
	handlers.RespondJSON(w, http.StatusOK, result)
}
