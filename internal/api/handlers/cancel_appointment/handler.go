package cancel_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/BarberBookingService/internal/api/handlers"
	"github.com/m04kA/BarberBookingService/internal/service/appointments"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingToken       = "токен отмены обязателен"
	msgNotFound           = "запись не найдена или уже отменена"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CancelAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CancelByToken(r.Context(), req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("POST /appointments/cancel - Missing token")
			handlers.RespondBadRequest(w, msgMissingToken)

		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/cancel - Appointment not found by token")
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrInternal):
			h.logger.Error("POST /appointments/cancel - Persistence error: %v", err)
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("POST /appointments/cancel - Failed to cancel appointment: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/cancel - Appointment cancelled successfully: appointment_id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
