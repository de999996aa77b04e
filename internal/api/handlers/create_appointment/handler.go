package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/BarberBookingService/internal/api/handlers"
	createAppointment "github.com/m04kA/BarberBookingService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректная дата записи, ожидается RFC 3339 (например 2025-10-15T10:00:00+03:00)"
	msgInvalidInput       = "некорректные данные записи"
	msgServiceNotFound    = "услуга не найдена"
	msgDayBlocked         = "в этот день запись закрыта"
	msgOutsideHours       = "время вне часов работы"
	msgNotOnGrid          = "время не совпадает с началом слота"
	msgInBreak            = "выбранное время приходится на перерыв"
	msgInPast             = "выбранное время уже прошло"
	msgSlotConflict       = "выбранный слот уже занят"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /appointments - Invalid date %q: %v", req.Date, err)
		handlers.RespondErrorCode(w, http.StatusBadRequest, handlers.CodeInvalidDate, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrSlotConflict):
			h.logger.Warn("POST /appointments - Slot conflict: service_id=%d, date=%s", req.ServiceID, req.Date)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createAppointment.ErrDayBlocked):
			handlers.RespondBadRequest(w, msgDayBlocked)

		case errors.Is(err, createAppointment.ErrOutsideWorkingHours):
			handlers.RespondBadRequest(w, msgOutsideHours)

		case errors.Is(err, createAppointment.ErrNotOnSlotGrid):
			handlers.RespondBadRequest(w, msgNotOnGrid)

		case errors.Is(err, createAppointment.ErrInBreak):
			handlers.RespondBadRequest(w, msgInBreak)

		case errors.Is(err, createAppointment.ErrInPast):
			handlers.RespondBadRequest(w, msgInPast)

		case errors.Is(err, createAppointment.ErrPersistenceUnavailable):
			h.logger.Error("POST /appointments - Persistence unavailable: service_id=%d, error=%v", req.ServiceID, err)
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: service_id=%d, error=%v", req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, service_id=%d",
		result.ID, result.ServiceID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
