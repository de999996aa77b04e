package blocked_dates

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/BarberBookingService/internal/api/handlers"
	"github.com/m04kA/BarberBookingService/internal/service/schedule"
	"github.com/m04kA/BarberBookingService/internal/service/schedule/models"
)

const (
	msgInvalidParams      = "некорректные параметры запроса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBlockedDate = "некорректная блокировка: дата YYYY-MM-DD, для части дня нужны startTime < endTime"
	msgInvalidID          = "некорректный ID блокировки"
	msgNotFound           = "блокировка не найдена"
)

// Handler заблокированные дни
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

// HandleList GET /api/v1/admin/blocked-dates?from=&to=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	req, err := ToListRequest(handlers.QueryParam(r, "from"), handlers.QueryParam(r, "to"))
	if err != nil {
		h.logger.Warn("GET /admin/blocked-dates - Invalid parameters: %v", err)
		handlers.RespondErrorCode(w, http.StatusBadRequest, handlers.CodeInvalidDate, msgInvalidParams)
		return
	}

	result, err := h.service.ListBlockedDates(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("GET /admin/blocked-dates - Invalid range: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /admin/blocked-dates - Failed to list blocked dates: %v", err)
			handlers.RespondUnavailable(w)
		}
		return
	}

	h.logger.Info("GET /admin/blocked-dates - Blocked dates retrieved successfully: count=%d", len(result.BlockedDates))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleCreate POST /api/v1/admin/blocked-dates
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBlockedDateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/blocked-dates - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateBlockedDate(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("POST /admin/blocked-dates - Invalid blocked date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidBlockedDate)

		default:
			h.logger.Error("POST /admin/blocked-dates - Failed to create blocked date: %v", err)
			handlers.RespondUnavailable(w)
		}
		return
	}

	h.logger.Info("POST /admin/blocked-dates - Blocked date created successfully: id=%d, date=%s", result.ID, result.Date)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// HandleDelete DELETE /api/v1/admin/blocked-dates/{blockedDateId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["blockedDateId"], 10, 64)
	if err != nil || id <= 0 {
		h.logger.Warn("DELETE /admin/blocked-dates/{id} - Invalid ID: %q", vars["blockedDateId"])
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	if err := h.service.DeleteBlockedDate(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, schedule.ErrBlockedDateNotFound):
			h.logger.Warn("DELETE /admin/blocked-dates/{id} - Not found: id=%d", id)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /admin/blocked-dates/{id} - Failed to delete: id=%d, error=%v", id, err)
			handlers.RespondUnavailable(w)
		}
		return
	}

	h.logger.Info("DELETE /admin/blocked-dates/{id} - Blocked date deleted successfully: id=%d", id)
	w.WriteHeader(http.StatusNoContent)
}
