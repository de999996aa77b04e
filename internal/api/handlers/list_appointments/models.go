package list_appointments

import (
	"fmt"

	"github.com/m04kA/BarberBookingService/internal/service/appointments/models"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

// ToServiceRequest формирует запрос к сервису из query параметров (все опциональны)
func ToServiceRequest(fromStr, toStr, statusStr string) (*models.ListAppointmentsRequest, error) {
	req := &models.ListAppointmentsRequest{}

	if fromStr != "" {
		from, err := types.ParseLocalDate(fromStr)
		if err != nil {
			return nil, fmt.Errorf("invalid from: %w", err)
		}
		req.From = &from
	}

	if toStr != "" {
		to, err := types.ParseLocalDate(toStr)
		if err != nil {
			return nil, fmt.Errorf("invalid to: %w", err)
		}
		req.To = &to
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	return req, nil
}
