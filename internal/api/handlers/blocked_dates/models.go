package blocked_dates

import (
	"fmt"

	"github.com/m04kA/BarberBookingService/internal/service/schedule/models"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

// ToListRequest формирует фильтр из query параметров from/to (YYYY-MM-DD, опционально)
func ToListRequest(fromStr, toStr string) (*models.ListBlockedDatesRequest, error) {
	req := &models.ListBlockedDatesRequest{}

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

	return req, nil
}
