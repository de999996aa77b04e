package get_available_slots

import (
	"fmt"
	"strings"

	"github.com/m04kA/BarberBookingService/pkg/types"
)

// validateRequest разбирает дату запроса. Ошибка здесь означает, что обращений к хранилищу не будет.
func validateRequest(req *Request) (types.LocalDate, error) {
	if req == nil || strings.TrimSpace(req.Date) == "" {
		return types.LocalDate{}, fmt.Errorf("%w: date is required", ErrInvalidDate)
	}

	date, err := types.ParseLocalDate(strings.TrimSpace(req.Date))
	if err != nil {
		return types.LocalDate{}, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	return date, nil
}
