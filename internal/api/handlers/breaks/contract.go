package breaks

import (
	"context"

	"github.com/m04kA/BarberBookingService/internal/service/schedule/models"
)

type ScheduleService interface {
	GetBreaks(ctx context.Context) (*models.BreaksResponse, error)
	ReplaceBreaks(ctx context.Context, req *models.ReplaceBreaksRequest) (*models.BreaksResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
