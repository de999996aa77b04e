package notifier

import (
	"context"

	"github.com/m04kA/BarberBookingService/internal/domain"
)

// Notifier доставляет событие о новой записи
type Notifier interface {
	Notify(ctx context.Context, appointment *domain.Appointment) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
