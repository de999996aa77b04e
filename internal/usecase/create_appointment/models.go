package create_appointment

import (
	"time"

	"github.com/m04kA/BarberBookingService/internal/domain"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	ServiceID     int64
	Date          time.Time // Момент начала записи, часовой пояс берется из строки RFC3339
	Notes         *string   // Дополнительные заметки (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID            int64
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	ServiceID     int64
	Date          time.Time
	LocalDate     types.LocalDate  // Дата в часовом поясе заведения
	LocalTime     types.TimeString // Время слота в часовом поясе заведения
	Status        domain.AppointmentStatus
	Notes         *string

	// CancellationToken токен для самостоятельной отмены клиентом
	CancellationToken string

	// Денормализованные данные услуги
	ServiceName            string
	ServiceDurationMinutes int
	ServicePrice           float64

	CreatedAt time.Time
}
