package notifier

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/internal/domain"
)

// EventTypeAppointmentCreated тип события о новой записи
const EventTypeAppointmentCreated = "appointment.created"

// AppointmentCreatedEvent полезная нагрузка события.
// Токен отмены в событие не попадает.
type AppointmentCreatedEvent struct {
	EventID       string    `json:"eventId"`
	EventType     string    `json:"eventType"`
	OccurredAt    time.Time `json:"occurredAt"`
	AppointmentID int64     `json:"appointmentId"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	CustomerPhone string    `json:"customerPhone"`
	ServiceID     int64     `json:"serviceId"`
	Date          time.Time `json:"date"`
	Status        string    `json:"status"`
	Notes         *string   `json:"notes,omitempty"`
}

// NewAppointmentCreatedEvent собирает событие из записи
func NewAppointmentCreatedEvent(a *domain.Appointment, now time.Time) AppointmentCreatedEvent {
	return AppointmentCreatedEvent{
		EventID:       uuid.NewString(),
		EventType:     EventTypeAppointmentCreated,
		OccurredAt:    now.UTC(),
		AppointmentID: a.ID,
		CustomerName:  a.CustomerName,
		CustomerEmail: a.CustomerEmail,
		CustomerPhone: a.CustomerPhone,
		ServiceID:     a.ServiceID,
		Date:          a.Date.UTC(),
		Status:        string(a.Status),
		Notes:         a.Notes,
	}
}
