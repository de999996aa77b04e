package domain

import "time"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// IsValid returns true for a known status
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Appointment represents a customer booking
type Appointment struct {
	ID            int64
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	ServiceID     int64

	// Date момент начала записи (хранится в UTC, часы и минуты считаются в часовом поясе заведения)
	Date   time.Time
	Status AppointmentStatus
	Notes  *string

	// CancellationToken присутствует, только пока запись можно отменить
	CancellationToken *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment occupies its slot
func (a *Appointment) IsActive() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanBeCancelled returns true if the appointment can still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.IsActive()
}

// CanTransitionTo reports whether the admin may move the appointment to next
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	switch a.Status {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	}
	return false
}

// AppointmentsFilter фильтр для списка записей в админке
type AppointmentsFilter struct {
	From   *time.Time         // включительно
	To     *time.Time         // не включительно
	Status *AppointmentStatus // nil - все статусы
}

// SlotKey нормализованный ключ слота: начало записи, округленное вниз до шага сетки.
// По нему построен уникальный индекс активных записей.
func SlotKey(t time.Time, step time.Duration) time.Time {
	return t.UTC().Truncate(step)
}
