package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/BarberBookingService/internal/domain"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	FindConflict(ctx context.Context, candidate time.Time, tolerance time.Duration) (*domain.Appointment, error)
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
}

// ServiceRepository интерфейс каталога услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.BarberService, error)
}

// DayContextResolver источник часов работы, перерывов и блокировок на дату
type DayContextResolver interface {
	ResolveDayContext(ctx context.Context, date types.LocalDate) (*domain.DayContext, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventDispatcher асинхронная отправка уведомления о новой записи.
// Ошибки доставки не возвращаются вызывающему.
type EventDispatcher interface {
	Dispatch(ctx context.Context, appointment *domain.Appointment)
}

// MetricsRecorder счетчик исходов создания записи
type MetricsRecorder interface {
	RecordBookingOutcome(outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
