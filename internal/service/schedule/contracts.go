package schedule

import (
	"context"
	"time"

	"github.com/m04kA/BarberBookingService/internal/domain"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

// WorkingDayRepository интерфейс репозитория часов работы
type WorkingDayRepository interface {
	GetByDayOfWeek(ctx context.Context, day time.Weekday) (*domain.WorkingDay, error)
	List(ctx context.Context) ([]*domain.WorkingDay, error)
	ReplaceAll(ctx context.Context, days []domain.WorkingDay) error
}

// SettingsRepository интерфейс репозитория общих настроек
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.Settings, error)
	ReplaceBreaks(ctx context.Context, breaks []domain.BreakSlot) error
}

// BlockedDateRepository интерфейс репозитория заблокированных дат
type BlockedDateRepository interface {
	GetByDate(ctx context.Context, date types.LocalDate) ([]*domain.BlockedDate, error)
	List(ctx context.Context, from, to *types.LocalDate) ([]*domain.BlockedDate, error)
	Create(ctx context.Context, b *domain.BlockedDate) (*domain.BlockedDate, error)
	Delete(ctx context.Context, id int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
