package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/BarberBookingService/internal/domain"
	"github.com/m04kA/BarberBookingService/internal/slots"
)

// UseCase use case для получения сетки слотов на дату
type UseCase struct {
	resolver        DayContextResolver
	appointmentRepo AppointmentRepository
	timeProvider    TimeProvider
	location        *time.Location
	stepMinutes     int
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	resolver DayContextResolver,
	appointmentRepo AppointmentRepository,
	location *time.Location,
	stepMinutes int,
	logger Logger,
) *UseCase {
	return &UseCase{
		resolver:        resolver,
		appointmentRepo: appointmentRepo,
		timeProvider:    &RealTimeProvider{},
		location:        location,
		stepMinutes:     stepMinutes,
		logger:          logger,
	}
}

// Execute выполняет use case получения слотов.
// Заблокированный или выходной день дает пустой список, а не ошибку.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация даты до любых обращений к хранилищу
	date, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("GetAvailableSlots: date=%s", date)

	// 2. Часы работы, перерывы и блокировки
	dayCtx, err := uc.resolver.ResolveDayContext(ctx, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to resolve day context for %s: %v", date, err)
		return nil, fmt.Errorf("%w: resolve day context: %v", ErrPersistenceUnavailable, err)
	}

	response := &Response{
		Date:      date,
		DayStatus: dayCtx.Status(),
		Slots:     []domain.Slot{},
	}

	// 3. Заблокированный или выходной день
	if response.DayStatus != domain.DayStatusOpen {
		uc.logger.Info("GetAvailableSlots: date=%s is %s", date, response.DayStatus)
		return response, nil
	}

	// 4. Кандидаты по часам работы
	candidates := slots.Generate(dayCtx.WorkingHours.Start, dayCtx.WorkingHours.End, uc.stepMinutes)

	// 5. Активные записи за локальные сутки
	from := date.StartOfDay(uc.location)
	to := date.AddDays(1).StartOfDay(uc.location)

	appointments, err := uc.appointmentRepo.ListActiveBetween(ctx, from, to)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments for %s: %v", date, err)
		return nil, fmt.Errorf("%w: list appointments: %v", ErrPersistenceUnavailable, err)
	}

	// 6. Разметка слотов
	excluded := make([]domain.Interval, 0, len(dayCtx.BreakIntervals)+len(dayCtx.BlockedIntervals))
	excluded = append(excluded, dayCtx.BreakIntervals...)
	excluded = append(excluded, dayCtx.BlockedIntervals...)

	response.Slots = slots.Classify(slots.ClassifyInput{
		Date:       date,
		Candidates: candidates,
		Breaks:     excluded,
		Booked:     slots.BookedTimes(appointments, date, uc.location),
		Now:        uc.timeProvider.Now(),
		Location:   uc.location,
	})

	uc.logger.Info("GetAvailableSlots: generated %d slots for date=%s, booked=%d",
		len(response.Slots), date, len(appointments))

	return response, nil
}
