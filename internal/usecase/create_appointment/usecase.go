package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/BarberBookingService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/BarberBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/BarberBookingService/internal/slots"
	"github.com/m04kA/BarberBookingService/pkg/pgerrors"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

// Исходы создания записи для метрики booking_outcomes_total
const (
	OutcomeCreated  = "created"
	OutcomeConflict = "conflict"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Options параметры сетки и допуска конфликта
type Options struct {
	Location                 *time.Location
	SlotStepMinutes          int
	ConflictToleranceMinutes int
}

// UseCase use case для создания записи клиента
type UseCase struct {
	appointmentRepo AppointmentRepository
	serviceRepo     ServiceRepository
	resolver        DayContextResolver
	txManager       TransactionManager
	dispatcher      EventDispatcher
	metrics         MetricsRecorder
	timeProvider    TimeProvider
	opts            Options
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	serviceRepo ServiceRepository,
	resolver DayContextResolver,
	txManager TransactionManager,
	dispatcher EventDispatcher,
	metrics MetricsRecorder,
	opts Options,
	logger Logger,
) *UseCase {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		serviceRepo:     serviceRepo,
		resolver:        resolver,
		txManager:       txManager,
		dispatcher:      dispatcher,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		opts:            opts,
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Проверка конфликта и вставка выполняются в одной сериализуемой транзакции,
// поэтому из двух одновременных запросов на один слот успешен только один.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		uc.metrics.RecordBookingOutcome(OutcomeRejected)
		return nil, err
	}

	local := req.Date.In(uc.opts.Location)
	date := types.LocalDateOf(local, uc.opts.Location)
	slotTime := types.NewTimeString(local)

	uc.logger.Info("CreateAppointment: service=%d, date=%s, time=%s", req.ServiceID, date, slotTime)

	// 2. Услуга должна существовать и быть активной
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			uc.metrics.RecordBookingOutcome(OutcomeRejected)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		uc.metrics.RecordBookingOutcome(OutcomeError)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrPersistenceUnavailable, err)
	}
	if !service.IsActive {
		uc.logger.Warn("CreateAppointment: service id=%d is inactive", req.ServiceID)
		uc.metrics.RecordBookingOutcome(OutcomeRejected)
		return nil, ErrServiceNotFound
	}

	// 3. Время с секундами не может быть началом слота
	if local.Second() != 0 || local.Nanosecond() != 0 {
		uc.logger.Warn("CreateAppointment: %s has non-zero seconds", req.Date.Format(time.RFC3339Nano))
		uc.metrics.RecordBookingOutcome(OutcomeRejected)
		return nil, fmt.Errorf("%w: seconds must be zero", ErrNotOnSlotGrid)
	}

	// 4. Расписание дня
	dayCtx, err := uc.resolver.ResolveDayContext(ctx, date)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to resolve day context for %s: %v", date, err)
		uc.metrics.RecordBookingOutcome(OutcomeError)
		return nil, fmt.Errorf("%w: resolve day context: %v", ErrPersistenceUnavailable, err)
	}

	// 5. Слот должен быть открыт по расписанию
	err = validateSlot(dayCtx, slotTime, slots.ClassifyInput{
		Date:     date,
		Breaks:   append(append([]domain.Interval{}, dayCtx.BreakIntervals...), dayCtx.BlockedIntervals...),
		Now:      uc.timeProvider.Now(),
		Location: uc.opts.Location,
	}, uc.opts.SlotStepMinutes)
	if err != nil {
		uc.logger.Warn("CreateAppointment: slot %s %s rejected: %v", date, slotTime, err)
		uc.metrics.RecordBookingOutcome(OutcomeRejected)
		return nil, err
	}

	token := uuid.NewString()
	tolerance := time.Duration(uc.opts.ConflictToleranceMinutes) * time.Minute

	var result *domain.Appointment

	// 6. Проверка конфликта и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Активная запись в окне допуска (строки блокируются FOR UPDATE)
		conflict, err := uc.appointmentRepo.FindConflict(txCtx, req.Date, tolerance)
		if err != nil {
			return err
		}
		if conflict != nil {
			uc.logger.Warn("CreateAppointment: slot %s %s conflicts with appointment id=%d",
				date, slotTime, conflict.ID)
			return ErrSlotConflict
		}

		// 6.2. Сохраняем запись
		created, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			CustomerName:      req.CustomerName,
			CustomerEmail:     req.CustomerEmail,
			CustomerPhone:     req.CustomerPhone,
			ServiceID:         req.ServiceID,
			Date:              req.Date,
			Status:            domain.StatusPending,
			Notes:             req.Notes,
			CancellationToken: &token,
		})
		if err != nil {
			return err
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, uc.mapTxError(date, slotTime, err)
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d at %s %s", result.ID, date, slotTime)
	uc.metrics.RecordBookingOutcome(OutcomeCreated)

	// 7. Уведомление после фиксации транзакции, результат не влияет на ответ
	uc.dispatcher.Dispatch(ctx, result)

	return &Response{
		ID:                     result.ID,
		CustomerName:           result.CustomerName,
		CustomerEmail:          result.CustomerEmail,
		CustomerPhone:          result.CustomerPhone,
		ServiceID:              result.ServiceID,
		Date:                   result.Date,
		LocalDate:              date,
		LocalTime:              slotTime,
		Status:                 result.Status,
		Notes:                  result.Notes,
		CancellationToken:      token,
		ServiceName:            service.Name,
		ServiceDurationMinutes: service.DurationMinutes,
		ServicePrice:           service.Price,
		CreatedAt:              result.CreatedAt,
	}, nil
}

// mapTxError сводит ошибки транзакции к таксономии use case.
// Занятый уникальный индекс и конфликт сериализации (в том числе на COMMIT) означают занятый слот.
func (uc *UseCase) mapTxError(date types.LocalDate, slotTime types.TimeString, err error) error {
	switch {
	case errors.Is(err, ErrSlotConflict):
		uc.metrics.RecordBookingOutcome(OutcomeConflict)
		return ErrSlotConflict
	case errors.Is(err, appointmentRepo.ErrSlotTaken),
		errors.Is(err, appointmentRepo.ErrSerialization),
		pgerrors.IsSerializationFailure(err):
		uc.logger.Warn("CreateAppointment: concurrent booking for %s %s: %v", date, slotTime, err)
		uc.metrics.RecordBookingOutcome(OutcomeConflict)
		return fmt.Errorf("%w: %v", ErrSlotConflict, err)
	default:
		uc.logger.Error("CreateAppointment: failed to create appointment at %s %s: %v", date, slotTime, err)
		uc.metrics.RecordBookingOutcome(OutcomeError)
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
}
