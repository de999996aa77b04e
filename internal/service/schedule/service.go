package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/BarberBookingService/internal/domain"
	blockedDateRepo "github.com/m04kA/BarberBookingService/internal/infra/storage/blocked_date"
	workingDayRepo "github.com/m04kA/BarberBookingService/internal/infra/storage/working_day"
	"github.com/m04kA/BarberBookingService/internal/service/schedule/models"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

// Service сервис расписания: часы работы, перерывы и блокировки
type Service struct {
	workingDayRepo  WorkingDayRepository
	settingsRepo    SettingsRepository
	blockedDateRepo BlockedDateRepository
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	workingDayRepo WorkingDayRepository,
	settingsRepo SettingsRepository,
	blockedDateRepo BlockedDateRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		workingDayRepo:  workingDayRepo,
		settingsRepo:    settingsRepo,
		blockedDateRepo: blockedDateRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// ResolveDayContext собирает все, что влияет на сетку слотов локальной даты.
// Блокировка всего дня прерывает разрешение: часы работы и перерывы уже не нужны.
// Частичные блокировки попадают в BlockedIntervals.
func (s *Service) ResolveDayContext(ctx context.Context, date types.LocalDate) (*domain.DayContext, error) {
	dayCtx := &domain.DayContext{Date: date}

	// 1. Блокировки на дату
	blocks, err := s.blockedDateRepo.GetByDate(ctx, date)
	if err != nil {
		s.logger.Error("ResolveDayContext: failed to get blocked dates for %s: %v", date, err)
		return nil, fmt.Errorf("%w: ResolveDayContext - blocked dates: %v", ErrInternal, err)
	}

	for _, b := range blocks {
		if b.BlocksWholeDay() {
			dayCtx.IsBlocked = true
			dayCtx.BlockReason = b.Reason
			return dayCtx, nil
		}
		if interval, ok := b.PartialInterval(); ok {
			dayCtx.BlockedIntervals = append(dayCtx.BlockedIntervals, interval)
		}
	}

	// 2. Часы работы по локальному дню недели
	workingDay, err := s.workingDayRepo.GetByDayOfWeek(ctx, date.Weekday())
	if err != nil && !errors.Is(err, workingDayRepo.ErrWorkingDayNotFound) {
		s.logger.Error("ResolveDayContext: failed to get working day %d: %v", date.Weekday(), err)
		return nil, fmt.Errorf("%w: ResolveDayContext - working day: %v", ErrInternal, err)
	}
	if workingDay == nil {
		return dayCtx, nil
	}

	dayCtx.WorkingHours = workingDay.Hours()
	if dayCtx.WorkingHours == nil {
		return dayCtx, nil
	}

	// 3. Перерывы общие для всех дней
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		s.logger.Error("ResolveDayContext: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: ResolveDayContext - settings: %v", ErrInternal, err)
	}
	dayCtx.BreakIntervals = settings.BreakIntervals()

	return dayCtx, nil
}

// GetWorkingHours расписание на неделю
func (s *Service) GetWorkingHours(ctx context.Context) (*models.WorkingHoursResponse, error) {
	days, err := s.workingDayRepo.List(ctx)
	if err != nil {
		s.logger.Error("GetWorkingHours: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetWorkingHours - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainWorkingDays(days), nil
}

// ReplaceWorkingHours заменяет расписание на неделю целиком
func (s *Service) ReplaceWorkingHours(ctx context.Context, req *models.ReplaceWorkingHoursRequest) (*models.WorkingHoursResponse, error) {
	s.logger.Info("ReplaceWorkingHours: replacing schedule, days=%d", len(req.Days))

	days, err := req.ToDomainWorkingDays()
	if err != nil {
		s.logger.Warn("ReplaceWorkingHours: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.workingDayRepo.ReplaceAll(txCtx, days)
	})
	if err != nil {
		s.logger.Error("ReplaceWorkingHours: repository error: %v", err)
		return nil, fmt.Errorf("%w: ReplaceWorkingHours - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ReplaceWorkingHours: schedule replaced")

	ptrs := make([]*domain.WorkingDay, 0, len(days))
	for i := range days {
		ptrs = append(ptrs, &days[i])
	}
	return models.FromDomainWorkingDays(ptrs), nil
}

// GetBreaks список ежедневных перерывов
func (s *Service) GetBreaks(ctx context.Context) (*models.BreaksResponse, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		s.logger.Error("GetBreaks: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetBreaks - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainBreaks(settings.Breaks), nil
}

// ReplaceBreaks заменяет список перерывов целиком
func (s *Service) ReplaceBreaks(ctx context.Context, req *models.ReplaceBreaksRequest) (*models.BreaksResponse, error) {
	s.logger.Info("ReplaceBreaks: replacing breaks, count=%d", len(req.Breaks))

	breaks, err := req.ToDomainBreaks()
	if err != nil {
		s.logger.Warn("ReplaceBreaks: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.settingsRepo.ReplaceBreaks(ctx, breaks); err != nil {
		s.logger.Error("ReplaceBreaks: repository error: %v", err)
		return nil, fmt.Errorf("%w: ReplaceBreaks - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBreaks(breaks), nil
}

// ListBlockedDates блокировки в диапазоне дат
func (s *Service) ListBlockedDates(ctx context.Context, req *models.ListBlockedDatesRequest) (*models.BlockedDateListResponse, error) {
	if req.From != nil && req.To != nil && req.To.Before(*req.From) {
		return nil, fmt.Errorf("%w: 'to' is before 'from'", ErrInvalidInput)
	}

	list, err := s.blockedDateRepo.List(ctx, req.From, req.To)
	if err != nil {
		s.logger.Error("ListBlockedDates: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBlockedDates - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBlockedDateList(list), nil
}

// CreateBlockedDate блокирует день или его часть
func (s *Service) CreateBlockedDate(ctx context.Context, req *models.CreateBlockedDateRequest) (*models.BlockedDateResponse, error) {
	s.logger.Info("CreateBlockedDate: date=%s, allDay=%t", req.Date, req.AllDay)

	block, err := req.ToDomainBlockedDate()
	if err != nil {
		s.logger.Warn("CreateBlockedDate: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.blockedDateRepo.Create(ctx, block)
	if err != nil {
		s.logger.Error("CreateBlockedDate: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateBlockedDate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateBlockedDate: created id=%d", created.ID)
	return models.FromDomainBlockedDate(created), nil
}

// DeleteBlockedDate снимает блокировку
func (s *Service) DeleteBlockedDate(ctx context.Context, id int64) error {
	s.logger.Info("DeleteBlockedDate: id=%d", id)

	if err := s.blockedDateRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, blockedDateRepo.ErrBlockedDateNotFound) {
			s.logger.Warn("DeleteBlockedDate: id=%d not found", id)
			return ErrBlockedDateNotFound
		}
		s.logger.Error("DeleteBlockedDate: repository error for id=%d: %v", id, err)
		return fmt.Errorf("%w: DeleteBlockedDate - repository error: %v", ErrInternal, err)
	}

	return nil
}
