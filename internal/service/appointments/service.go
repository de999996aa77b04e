package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/BarberBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/BarberBookingService/internal/infra/storage/appointment"
	"github.com/m04kA/BarberBookingService/internal/service/appointments/models"
)

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	location        *time.Location
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		location:        location,
		logger:          logger,
	}
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	a, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(a, s.location), nil
}

// List записи за период с фильтром по статусу.
// Локальные даты переводятся в моменты по часовому поясу заведения: [from 00:00, to+1 00:00).
func (s *Service) List(ctx context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	filter := domain.AppointmentsFilter{}

	if req.From != nil {
		from := req.From.StartOfDay(s.location)
		filter.From = &from
	}
	if req.To != nil {
		to := req.To.AddDays(1).StartOfDay(s.location)
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		s.logger.Warn("List: invalid range from=%s to=%s", req.From, req.To)
		return nil, fmt.Errorf("%w: 'to' is before 'from'", ErrInvalidInput)
	}

	if req.Status != nil {
		status, err := models.ToDomainAppointmentStatus(*req.Status)
		if err != nil {
			s.logger.Warn("List: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	list, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d appointments", len(list))
	return models.FromDomainAppointmentList(list, s.location), nil
}

// UpdateStatus меняет статус записи администратором.
// Разрешены pending -> confirmed -> completed и отмена активной записи.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s", id, req.Status)

	newStatus, err := models.ToDomainAppointmentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, id)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	var updated *domain.Appointment

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := s.appointmentRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if !current.CanTransitionTo(newStatus) {
			s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for appointment id=%d",
				current.Status, newStatus, id)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, newStatus)
		}

		updated, err = s.appointmentRepo.UpdateStatus(txCtx, id, newStatus)
		return err
	})

	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidTransition):
		return nil, err
	case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
		s.logger.Warn("UpdateStatus: appointment id=%d not found", id)
		return nil, ErrAppointmentNotFound
	default:
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: appointment id=%d is now %s", id, updated.Status)
	return models.FromDomainAppointment(updated, s.location), nil
}

// CancelByToken отмена записи клиентом по одноразовому токену
func (s *Service) CancelByToken(ctx context.Context, req *models.CancelByTokenRequest) (*models.AppointmentResponse, error) {
	token := strings.TrimSpace(req.Token)
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidInput)
	}

	a, err := s.appointmentRepo.CancelByToken(ctx, token)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			// Токен неизвестен, уже использован или запись неактивна
			s.logger.Warn("CancelByToken: no active appointment for token")
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("CancelByToken: repository error: %v", err)
		return nil, fmt.Errorf("%w: CancelByToken - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CancelByToken: appointment id=%d cancelled by customer", a.ID)
	return models.FromDomainAppointment(a, s.location), nil
}
