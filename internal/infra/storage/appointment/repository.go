package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/BarberBookingService/internal/domain"
	"github.com/m04kA/BarberBookingService/pkg/dbmetrics"
	"github.com/m04kA/BarberBookingService/pkg/pgerrors"
	"github.com/m04kA/BarberBookingService/pkg/psqlbuilder"
)

const (
	tableName = "appointments"

	// ActiveSlotIndex уникальный индекс (slot_start) для активных статусов
	ActiveSlotIndex = "appointments_active_slot_uidx"
)

var columns = []string{
	"id",
	"customer_name",
	"customer_email",
	"customer_phone",
	"service_id",
	"date",
	"status",
	"notes",
	"cancellation_token",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей клиентов
type Repository struct {
	db       DBExecutor
	slotStep time.Duration
}

// NewRepository создает новый экземпляр репозитория.
// slotStep - шаг сетки, до которого округляется slot_start.
func NewRepository(db DBExecutor, slotStep time.Duration) *Repository {
	return &Repository{db: db, slotStep: slotStep}
}

// Create сохраняет запись.
// Вызывается внутри сериализуемой транзакции вместе с FindConflict. Если конкурентная
// транзакция успела занять слот, возвращается ErrSlotTaken или ErrSerialization.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"customer_name",
			"customer_email",
			"customer_phone",
			"service_id",
			"date",
			"slot_start",
			"status",
			"notes",
			"cancellation_token",
		).
		Values(
			a.CustomerName,
			a.CustomerEmail,
			a.CustomerPhone,
			a.ServiceID,
			a.Date.UTC(),
			domain.SlotKey(a.Date, r.slotStep),
			a.Status,
			a.Notes,
			a.CancellationToken,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, classifyWriteError("Create", err)
	}

	return a, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id})

	// Если используется транзакция, блокируем строку до смены статуса
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return a, nil
}

// List записи для админки, отсортированные по времени начала
func (r *Repository) List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(tableName).
		OrderBy("date ASC", "id ASC")

	if filter.From != nil {
		builder = builder.Where(squirrel.GtOrEq{"date": filter.From.UTC()})
	}
	if filter.To != nil {
		builder = builder.Where(squirrel.Lt{"date": filter.To.UTC()})
	}
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"status": *filter.Status})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "List", query, args)
}

// ListActiveBetween активные записи с date в [from, to)
func (r *Repository) ListActiveBetween(ctx context.Context, from, to time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"status": domain.ActiveStatuses}).
		Where(squirrel.GtOrEq{"date": from.UTC()}).
		Where(squirrel.Lt{"date": to.UTC()}).
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveBetween - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "ListActiveBetween", query, args)
}

// FindConflict возвращает первую активную запись с date в
// [candidate - tolerance, candidate + tolerance] или nil, если таких нет.
// Внутри транзакции найденные строки блокируются (FOR UPDATE).
func (r *Repository) FindConflict(ctx context.Context, candidate time.Time, tolerance time.Duration) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"status": domain.ActiveStatuses}).
		Where(squirrel.GtOrEq{"date": candidate.Add(-tolerance).UTC()}).
		Where(squirrel.LtOrEq{"date": candidate.Add(tolerance).UTC()}).
		OrderBy("date ASC").
		Limit(1)

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindConflict - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		if pgerrors.IsSerializationFailure(err) {
			return nil, fmt.Errorf("%w: FindConflict: %v", ErrSerialization, err)
		}
		return nil, fmt.Errorf("%w: FindConflict - scan appointment: %v", ErrScanRow, err)
	}

	return a, nil
}

// UpdateStatus меняет статус записи. Для неактивных статусов токен отмены удаляется.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Update(tableName).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if status != domain.StatusPending && status != domain.StatusConfirmed {
		builder = builder.Set("cancellation_token", nil)
	}

	query, args, err := builder.Suffix(returning()).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, classifyWriteError("UpdateStatus", err)
	}

	return a, nil
}

// CancelByToken отменяет активную запись по токену. Токен одноразовый.
func (r *Repository) CancelByToken(ctx context.Context, token string) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", domain.StatusCancelled).
		Set("cancellation_token", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"cancellation_token": token}).
		Where(squirrel.Eq{"status": domain.ActiveStatuses}).
		Suffix(returning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CancelByToken - build update query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: CancelByToken - execute update: %v", ErrExecQuery, err)
	}

	return a, nil
}

func (r *Repository) query(ctx context.Context, executor dbmetrics.Querier, op, query string, args []interface{}) ([]*domain.Appointment, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute select: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	result := make([]*domain.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan appointment: %v", ErrScanRow, op, err)
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - iterate rows: %v", ErrScanRow, op, err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var a domain.Appointment
	var notes, token sql.NullString

	err := row.Scan(
		&a.ID,
		&a.CustomerName,
		&a.CustomerEmail,
		&a.CustomerPhone,
		&a.ServiceID,
		&a.Date,
		&a.Status,
		&notes,
		&token,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if notes.Valid {
		a.Notes = &notes.String
	}
	if token.Valid {
		a.CancellationToken = &token.String
	}

	return &a, nil
}

func returning() string {
	return "RETURNING " + strings.Join(columns, ", ")
}

// classifyWriteError отделяет занятый слот и конфликт сериализации от прочих ошибок,
// сохраняя в цепочке исходную ошибку драйвера
func classifyWriteError(op string, err error) error {
	switch {
	case pgerrors.IsUniqueViolation(err, ActiveSlotIndex):
		return fmt.Errorf("%w: %s: %w", ErrSlotTaken, op, err)
	case pgerrors.IsSerializationFailure(err):
		return fmt.Errorf("%w: %s: %w", ErrSerialization, op, err)
	default:
		return fmt.Errorf("%w: %s - execute: %v", ErrExecQuery, op, err)
	}
}
