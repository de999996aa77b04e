package working_day

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/BarberBookingService/internal/domain"
	"github.com/m04kA/BarberBookingService/pkg/dbmetrics"
	"github.com/m04kA/BarberBookingService/pkg/psqlbuilder"
)

const tableName = "working_days"

// Repository репозиторий часов работы по дням недели
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByDayOfWeek получает часы работы для дня недели
func (r *Repository) GetByDayOfWeek(ctx context.Context, day time.Weekday) (*domain.WorkingDay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("day_of_week", "is_working", "start_time", "end_time").
		From(tableName).
		Where(squirrel.Eq{"day_of_week": int(day)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDayOfWeek - build select query: %v", ErrBuildQuery, err)
	}

	var wd domain.WorkingDay
	err = executor.QueryRowContext(ctx, query, args...).Scan(&wd.DayOfWeek, &wd.IsWorking, &wd.StartTime, &wd.EndTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWorkingDayNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDayOfWeek - scan working day: %v", ErrScanRow, err)
	}

	return &wd, nil
}

// List все дни недели, начиная с воскресенья
func (r *Repository) List(ctx context.Context) ([]*domain.WorkingDay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("day_of_week", "is_working", "start_time", "end_time").
		From(tableName).
		OrderBy("day_of_week ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.WorkingDay, 0, domain.DaysInWeek)
	for rows.Next() {
		var wd domain.WorkingDay
		if err := rows.Scan(&wd.DayOfWeek, &wd.IsWorking, &wd.StartTime, &wd.EndTime); err != nil {
			return nil, fmt.Errorf("%w: List - scan working day: %v", ErrScanRow, err)
		}
		result = append(result, &wd)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - iterate rows: %v", ErrScanRow, err)
	}

	return result, nil
}

// ReplaceAll заменяет расписание целиком.
// Должен вызываться в транзакции, иначе между DELETE и INSERT расписание будет пустым.
func (r *Repository) ReplaceAll(ctx context.Context, days []domain.WorkingDay) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceAll - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceAll - execute delete: %v", ErrExecQuery, err)
	}

	if len(days) == 0 {
		return nil
	}

	insert := psqlbuilder.Insert(tableName).Columns("day_of_week", "is_working", "start_time", "end_time")
	for _, d := range days {
		if d.IsWorking {
			insert = insert.Values(int(d.DayOfWeek), true, d.StartTime, d.EndTime)
			continue
		}
		insert = insert.Values(int(d.DayOfWeek), false, nil, nil)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceAll - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceAll - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
