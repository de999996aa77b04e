package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/BarberBookingService/internal/domain"
	"github.com/m04kA/BarberBookingService/pkg/dbmetrics"
	"github.com/m04kA/BarberBookingService/pkg/psqlbuilder"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

const (
	tableName = "settings"

	// singletonID единственная строка таблицы
	singletonID = 1
)

// breakRecord формат элемента JSONB-массива breaks
type breakRecord struct {
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Description string `json:"description,omitempty"`
}

// Repository репозиторий общих настроек
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get возвращает настройки. Если строка еще не создана, возвращаются пустые настройки.
func (r *Repository) Get(ctx context.Context) (*domain.Settings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("breaks", "updated_at").
		From(tableName).
		Where(squirrel.Eq{"id": singletonID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var raw []byte
	settings := &domain.Settings{Breaks: []domain.BreakSlot{}}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&raw, &settings.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return settings, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan settings: %v", ErrScanRow, err)
	}

	breaks, err := decodeBreaks(raw)
	if err != nil {
		return nil, err
	}
	settings.Breaks = breaks

	return settings, nil
}

// ReplaceBreaks перезаписывает массив перерывов целиком
func (r *Repository) ReplaceBreaks(ctx context.Context, breaks []domain.BreakSlot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	raw, err := encodeBreaks(breaks)
	if err != nil {
		return err
	}

	query, args, err := psqlbuilder.Insert(tableName).
		Columns("id", "breaks", "updated_at").
		Values(singletonID, raw, squirrel.Expr("NOW()")).
		Suffix("ON CONFLICT (id) DO UPDATE SET breaks = EXCLUDED.breaks, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceBreaks - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceBreaks - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

func encodeBreaks(breaks []domain.BreakSlot) (string, error) {
	records := make([]breakRecord, 0, len(breaks))
	for _, b := range breaks {
		records = append(records, breakRecord{
			StartTime:   b.StartTime.String(),
			EndTime:     b.EndTime.String(),
			Description: b.Description,
		})
	}

	raw, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecodeBreaks, err)
	}
	return string(raw), nil
}

func decodeBreaks(raw []byte) ([]domain.BreakSlot, error) {
	if len(raw) == 0 {
		return []domain.BreakSlot{}, nil
	}

	var records []breakRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeBreaks, err)
	}

	breaks := make([]domain.BreakSlot, 0, len(records))
	for _, rec := range records {
		start, err := types.NewTimeStringFromString(rec.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecodeBreaks, err)
		}
		end, err := types.NewTimeStringFromString(rec.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecodeBreaks, err)
		}
		breaks = append(breaks, domain.BreakSlot{StartTime: start, EndTime: end, Description: rec.Description})
	}

	return breaks, nil
}
