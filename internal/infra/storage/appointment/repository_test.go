package appointment

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BarberBookingService/internal/domain"
	"github.com/m04kA/BarberBookingService/pkg/dbmetrics"
)

const selectColumns = "SELECT id, customer_name, customer_email, customer_phone, service_id, date, status, notes, cancellation_token, created_at, updated_at FROM appointments"

// timeArg сравнивает аргумент запроса как момент времени
type timeArg struct {
	want time.Time
}

func (a timeArg) Match(v driver.Value) bool {
	got, ok := v.(time.Time)
	return ok && got.Equal(a.want)
}

func newMockRepository(t *testing.T) (*Repository, *dbmetrics.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	wrapped := dbmetrics.Wrap(db, nil, "test")
	return NewRepository(wrapped, 30*time.Minute), wrapped, mock
}

func appointmentRows(id int64, date time.Time, status domain.AppointmentStatus) *sqlmock.Rows {
	created := date.Add(-24 * time.Hour)
	return sqlmock.NewRows(columns).
		AddRow(id, "Иван", "ivan@example.com", "+79990000000", int64(1), date, string(status), nil, "tok", created, created)
}

func TestFindConflictQuery(t *testing.T) {
	repo, _, mock := newMockRepository(t)
	candidate := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	tolerance := 29 * time.Minute

	mock.ExpectQuery("^"+regexp.QuoteMeta(selectColumns+
		" WHERE status IN ($1,$2) AND date >= $3 AND date <= $4 ORDER BY date ASC LIMIT 1")+"$").
		WithArgs("pending", "confirmed",
			timeArg{candidate.Add(-tolerance)}, timeArg{candidate.Add(tolerance)}).
		WillReturnRows(appointmentRows(7, candidate.Add(15*time.Minute), domain.StatusConfirmed))

	found, err := repo.FindConflict(context.Background(), candidate, tolerance)

	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, int64(7), found.ID)
	assert.Equal(t, domain.StatusConfirmed, found.Status)
	require.NotNil(t, found.CancellationToken)
	assert.Nil(t, found.Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindConflictLocksRowsInTransaction(t *testing.T) {
	repo, wrapped, mock := newMockRepository(t)
	candidate := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY date ASC LIMIT 1 FOR UPDATE") + "$").
		WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectRollback()

	ctx := context.Background()
	tx, err := wrapped.BeginTx(ctx, nil)
	require.NoError(t, err)

	found, err := repo.FindConflict(dbmetrics.WithTx(ctx, tx), candidate, 29*time.Minute)

	require.NoError(t, err)
	assert.Nil(t, found)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindConflictSerializationFailure(t *testing.T) {
	repo, _, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectColumns)).
		WillReturnError(&pq.Error{Code: "40001", Message: "could not serialize access"})

	_, err := repo.FindConflict(context.Background(), time.Now(), 29*time.Minute)

	assert.ErrorIs(t, err, ErrSerialization)
}

func TestCreateStoresSlotKey(t *testing.T) {
	repo, _, mock := newMockRepository(t)
	date := time.Date(2026, 3, 2, 13, 30, 0, 0, time.FixedZone("UTC+3", 3*3600))
	token := "tok-1"
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("^" + regexp.QuoteMeta("INSERT INTO appointments (customer_name,customer_email,customer_phone,service_id,date,slot_start,status,notes,cancellation_token) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9) RETURNING id, created_at, updated_at") + "$").
		WithArgs("Иван", "ivan@example.com", "+79990000000", int64(1),
			timeArg{date}, timeArg{time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)},
			"pending", nil, "tok-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), created, created))

	a, err := repo.Create(context.Background(), &domain.Appointment{
		CustomerName:      "Иван",
		CustomerEmail:     "ivan@example.com",
		CustomerPhone:     "+79990000000",
		ServiceID:         1,
		Date:              date,
		Status:            domain.StatusPending,
		CancellationToken: &token,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(11), a.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUniqueViolationIsSlotTaken(t *testing.T) {
	repo, _, mock := newMockRepository(t)
	token := "tok-1"

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointments")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: ActiveSlotIndex})

	_, err := repo.Create(context.Background(), &domain.Appointment{
		CustomerName:      "Иван",
		ServiceID:         1,
		Date:              time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		Status:            domain.StatusPending,
		CancellationToken: &token,
	})

	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestClassifyWriteError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    error
		notWant error
	}{
		{
			name: "unique violation on active slot index",
			err:  &pq.Error{Code: "23505", Constraint: ActiveSlotIndex},
			want: ErrSlotTaken,
		},
		{
			name:    "unique violation on another constraint",
			err:     &pq.Error{Code: "23505", Constraint: "appointments_cancellation_token_key"},
			want:    ErrExecQuery,
			notWant: ErrSlotTaken,
		},
		{
			name: "serialization failure",
			err:  &pq.Error{Code: "40001"},
			want: ErrSerialization,
		},
		{
			name: "deadlock",
			err:  &pq.Error{Code: "40P01"},
			want: ErrSerialization,
		},
		{
			name:    "foreign key violation",
			err:     &pq.Error{Code: "23503", Constraint: "appointments_service_id_fkey"},
			want:    ErrExecQuery,
			notWant: ErrSerialization,
		},
		{
			name: "driver error",
			err:  errors.New("connection reset by peer"),
			want: ErrExecQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyWriteError("Create", tt.err)

			assert.ErrorIs(t, err, tt.want)
			if tt.notWant != nil {
				assert.NotErrorIs(t, err, tt.notWant)
			}
		})
	}
}

func TestClassifyWriteErrorKeepsDriverError(t *testing.T) {
	cause := &pq.Error{Code: "40001"}

	err := classifyWriteError("Create", cause)

	var pqErr *pq.Error
	require.True(t, errors.As(err, &pqErr))
	assert.Equal(t, pq.ErrorCode("40001"), pqErr.Code)
}
