package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BarberBookingService/internal/domain"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type stubResolver struct {
	dayCtx *domain.DayContext
	err    error
	calls  int
}

func (s *stubResolver) ResolveDayContext(_ context.Context, date types.LocalDate) (*domain.DayContext, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	c := *s.dayCtx
	c.Date = date
	return &c, nil
}

type stubAppointments struct {
	items    []*domain.Appointment
	err      error
	calls    int
	from, to time.Time
}

func (s *stubAppointments) ListActiveBetween(_ context.Context, from, to time.Time) ([]*domain.Appointment, error) {
	s.calls++
	s.from, s.to = from, to
	return s.items, s.err
}

// 2025-03-10 понедельник, рабочий день 09:00-17:00
func openMonday() *domain.DayContext {
	return &domain.DayContext{WorkingHours: &domain.Interval{Start: "09:00", End: "17:00"}}
}

func newTestUseCase(resolver *stubResolver, repo *stubAppointments, now time.Time) *UseCase {
	uc := NewUseCase(resolver, repo, time.UTC, 30, nopLogger{})
	uc.timeProvider = fixedTime{now: now}
	return uc
}

func statusOf(t *testing.T, resp *Response, at types.TimeString) domain.SlotStatus {
	t.Helper()
	for _, s := range resp.Slots {
		if s.Time == at {
			return s.Status
		}
	}
	t.Fatalf("slot %s not found", at)
	return ""
}

func TestExecute_FutureDayAllAvailable(t *testing.T) {
	uc := newTestUseCase(&stubResolver{dayCtx: openMonday()}, &stubAppointments{},
		time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{Date: "2025-03-10"})
	require.NoError(t, err)

	assert.Equal(t, domain.DayStatusOpen, resp.DayStatus)
	require.Len(t, resp.Slots, 16)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].Time)
	assert.Equal(t, types.TimeString("16:30"), resp.Slots[15].Time)
	for _, s := range resp.Slots {
		assert.Equal(t, domain.SlotAvailable, s.Status, s.Time)
	}
}

func TestExecute_BookedSlot(t *testing.T) {
	repo := &stubAppointments{items: []*domain.Appointment{
		{ID: 1, Date: time.Date(2025, time.March, 10, 11, 0, 0, 0, time.UTC), Status: domain.StatusConfirmed},
	}}
	uc := newTestUseCase(&stubResolver{dayCtx: openMonday()}, repo,
		time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{Date: "2025-03-10"})
	require.NoError(t, err)

	assert.Equal(t, domain.SlotBooked, statusOf(t, resp, "11:00"))
	assert.Equal(t, domain.SlotAvailable, statusOf(t, resp, "10:30"))
	assert.Equal(t, domain.SlotAvailable, statusOf(t, resp, "11:30"))

	// Запрос охватывает ровно локальные сутки
	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), repo.from)
	assert.Equal(t, time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC), repo.to)
}

func TestExecute_BreakBeatsBooking(t *testing.T) {
	dayCtx := openMonday()
	dayCtx.BreakIntervals = []domain.Interval{{Start: "12:00", End: "13:00"}}
	repo := &stubAppointments{items: []*domain.Appointment{
		{ID: 1, Date: time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC), Status: domain.StatusPending},
	}}
	uc := newTestUseCase(&stubResolver{dayCtx: dayCtx}, repo,
		time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{Date: "2025-03-10"})
	require.NoError(t, err)

	assert.Equal(t, domain.SlotBreak, statusOf(t, resp, "12:00"))
	assert.Equal(t, domain.SlotBreak, statusOf(t, resp, "12:30"))
	assert.Equal(t, domain.SlotAvailable, statusOf(t, resp, "13:00"))
}

func TestExecute_PartialBlockIsBreak(t *testing.T) {
	dayCtx := openMonday()
	dayCtx.BlockedIntervals = []domain.Interval{{Start: "15:00", End: "17:00"}}
	uc := newTestUseCase(&stubResolver{dayCtx: dayCtx}, &stubAppointments{},
		time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{Date: "2025-03-10"})
	require.NoError(t, err)

	assert.Equal(t, domain.DayStatusOpen, resp.DayStatus)
	assert.Equal(t, domain.SlotAvailable, statusOf(t, resp, "14:30"))
	assert.Equal(t, domain.SlotBreak, statusOf(t, resp, "15:00"))
	assert.Equal(t, domain.SlotBreak, statusOf(t, resp, "16:30"))
}

func TestExecute_TodayPastSlots(t *testing.T) {
	uc := newTestUseCase(&stubResolver{dayCtx: openMonday()}, &stubAppointments{},
		time.Date(2025, time.March, 10, 14, 15, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{Date: "2025-03-10"})
	require.NoError(t, err)

	for _, s := range resp.Slots {
		if s.Time.IsAfter("14:15") {
			assert.Equal(t, domain.SlotAvailable, s.Status, s.Time)
			continue
		}
		assert.Equal(t, domain.SlotPast, s.Status, s.Time)
	}
}

func TestExecute_NonOpenDays(t *testing.T) {
	tests := []struct {
		name   string
		dayCtx *domain.DayContext
		want   domain.DayStatus
	}{
		{
			name:   "blocked all day",
			dayCtx: &domain.DayContext{IsBlocked: true, BlockReason: "отпуск", WorkingHours: &domain.Interval{Start: "09:00", End: "17:00"}},
			want:   domain.DayStatusBlocked,
		},
		{
			name:   "day off",
			dayCtx: &domain.DayContext{},
			want:   domain.DayStatusClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubAppointments{}
			uc := newTestUseCase(&stubResolver{dayCtx: tt.dayCtx}, repo,
				time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC))

			resp, err := uc.Execute(context.Background(), &Request{Date: "2025-03-10"})
			require.NoError(t, err)

			assert.Equal(t, tt.want, resp.DayStatus)
			assert.NotNil(t, resp.Slots)
			assert.Empty(t, resp.Slots)
			assert.Equal(t, 0, repo.calls)
		})
	}
}

func TestExecute_Idempotent(t *testing.T) {
	dayCtx := openMonday()
	dayCtx.BreakIntervals = []domain.Interval{{Start: "13:00", End: "14:00"}}
	repo := &stubAppointments{items: []*domain.Appointment{
		{ID: 1, Date: time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC), Status: domain.StatusConfirmed},
	}}
	uc := newTestUseCase(&stubResolver{dayCtx: dayCtx}, repo,
		time.Date(2025, time.March, 10, 9, 40, 0, 0, time.UTC))

	first, err := uc.Execute(context.Background(), &Request{Date: "2025-03-10"})
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), &Request{Date: "2025-03-10"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExecute_InvalidDate(t *testing.T) {
	for _, date := range []string{"", "  ", "2025-02-30", "10.03.2025", "2025-3-10"} {
		t.Run(date, func(t *testing.T) {
			resolver := &stubResolver{dayCtx: openMonday()}
			repo := &stubAppointments{}
			uc := newTestUseCase(resolver, repo, time.Now())

			_, err := uc.Execute(context.Background(), &Request{Date: date})

			assert.ErrorIs(t, err, ErrInvalidDate)
			assert.Equal(t, 0, resolver.calls)
			assert.Equal(t, 0, repo.calls)
		})
	}
}

func TestExecute_PersistenceErrors(t *testing.T) {
	t.Run("resolver", func(t *testing.T) {
		uc := newTestUseCase(&stubResolver{err: errors.New("connection refused")}, &stubAppointments{}, time.Now())

		_, err := uc.Execute(context.Background(), &Request{Date: "2025-03-10"})
		assert.ErrorIs(t, err, ErrPersistenceUnavailable)
	})

	t.Run("appointments", func(t *testing.T) {
		uc := newTestUseCase(&stubResolver{dayCtx: openMonday()},
			&stubAppointments{err: errors.New("connection refused")}, time.Now())

		_, err := uc.Execute(context.Background(), &Request{Date: "2025-03-10"})
		assert.ErrorIs(t, err, ErrPersistenceUnavailable)
	})
}
