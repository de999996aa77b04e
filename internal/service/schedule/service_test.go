package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BarberBookingService/internal/domain"
	blockedDateRepo "github.com/m04kA/BarberBookingService/internal/infra/storage/blocked_date"
	workingDayRepo "github.com/m04kA/BarberBookingService/internal/infra/storage/working_day"
	"github.com/m04kA/BarberBookingService/internal/service/schedule/models"
	"github.com/m04kA/BarberBookingService/pkg/logger"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

type mockWorkingDays struct{ mock.Mock }

func (m *mockWorkingDays) GetByDayOfWeek(ctx context.Context, day time.Weekday) (*domain.WorkingDay, error) {
	args := m.Called(ctx, day)
	wd, _ := args.Get(0).(*domain.WorkingDay)
	return wd, args.Error(1)
}

func (m *mockWorkingDays) List(ctx context.Context) ([]*domain.WorkingDay, error) {
	args := m.Called(ctx)
	days, _ := args.Get(0).([]*domain.WorkingDay)
	return days, args.Error(1)
}

func (m *mockWorkingDays) ReplaceAll(ctx context.Context, days []domain.WorkingDay) error {
	return m.Called(ctx, days).Error(0)
}

type mockSettings struct{ mock.Mock }

func (m *mockSettings) Get(ctx context.Context) (*domain.Settings, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*domain.Settings)
	return s, args.Error(1)
}

func (m *mockSettings) ReplaceBreaks(ctx context.Context, breaks []domain.BreakSlot) error {
	return m.Called(ctx, breaks).Error(0)
}

type mockBlockedDates struct{ mock.Mock }

func (m *mockBlockedDates) GetByDate(ctx context.Context, date types.LocalDate) ([]*domain.BlockedDate, error) {
	args := m.Called(ctx, date)
	list, _ := args.Get(0).([]*domain.BlockedDate)
	return list, args.Error(1)
}

func (m *mockBlockedDates) List(ctx context.Context, from, to *types.LocalDate) ([]*domain.BlockedDate, error) {
	args := m.Called(ctx, from, to)
	list, _ := args.Get(0).([]*domain.BlockedDate)
	return list, args.Error(1)
}

func (m *mockBlockedDates) Create(ctx context.Context, b *domain.BlockedDate) (*domain.BlockedDate, error) {
	args := m.Called(ctx, b)
	created, _ := args.Get(0).(*domain.BlockedDate)
	return created, args.Error(1)
}

func (m *mockBlockedDates) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	days     *mockWorkingDays
	settings *mockSettings
	blocked  *mockBlockedDates
	service  *Service
}

func newFixture() *fixture {
	f := &fixture{days: &mockWorkingDays{}, settings: &mockSettings{}, blocked: &mockBlockedDates{}}
	f.service = NewService(f.days, f.settings, f.blocked, passthroughTx{}, logger.NewNop())
	return f
}

// 2025-03-10 понедельник
var monday = types.NewLocalDate(2025, time.March, 10)

func strPtr(s string) *string { return &s }

func tsPtr(s string) *types.TimeString {
	t := types.TimeString(s)
	return &t
}

func TestResolveDayContextWorkingDay(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.blocked.On("GetByDate", ctx, monday).Return([]*domain.BlockedDate{}, nil)
	f.days.On("GetByDayOfWeek", ctx, time.Monday).
		Return(&domain.WorkingDay{DayOfWeek: time.Monday, IsWorking: true, StartTime: "09:00", EndTime: "17:00"}, nil)
	f.settings.On("Get", ctx).
		Return(&domain.Settings{Breaks: []domain.BreakSlot{{StartTime: "12:00", EndTime: "13:00"}}}, nil)

	dayCtx, err := f.service.ResolveDayContext(ctx, monday)
	require.NoError(t, err)

	assert.False(t, dayCtx.IsBlocked)
	require.NotNil(t, dayCtx.WorkingHours)
	assert.Equal(t, domain.Interval{Start: "09:00", End: "17:00"}, *dayCtx.WorkingHours)
	assert.Equal(t, []domain.Interval{{Start: "12:00", End: "13:00"}}, dayCtx.BreakIntervals)
	assert.Equal(t, domain.DayStatusOpen, dayCtx.Status())
}

func TestResolveDayContextAllDayBlockShortCircuits(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.blocked.On("GetByDate", ctx, monday).
		Return([]*domain.BlockedDate{{Date: monday, AllDay: true, Reason: "отпуск"}}, nil)

	dayCtx, err := f.service.ResolveDayContext(ctx, monday)
	require.NoError(t, err)

	assert.True(t, dayCtx.IsBlocked)
	assert.Equal(t, "отпуск", dayCtx.BlockReason)
	assert.Equal(t, domain.DayStatusBlocked, dayCtx.Status())
	f.days.AssertNotCalled(t, "GetByDayOfWeek", mock.Anything, mock.Anything)
	f.settings.AssertNotCalled(t, "Get", mock.Anything)
}

func TestResolveDayContextPartialBlock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.blocked.On("GetByDate", ctx, monday).Return([]*domain.BlockedDate{
		{Date: monday, StartTime: tsPtr("14:00"), EndTime: tsPtr("16:00")},
	}, nil)
	f.days.On("GetByDayOfWeek", ctx, time.Monday).
		Return(&domain.WorkingDay{DayOfWeek: time.Monday, IsWorking: true, StartTime: "09:00", EndTime: "17:00"}, nil)
	f.settings.On("Get", ctx).Return(&domain.Settings{}, nil)

	dayCtx, err := f.service.ResolveDayContext(ctx, monday)
	require.NoError(t, err)

	assert.False(t, dayCtx.IsBlocked)
	assert.Equal(t, []domain.Interval{{Start: "14:00", End: "16:00"}}, dayCtx.BlockedIntervals)
}

func TestResolveDayContextDayOff(t *testing.T) {
	tests := []struct {
		name string
		wd   *domain.WorkingDay
		err  error
	}{
		{name: "not working", wd: &domain.WorkingDay{DayOfWeek: time.Monday}},
		{name: "missing record", err: workingDayRepo.ErrWorkingDayNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()

			f.blocked.On("GetByDate", ctx, monday).Return([]*domain.BlockedDate{}, nil)
			f.days.On("GetByDayOfWeek", ctx, time.Monday).Return(tt.wd, tt.err)

			dayCtx, err := f.service.ResolveDayContext(ctx, monday)
			require.NoError(t, err)

			assert.Nil(t, dayCtx.WorkingHours)
			assert.Equal(t, domain.DayStatusClosed, dayCtx.Status())
			f.settings.AssertNotCalled(t, "Get", mock.Anything)
		})
	}
}

func TestResolveDayContextStorageError(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.blocked.On("GetByDate", ctx, monday).Return(nil, errors.New("connection refused"))

	_, err := f.service.ResolveDayContext(ctx, monday)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestReplaceWorkingHours(t *testing.T) {
	week := func() []models.WorkingDay {
		days := make([]models.WorkingDay, 0, 7)
		for d := 0; d < 7; d++ {
			if d == 0 {
				days = append(days, models.WorkingDay{DayOfWeek: d})
				continue
			}
			days = append(days, models.WorkingDay{DayOfWeek: d, IsWorking: true, StartTime: strPtr("09:00"), EndTime: strPtr("17:00")})
		}
		return days
	}

	t.Run("valid week", func(t *testing.T) {
		f := newFixture()
		f.days.On("ReplaceAll", mock.Anything, mock.MatchedBy(func(days []domain.WorkingDay) bool {
			return len(days) == 7 && !days[0].IsWorking && days[1].StartTime == "09:00"
		})).Return(nil)

		resp, err := f.service.ReplaceWorkingHours(context.Background(), &models.ReplaceWorkingHoursRequest{Days: week()})
		require.NoError(t, err)
		assert.Len(t, resp.Days, 7)
		assert.Nil(t, resp.Days[0].StartTime)
		f.days.AssertExpectations(t)
	})

	invalid := map[string]func([]models.WorkingDay) []models.WorkingDay{
		"six days":       func(d []models.WorkingDay) []models.WorkingDay { return d[:6] },
		"duplicate day":  func(d []models.WorkingDay) []models.WorkingDay { d[1].DayOfWeek = 2; return d },
		"reversed hours": func(d []models.WorkingDay) []models.WorkingDay { d[1].StartTime = strPtr("18:00"); return d },
		"missing time":   func(d []models.WorkingDay) []models.WorkingDay { d[2].EndTime = nil; return d },
		"bad format":     func(d []models.WorkingDay) []models.WorkingDay { d[3].StartTime = strPtr("9am"); return d },
	}

	for name, mutate := range invalid {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			_, err := f.service.ReplaceWorkingHours(context.Background(), &models.ReplaceWorkingHoursRequest{Days: mutate(week())})
			assert.ErrorIs(t, err, ErrInvalidInput)
			f.days.AssertNotCalled(t, "ReplaceAll", mock.Anything, mock.Anything)
		})
	}
}

func TestReplaceBreaksValidation(t *testing.T) {
	f := newFixture()

	_, err := f.service.ReplaceBreaks(context.Background(), &models.ReplaceBreaksRequest{
		Breaks: []models.BreakSlot{{StartTime: "13:00", EndTime: "12:00"}},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	f.settings.AssertNotCalled(t, "ReplaceBreaks", mock.Anything, mock.Anything)

	f.settings.On("ReplaceBreaks", mock.Anything, []domain.BreakSlot{{StartTime: "12:00", EndTime: "13:00", Description: "обед"}}).Return(nil)
	resp, err := f.service.ReplaceBreaks(context.Background(), &models.ReplaceBreaksRequest{
		Breaks: []models.BreakSlot{{StartTime: "12:00", EndTime: "13:00", Description: "обед"}},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Breaks, 1)
}

func TestCreateBlockedDate(t *testing.T) {
	f := newFixture()
	f.blocked.On("Create", mock.Anything, mock.AnythingOfType("*domain.BlockedDate")).
		Return(&domain.BlockedDate{ID: 7, Date: monday, AllDay: true, Reason: "праздник"}, nil)

	resp, err := f.service.CreateBlockedDate(context.Background(), &models.CreateBlockedDateRequest{
		Date: "2025-03-10", AllDay: true, Reason: "праздник",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, "2025-03-10", resp.Date)

	_, err = f.service.CreateBlockedDate(context.Background(), &models.CreateBlockedDateRequest{Date: "10.03.2025", AllDay: true})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.service.CreateBlockedDate(context.Background(), &models.CreateBlockedDateRequest{Date: "2025-03-10"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteBlockedDateNotFound(t *testing.T) {
	f := newFixture()
	f.blocked.On("Delete", mock.Anything, int64(3)).Return(blockedDateRepo.ErrBlockedDateNotFound)

	err := f.service.DeleteBlockedDate(context.Background(), 3)
	assert.ErrorIs(t, err, ErrBlockedDateNotFound)
}

func TestListBlockedDatesRejectsReversedRange(t *testing.T) {
	f := newFixture()
	from := monday
	to := monday.AddDays(-1)

	_, err := f.service.ListBlockedDates(context.Background(), &models.ListBlockedDatesRequest{From: &from, To: &to})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
