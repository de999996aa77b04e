package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/BarberBookingService/pkg/types"
)

func ts(s string) *types.TimeString {
	t := types.TimeString(s)
	return &t
}

func TestAppointmentTransitions(t *testing.T) {
	tests := []struct {
		from AppointmentStatus
		to   AppointmentStatus
		want bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCompleted, StatusCancelled, false},
	}

	for _, tt := range tests {
		a := &Appointment{Status: tt.from}
		assert.Equal(t, tt.want, a.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestAppointmentIsActive(t *testing.T) {
	assert.True(t, (&Appointment{Status: StatusPending}).IsActive())
	assert.True(t, (&Appointment{Status: StatusConfirmed}).IsActive())
	assert.False(t, (&Appointment{Status: StatusCancelled}).IsActive())
	assert.False(t, (&Appointment{Status: StatusCompleted}).IsActive())
}

func TestSlotKey(t *testing.T) {
	base := time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC)

	assert.Equal(t, base, SlotKey(base, 30*time.Minute))
	assert.Equal(t, base, SlotKey(base.Add(29*time.Minute), 30*time.Minute))
	assert.Equal(t, base.Add(30*time.Minute), SlotKey(base.Add(30*time.Minute), 30*time.Minute))
}

func TestBlockedDate(t *testing.T) {
	date := types.NewLocalDate(2025, 3, 10)

	tests := []struct {
		name     string
		block    BlockedDate
		wholeDay bool
		validErr bool
	}{
		{name: "all day", block: BlockedDate{Date: date, AllDay: true}, wholeDay: true},
		{name: "partial", block: BlockedDate{Date: date, StartTime: ts("10:00"), EndTime: ts("12:00")}},
		{name: "partial without times", block: BlockedDate{Date: date}, wholeDay: true, validErr: true},
		{name: "partial reversed", block: BlockedDate{Date: date, StartTime: ts("12:00"), EndTime: ts("10:00")}, wholeDay: true, validErr: true},
		{name: "no date", block: BlockedDate{AllDay: true}, wholeDay: true, validErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wholeDay, tt.block.BlocksWholeDay())
			err := tt.block.Validate()
			if tt.validErr {
				assert.ErrorIs(t, err, ErrInvalidSchedule)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWorkingDayValidate(t *testing.T) {
	assert.NoError(t, (&WorkingDay{DayOfWeek: time.Sunday}).Validate())
	assert.NoError(t, (&WorkingDay{DayOfWeek: time.Monday, IsWorking: true, StartTime: "09:00", EndTime: "17:00"}).Validate())
	assert.ErrorIs(t, (&WorkingDay{DayOfWeek: time.Monday, IsWorking: true, StartTime: "17:00", EndTime: "09:00"}).Validate(), ErrInvalidSchedule)
	assert.ErrorIs(t, (&WorkingDay{DayOfWeek: 7}).Validate(), ErrInvalidSchedule)
	assert.Nil(t, (&WorkingDay{DayOfWeek: time.Monday}).Hours())
}

func TestDayContextStatus(t *testing.T) {
	assert.Equal(t, DayStatusBlocked, (&DayContext{IsBlocked: true, WorkingHours: &Interval{}}).Status())
	assert.Equal(t, DayStatusClosed, (&DayContext{}).Status())
	assert.Equal(t, DayStatusOpen, (&DayContext{WorkingHours: &Interval{Start: "09:00", End: "17:00"}}).Status())
}
