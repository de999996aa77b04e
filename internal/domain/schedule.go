package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/BarberBookingService/pkg/types"
)

// ErrInvalidSchedule возвращается при некорректных часах работы, перерывах или блокировках
var ErrInvalidSchedule = errors.New("invalid schedule")

// Interval промежуток времени суток [Start, End)
type Interval struct {
	Start types.TimeString
	End   types.TimeString
}

// Validate проверяет формат границ и Start < End
func (i Interval) Validate() error {
	if err := i.Start.Validate(); err != nil {
		return fmt.Errorf("%w: start: %v", ErrInvalidSchedule, err)
	}
	if err := i.End.Validate(); err != nil {
		return fmt.Errorf("%w: end: %v", ErrInvalidSchedule, err)
	}
	if !i.Start.IsBefore(i.End) {
		return fmt.Errorf("%w: start %s must be before end %s", ErrInvalidSchedule, i.Start, i.End)
	}
	return nil
}

// WorkingDay часы работы для одного дня недели
type WorkingDay struct {
	DayOfWeek time.Weekday // Sunday = 0
	IsWorking bool
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Hours returns the working interval, nil for a day off
func (w *WorkingDay) Hours() *Interval {
	if !w.IsWorking {
		return nil
	}
	return &Interval{Start: w.StartTime, End: w.EndTime}
}

// Validate для нерабочего дня время не проверяется
func (w *WorkingDay) Validate() error {
	if w.DayOfWeek < time.Sunday || w.DayOfWeek > time.Saturday {
		return fmt.Errorf("%w: day of week %d out of range", ErrInvalidSchedule, w.DayOfWeek)
	}
	if !w.IsWorking {
		return nil
	}
	return Interval{Start: w.StartTime, End: w.EndTime}.Validate()
}

// BreakSlot ежедневный перерыв, действует для всех рабочих дней
type BreakSlot struct {
	StartTime   types.TimeString
	EndTime     types.TimeString
	Description string
}

func (b BreakSlot) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

func (b BreakSlot) Validate() error {
	if len(b.Description) > MaxBreakDescriptionLength {
		return fmt.Errorf("%w: break description is too long", ErrInvalidSchedule)
	}
	return b.Interval().Validate()
}

// Settings единственная запись с общими настройками заведения
type Settings struct {
	Breaks    []BreakSlot
	UpdatedAt time.Time
}

// BreakIntervals returns the breaks as plain intervals
func (s *Settings) BreakIntervals() []Interval {
	if s == nil {
		return nil
	}
	out := make([]Interval, 0, len(s.Breaks))
	for _, b := range s.Breaks {
		out = append(out, b.Interval())
	}
	return out
}

// BlockedDate заблокированный день (или часть дня)
type BlockedDate struct {
	ID        int64
	Date      types.LocalDate
	AllDay    bool
	StartTime *types.TimeString // только при AllDay = false
	EndTime   *types.TimeString
	Reason    string
	CreatedAt time.Time
}

// PartialInterval returns the blocked part of the day for a partial block.
// ok is false when the block covers the whole day.
func (b *BlockedDate) PartialInterval() (Interval, bool) {
	if b.AllDay || b.StartTime == nil || b.EndTime == nil {
		return Interval{}, false
	}
	i := Interval{Start: *b.StartTime, End: *b.EndTime}
	if i.Validate() != nil {
		return Interval{}, false
	}
	return i, true
}

// BlocksWholeDay блокировка без корректного интервала считается блокировкой всего дня
func (b *BlockedDate) BlocksWholeDay() bool {
	_, partial := b.PartialInterval()
	return !partial
}

// Validate проверяет данные, пришедшие от администратора
func (b *BlockedDate) Validate() error {
	if b.Date.IsZero() {
		return fmt.Errorf("%w: blocked date is required", ErrInvalidSchedule)
	}
	if len(b.Reason) > MaxBlockReasonLength {
		return fmt.Errorf("%w: reason is too long", ErrInvalidSchedule)
	}
	if b.AllDay {
		return nil
	}
	if b.StartTime == nil || b.EndTime == nil {
		return fmt.Errorf("%w: start and end time are required for a partial block", ErrInvalidSchedule)
	}
	return Interval{Start: *b.StartTime, End: *b.EndTime}.Validate()
}

// DayContext все, что нужно для построения сетки слотов на конкретную дату
type DayContext struct {
	Date        types.LocalDate
	IsBlocked   bool
	BlockReason string

	// WorkingHours nil для выходного дня
	WorkingHours *Interval

	BreakIntervals []Interval

	// BlockedIntervals частичные блокировки дня, слоты внутри них недоступны как перерывы
	BlockedIntervals []Interval
}

// Status итоговое состояние дня для ответа API
func (c *DayContext) Status() DayStatus {
	switch {
	case c.IsBlocked:
		return DayStatusBlocked
	case c.WorkingHours == nil:
		return DayStatusClosed
	default:
		return DayStatusOpen
	}
}
