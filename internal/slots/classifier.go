package slots

import (
	"time"

	"github.com/m04kA/BarberBookingService/internal/domain"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

// BookedSet времена (HH:MM) активных записей за день
type BookedSet map[types.TimeString]struct{}

// Has занято ли время
func (s BookedSet) Has(t types.TimeString) bool {
	_, ok := s[t]
	return ok
}

// BookedTimes собирает локальные HH:MM активных записей, попадающих на date.
// Записи других дней и неактивные записи пропускаются.
func BookedTimes(appointments []*domain.Appointment, date types.LocalDate, loc *time.Location) BookedSet {
	set := make(BookedSet, len(appointments))
	for _, a := range appointments {
		if a == nil || !a.IsActive() {
			continue
		}
		local := a.Date.In(loc)
		if !types.LocalDateOf(local, loc).Equal(date) {
			continue
		}
		set[types.NewTimeString(local)] = struct{}{}
	}
	return set
}

// ClassifyInput данные для разметки слотов одного дня
type ClassifyInput struct {
	Date       types.LocalDate
	Candidates []types.TimeString

	// Breaks перерывы и частичные блокировки дня
	Breaks []domain.Interval
	Booked BookedSet

	Now      time.Time
	Location *time.Location
}

// Classify размечает каждый кандидат статусом. Приоритет: break, past, booked, available.
// Порядок слотов сохраняется.
func Classify(in ClassifyInput) []domain.Slot {
	loc := in.Location
	if loc == nil {
		loc = time.Local
	}

	today := types.LocalDateOf(in.Now, loc)
	result := make([]domain.Slot, 0, len(in.Candidates))

	for _, candidate := range in.Candidates {
		result = append(result, domain.Slot{
			Time:   candidate,
			Status: classifyOne(in, candidate, today, loc),
		})
	}

	return result
}

func classifyOne(in ClassifyInput, candidate types.TimeString, today types.LocalDate, loc *time.Location) domain.SlotStatus {
	if inAnyInterval(candidate, in.Breaks) {
		return domain.SlotBreak
	}

	if isPast(in.Date, candidate, today, in.Now, loc) {
		return domain.SlotPast
	}

	if in.Booked.Has(candidate) {
		return domain.SlotBooked
	}

	return domain.SlotAvailable
}

// inAnyInterval проверка [start, end). Для перерывов, выровненных по сетке,
// совпадает с принадлежностью множеству Generate(start, end, step).
func inAnyInterval(t types.TimeString, intervals []domain.Interval) bool {
	for _, i := range intervals {
		if !t.IsBefore(i.Start) && t.IsBefore(i.End) {
			return true
		}
	}
	return false
}

// isPast сегодня сравниваются моменты времени (слот <= now).
// Дата раньше сегодняшней целиком past: на нее нельзя записаться, хотя сетку можно посмотреть.
func isPast(date types.LocalDate, candidate types.TimeString, today types.LocalDate, now time.Time, loc *time.Location) bool {
	if date.Before(today) {
		return true
	}
	if !date.Equal(today) {
		return false
	}

	at, err := date.At(candidate, loc)
	if err != nil {
		return true
	}
	return !at.After(now)
}

// Find ищет слот по времени начала
func Find(slots []domain.Slot, t types.TimeString) (domain.Slot, bool) {
	for _, s := range slots {
		if s.Time == t {
			return s, true
		}
	}
	return domain.Slot{}, false
}
