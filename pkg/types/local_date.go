package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ErrInvalidLocalDate возвращается при некорректной календарной дате (ожидается YYYY-MM-DD)
var ErrInvalidLocalDate = errors.New("invalid local date")

// LocalDate календарная дата в часовом поясе барбершопа.
// Не является моментом времени: перевод в time.Time выполняется только явно
// через StartOfDay/At с указанием локации.
type LocalDate struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseLocalDate парсит строку YYYY-MM-DD
func ParseLocalDate(s string) (LocalDate, error) {
	if len(s) != len(dateLayout) {
		return LocalDate{}, fmt.Errorf("%w: %q", ErrInvalidLocalDate, s)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return LocalDate{}, fmt.Errorf("%w: %q", ErrInvalidLocalDate, s)
	}
	return LocalDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// NewLocalDate создает дату из компонентов
func NewLocalDate(year int, month time.Month, day int) LocalDate {
	return LocalDate{Year: year, Month: month, Day: day}
}

// LocalDateOf возвращает календарную дату момента t в локации loc
func LocalDateOf(t time.Time, loc *time.Location) LocalDate {
	y, m, d := t.In(loc).Date()
	return LocalDate{Year: y, Month: m, Day: d}
}

// IsZero возвращает true для незаданной даты
func (d LocalDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Weekday день недели (Sunday = 0), вычисляется без привязки к часовому поясу
func (d LocalDate) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Weekday()
}

// StartOfDay локальная полночь этой даты
func (d LocalDate) StartOfDay(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// At момент времени для указанного времени суток этой даты в локации loc
func (d LocalDate) At(ts TimeString, loc *time.Location) (time.Time, error) {
	minutes, err := ts.Minutes()
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year, d.Month, d.Day, minutes/60, minutes%60, 0, 0, loc), nil
}

// AddDays сдвигает дату на n календарных дней
func (d LocalDate) AddDays(n int) LocalDate {
	t := time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC)
	return LocalDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Equal сравнивает даты
func (d LocalDate) Equal(other LocalDate) bool {
	return d == other
}

// Before возвращает true, если d строго раньше other
func (d LocalDate) Before(other LocalDate) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d LocalDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Scan реализует sql.Scanner для колонки DATE.
// lib/pq отдает DATE как time.Time в UTC, компоненты берутся без конвертации.
func (d *LocalDate) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = LocalDate{}
		return nil
	case time.Time:
		y, m, day := v.Date()
		*d = LocalDate{Year: y, Month: m, Day: day}
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidLocalDate, src)
	}
}

func (d *LocalDate) scanString(s string) error {
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	parsed, err := ParseLocalDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value реализует driver.Valuer
func (d LocalDate) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// MarshalJSON сериализует дату как "YYYY-MM-DD"
func (d LocalDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON парсит дату из "YYYY-MM-DD"
func (d *LocalDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLocalDate, err)
	}
	parsed, err := ParseLocalDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
