package create_appointment

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrServiceNotFound возвращается, когда услуга не найдена или отключена
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrDayBlocked возвращается, когда день заблокирован администратором
	ErrDayBlocked = errors.New("create_appointment: day is blocked")

	// ErrOutsideWorkingHours возвращается для выходного дня или времени вне часов работы
	ErrOutsideWorkingHours = errors.New("create_appointment: outside working hours")

	// ErrNotOnSlotGrid возвращается, когда время не совпадает с началом слота
	ErrNotOnSlotGrid = errors.New("create_appointment: time is not on the slot grid")

	// ErrInBreak возвращается, когда слот попадает в перерыв или частичную блокировку
	ErrInBreak = errors.New("create_appointment: slot is in a break")

	// ErrInPast возвращается, когда время записи уже наступило
	ErrInPast = errors.New("create_appointment: slot is in the past")

	// ErrSlotConflict возвращается, когда слот занят другой активной записью
	ErrSlotConflict = errors.New("create_appointment: slot conflict")

	// ErrPersistenceUnavailable возвращается, когда хранилище не ответило
	ErrPersistenceUnavailable = errors.New("create_appointment: persistence unavailable")
)
