package get_available_slots

import "errors"

var (
	// ErrInvalidDate возвращается при пустой или некорректной дате (ожидается YYYY-MM-DD)
	ErrInvalidDate = errors.New("get_available_slots: invalid date")

	// ErrPersistenceUnavailable возвращается, когда хранилище не ответило.
	// Клиенту стоит повторить запрос позже.
	ErrPersistenceUnavailable = errors.New("get_available_slots: persistence unavailable")
)
