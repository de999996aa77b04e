package catalog

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или снята с продажи
	ErrServiceNotFound = errors.New("service not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
