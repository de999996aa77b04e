package notifier

import "errors"

var (
	// ErrPublish возвращается, когда событие не удалось отправить в Kafka
	ErrPublish = errors.New("notifier: failed to publish event")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notifier: internal error")

	// ErrInvalidResponse возвращается при неуспешном ответе webhook
	ErrInvalidResponse = errors.New("notifier: invalid webhook response")
)
