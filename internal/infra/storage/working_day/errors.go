package working_day

import "errors"

var (
	// ErrWorkingDayNotFound возвращается, когда для дня недели нет записи
	ErrWorkingDayNotFound = errors.New("working_day.repository: working day not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("working_day.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("working_day.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("working_day.repository: failed to scan row")
)
