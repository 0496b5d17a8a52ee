package backing

import "errors"

var (
	// ErrBackingNotFound возвращается, когда поддержка не найдена
	ErrBackingNotFound = errors.New("backing.repository: backing not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("backing.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("backing.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("backing.repository: failed to scan row")
)
