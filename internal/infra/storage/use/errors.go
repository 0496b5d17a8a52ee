package use

import "errors"

var (
	// ErrUseNotFound возвращается, когда проживание не найдено
	ErrUseNotFound = errors.New("use.repository: use not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("use.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("use.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("use.repository: failed to scan row")
)
