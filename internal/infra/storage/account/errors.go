package account

import "errors"

var (
	// ErrAccountNotFound возвращается, когда счёт не найден
	ErrAccountNotFound = errors.New("account.repository: account not found")

	// ErrCurrencyNotFound возвращается, когда валюта не найдена
	ErrCurrencyNotFound = errors.New("account.repository: currency not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("account.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("account.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("account.repository: failed to scan row")
)
