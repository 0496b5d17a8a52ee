package backing

import "errors"

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = errors.New("resource not found")

	// ErrAccessDenied возвращается, когда пользователь не администрирует локацию ресурса
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	// В том числе при нарушении порядка интервалов поддержек
	ErrInternal = errors.New("service: internal error")
)
