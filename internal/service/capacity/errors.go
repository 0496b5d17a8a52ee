package capacity

import "errors"

var (
	// ErrCapacityNotFound возвращается, когда изменение вместимости не найдено
	// или пользователь не администрирует локацию ресурса
	ErrCapacityNotFound = errors.New("capacity not found")

	// ErrResourceNotFound возвращается, когда ресурс не найден
	// или пользователь не администрирует его локацию
	ErrResourceNotFound = errors.New("resource not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

// Сообщения, возвращаемые клиенту в CommandResult
const (
	msgWouldNotChange = "This capacity change would not change the previous capacity"
	msgNextRemovedFmt = "The capacity change on %s had the same values and was removed"
	msgNotFound       = "Capacity change not found"
)
