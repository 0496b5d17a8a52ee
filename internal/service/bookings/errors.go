package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrLocationNotFound возвращается, когда локация не найдена
	ErrLocationNotFound = errors.New("location not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotTransition возвращается, когда переход в статус недопустим
	ErrCannotTransition = errors.New("booking cannot change to this status")

	// ErrNotAvailable возвращается, когда на даты проживания нет свободных мест
	ErrNotAvailable = errors.New("resource is not available for these dates")

	// ErrInvalidStatus возвращается при попытке установить недопустимый статус
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
