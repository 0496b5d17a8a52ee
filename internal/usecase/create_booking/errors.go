package create_booking

import "errors"

var (
	// ErrResourceNotFound возвращается, когда ресурс или его локация не найдены
	ErrResourceNotFound = errors.New("create_booking: resource not found")

	// ErrInvalidDate возвращается, когда дата заезда в прошлом или выезд не позже заезда
	ErrInvalidDate = errors.New("create_booking: invalid booking dates")

	// ErrStayTooLong возвращается, когда проживание длиннее max_booking_days локации
	ErrStayTooLong = errors.New("create_booking: stay is longer than allowed")

	// ErrNotAvailable возвращается, когда на ресурсе нет места хотя бы на одну ночь
	ErrNotAvailable = errors.New("create_booking: resource is not available for these dates")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
