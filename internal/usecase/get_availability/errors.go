package get_availability

import "errors"

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = errors.New("get_availability: resource not found")

	// ErrLocationNotFound возвращается, когда локация не найдена
	ErrLocationNotFound = errors.New("get_availability: location not found")

	// ErrInvalidDate возвращается, когда дата выезда не позже даты заезда
	ErrInvalidDate = errors.New("get_availability: invalid date range")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
