package billing

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrBillNotFound возвращается, когда счёт не найден
	ErrBillNotFound = errors.New("bill not found")

	// ErrLineItemNotFound возвращается, когда строка счёта не найдена или не является сбором
	ErrLineItemNotFound = errors.New("fee line item not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
