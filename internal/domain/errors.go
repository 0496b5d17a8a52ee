package domain

import "errors"

var (
	// ErrBackingOverlap нарушение инварианта: поддержки ресурса не должны пересекаться во времени
	// Это ошибка целостности данных, а не пользовательская ошибка
	ErrBackingOverlap = errors.New("domain: backing overlaps existing backings")

	// ErrInvalidDateRange дата выезда не позже даты заезда
	ErrInvalidDateRange = errors.New("domain: departure must be after arrival")

	// ErrInvalidStatus неизвестный статус проживания
	ErrInvalidStatus = errors.New("domain: invalid use status")

	// ErrNotAccountOwner пользователь не является владельцем счёта
	ErrNotAccountOwner = errors.New("domain: user is not an owner of the account")

	// ErrNoBackers поддержка должна иметь хотя бы одного участника
	ErrNoBackers = errors.New("domain: backing requires at least one backer")
)
