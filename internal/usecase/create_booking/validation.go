package create_booking

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
	"github.com/m04kA/SMC-LodgingService/pkg/dates"
)

const maxPurposeLength = 500

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	if req.Arrive.IsZero() || req.Depart.IsZero() {
		return fmt.Errorf("%w: arrive and depart are required", ErrInvalidInput)
	}

	if !dates.NewRange(req.Arrive, req.Depart).IsValid() {
		return fmt.Errorf("%w: %v", ErrInvalidDate, domain.ErrInvalidDateRange)
	}

	if utf8.RuneCountInString(req.Purpose) > maxPurposeLength {
		return fmt.Errorf("%w: purpose is longer than %d characters", ErrInvalidInput, maxPurposeLength)
	}

	if req.Comments != nil && utf8.RuneCountInString(*req.Comments) > domain.MaxCommentsLength {
		return fmt.Errorf("%w: comments are longer than %d characters", ErrInvalidInput, domain.MaxCommentsLength)
	}

	return nil
}

// validateStay проверяет даты проживания относительно сегодняшнего дня локации
func validateStay(arrive, depart, today time.Time, maxBookingDays int) error {
	if arrive.Before(today) {
		return fmt.Errorf("%w: arrival is in the past", ErrInvalidDate)
	}

	if maxBookingDays <= 0 {
		maxBookingDays = domain.DefaultMaxBookingDays
	}

	if nights := dates.DaysBetween(arrive, depart); nights > maxBookingDays {
		return fmt.Errorf("%w: %d nights requested, at most %d allowed", ErrStayTooLong, nights, maxBookingDays)
	}

	return nil
}
