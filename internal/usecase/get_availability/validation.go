package get_availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
	"github.com/m04kA/SMC-LodgingService/pkg/dates"
)

// window окно дат запроса с подстановкой значений по умолчанию
// Без даты выезда окно длится DefaultAvailabilityDays дней от заезда,
// окно длиннее MaxAvailabilityDays отклоняется
func window(arrive, depart *time.Time, today time.Time) (time.Time, time.Time, error) {
	start := today
	if arrive != nil {
		start = dates.Day(*arrive)
	}

	end := start.AddDate(0, 0, domain.DefaultAvailabilityDays)
	if depart != nil {
		end = dates.Day(*depart)
	}

	if !dates.NewRange(start, end).IsValid() {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: depart must be after arrive", ErrInvalidDate)
	}
	if dates.DaysBetween(start, end) > domain.MaxAvailabilityDays {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: window longer than %d days", ErrInvalidDate, domain.MaxAvailabilityDays)
	}
	return start, end, nil
}
