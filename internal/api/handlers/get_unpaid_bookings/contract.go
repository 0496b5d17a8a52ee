package get_unpaid_bookings

import (
	"context"

	"github.com/m04kA/SMC-LodgingService/internal/service/bookings/models"
)

type BookingService interface {
	UnpaidBookings(ctx context.Context, locationID, userID int64) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
