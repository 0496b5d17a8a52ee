package booking_rate

import (
	"context"

	"github.com/m04kA/SMC-LodgingService/internal/service/billing/models"
)

type BillingService interface {
	SetRate(ctx context.Context, req *models.SetRateRequest) (*models.BillResponse, error)
	ResetRate(ctx context.Context, bookingID, userID int64) (*models.BillResponse, error)
	Comp(ctx context.Context, bookingID, userID int64) (*models.BillResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
