package get_payment_fees

import (
	"context"

	"github.com/m04kA/SMC-LodgingService/internal/service/billing/models"
)

type BillingService interface {
	PaymentFees(ctx context.Context, billID, userID int64) ([]models.PaymentFeesResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
