package get_bill

import (
	"context"

	"github.com/m04kA/SMC-LodgingService/internal/service/billing/models"
)

type BillingService interface {
	GetBill(ctx context.Context, billID, userID int64) (*models.BillResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
