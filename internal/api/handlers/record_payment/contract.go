package record_payment

import (
	"context"

	"github.com/m04kA/SMC-LodgingService/internal/service/billing/models"
)

type BillingService interface {
	RecordPayment(ctx context.Context, req *models.RecordPaymentRequest) (*models.PaymentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
