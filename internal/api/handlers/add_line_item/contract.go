package add_line_item

import (
	"context"

	"github.com/m04kA/SMC-LodgingService/internal/service/billing/models"
)

type BillingService interface {
	AddCustomItem(ctx context.Context, req *models.CustomItemRequest) (*models.BillResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
