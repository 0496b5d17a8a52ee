package get_capacity

import (
	"context"

	"github.com/m04kA/SMC-LodgingService/internal/service/capacity/models"
)

type CapacityService interface {
	GetByID(ctx context.Context, capacityID int64) (*models.CapacityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
