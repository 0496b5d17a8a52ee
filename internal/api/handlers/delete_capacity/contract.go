package delete_capacity

import (
	"context"

	"github.com/m04kA/SMC-LodgingService/internal/service/capacity/models"
)

type CapacityService interface {
	Delete(ctx context.Context, capacityID, userID int64) (*models.CommandResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
