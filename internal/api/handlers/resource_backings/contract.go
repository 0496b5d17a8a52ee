package resource_backings

import (
	"context"

	"github.com/m04kA/SMC-LodgingService/internal/service/backing/models"
)

type BackingService interface {
	SetNextBacking(ctx context.Context, req *models.SetNextBackingRequest) (*models.BackingResponse, error)
	ListBackings(ctx context.Context, resourceID, userID int64) (*models.ResourceBackingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
