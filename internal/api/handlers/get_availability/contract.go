package get_availability

import (
	"context"

	getAvailability "github.com/m04kA/SMC-LodgingService/internal/usecase/get_availability"
)

type GetAvailabilityUseCase interface {
	Resource(ctx context.Context, req *getAvailability.ResourceRequest) (*getAvailability.ResourceResponse, error)
	Location(ctx context.Context, req *getAvailability.LocationRequest) (*getAvailability.LocationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
