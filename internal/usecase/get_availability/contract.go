package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
)

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	ListByLocation(ctx context.Context, locationID int64) ([]*domain.Resource, error)
}

// LocationRepository интерфейс репозитория локаций
type LocationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Location, error)
}

// CapacityRepository интерфейс репозитория вместимости
type CapacityRepository interface {
	ListByResources(ctx context.Context, resourceIDs []int64) ([]domain.CapacityChange, error)
}

// UseRepository интерфейс репозитория проживаний
type UseRepository interface {
	List(ctx context.Context, filter domain.UsesFilter) ([]*domain.Use, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
