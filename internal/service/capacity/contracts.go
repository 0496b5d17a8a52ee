package capacity

import (
	"context"
	"time"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
)

// CapacityRepository интерфейс репозитория изменений вместимости
type CapacityRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.CapacityChange, error)
	GetByResourceAndStart(ctx context.Context, resourceID int64, start time.Time) (*domain.CapacityChange, error)
	ListByResources(ctx context.Context, resourceIDs []int64) ([]domain.CapacityChange, error)
	Create(ctx context.Context, change *domain.CapacityChange) (*domain.CapacityChange, error)
	Update(ctx context.Context, change *domain.CapacityChange) error
	Delete(ctx context.Context, id int64) error
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// LocationRepository интерфейс репозитория локаций
type LocationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Location, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счётчики изменений вместимости
type Metrics interface {
	IncCapacityChange(outcome string)
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
