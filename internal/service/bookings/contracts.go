package bookings

import (
	"context"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUseID(ctx context.Context, useID int64) (*domain.Booking, error)
}

// UseRepository интерфейс репозитория проживаний
type UseRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Use, error)
	List(ctx context.Context, filter domain.UsesFilter) ([]*domain.Use, error)
	UpdateStatus(ctx context.Context, id int64, status domain.UseStatus) error
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// LocationRepository интерфейс репозитория локаций
type LocationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Location, error)
}

// CapacityRepository интерфейс репозитория вместимости
type CapacityRepository interface {
	ListByResources(ctx context.Context, resourceIDs []int64) ([]domain.CapacityChange, error)
}

// BillRepository интерфейс репозитория счетов
type BillRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Bill, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
