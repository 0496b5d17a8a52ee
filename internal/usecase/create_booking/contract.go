package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
	billingModels "github.com/m04kA/SMC-LodgingService/internal/service/billing/models"
)

// UseRepository интерфейс репозитория проживаний
type UseRepository interface {
	Create(ctx context.Context, use *domain.Use) (*domain.Use, error)
	List(ctx context.Context, filter domain.UsesFilter) ([]*domain.Use, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// BillRepository интерфейс репозитория счетов
type BillRepository interface {
	Create(ctx context.Context) (*domain.Bill, error)
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// LocationRepository интерфейс репозитория локаций
type LocationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Location, error)
	GetFees(ctx context.Context, locationID int64) ([]domain.Fee, error)
}

// CapacityRepository интерфейс репозитория вместимости
type CapacityRepository interface {
	ListByResources(ctx context.Context, resourceIDs []int64) ([]domain.CapacityChange, error)
}

// BillGenerator генерация счёта бронирования (сервис счетов)
type BillGenerator interface {
	GenerateBill(ctx context.Context, bookingID int64, opts billingModels.GenerateOptions) (*domain.Bill, error)
}

// DrftBalanceProvider баланс DRFT пользователя (сервис счетов пользователей)
type DrftBalanceProvider interface {
	DrftBalance(ctx context.Context, userID int64) (float64, error)
}

// Metrics счётчик созданных бронирований
type Metrics interface {
	IncBookingsCreated(status string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
