package billing

import (
	"context"
	"time"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByBillID(ctx context.Context, billID int64) (*domain.Booking, error)
	UpdateRate(ctx context.Context, id int64, rate *float64) error
	AddSuppressedFee(ctx context.Context, bookingID, feeID int64) error
	ClearSuppressedFees(ctx context.Context, bookingID int64) error
}

// UseRepository интерфейс репозитория проживаний
type UseRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Use, error)
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

// BillRepository интерфейс репозитория счетов и платежей
type BillRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Bill, error)
	DeleteGeneratedItems(ctx context.Context, billID int64) error
	CreateLineItems(ctx context.Context, billID int64, items []domain.LineItem) error
	Touch(ctx context.Context, billID int64) error
	CreatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	ListPaymentsByTransaction(ctx context.Context, transactionID string) ([]domain.Payment, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счётчики счетов и платежей
type Metrics interface {
	IncBillsGenerated(mode string)
	IncPaymentRecorded(kind string)
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
