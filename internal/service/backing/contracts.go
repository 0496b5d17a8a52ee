package backing

import (
	"context"
	"time"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
)

// BackingRepository интерфейс репозитория поддержек
type BackingRepository interface {
	ListByResource(ctx context.Context, resourceID int64) ([]domain.Backing, error)
	Create(ctx context.Context, b *domain.Backing) (*domain.Backing, error)
	SetEnd(ctx context.Context, id int64, end time.Time) error
	Delete(ctx context.Context, id int64) error
}

// AccountRepository интерфейс репозитория счетов
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	Rename(ctx context.Context, id int64, name string) error
}

// CurrencyProvider источник валют (сервис счетов)
type CurrencyProvider interface {
	EnsureCurrency(ctx context.Context, name, symbol string) (*domain.Currency, bool, error)
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

// Metrics счётчики замены поддержек
type Metrics interface {
	AddBackingsReplaced(action string, n int)
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
