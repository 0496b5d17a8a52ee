package accounts

import (
	"context"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
	"github.com/m04kA/SMC-LodgingService/internal/integrations/userservice"
)

// AccountRepository интерфейс репозитория счетов и валют
type AccountRepository interface {
	GetCurrencyByName(ctx context.Context, name string) (*domain.Currency, error)
	CreateCurrency(ctx context.Context, currency *domain.Currency) (bool, error)
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	GetPrimaryAccountID(ctx context.Context, userID, currencyID int64) (int64, error)
	SetPrimaryAccount(ctx context.Context, userID, currencyID, accountID int64) error
	Balance(ctx context.Context, accountID int64) (float64, error)
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetUserWithGracefulDegradation(ctx context.Context, userID int64) (*userservice.User, error)
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
