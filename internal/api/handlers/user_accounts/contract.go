package user_accounts

import (
	"context"

	"github.com/m04kA/SMC-LodgingService/internal/service/accounts/models"
)

type AccountService interface {
	GetOrCreatePrimaryAccount(ctx context.Context, req *models.PrimaryAccountRequest) (*models.PrimaryAccountResponse, error)
	GetDrftBalance(ctx context.Context, userID int64) (*models.DrftBalanceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
