package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
	accountRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/account"
	"github.com/m04kA/SMC-LodgingService/internal/service/accounts/models"
	"github.com/m04kA/SMC-LodgingService/pkg/types"
)

// currencySymbols валюты, которые ведёт сервис
var currencySymbols = map[string]string{
	domain.CurrencyUSD:  domain.CurrencyUSDSymbol,
	domain.CurrencyDRFT: domain.CurrencyDRFTSymbol,
}

// Service сервис валют и счетов пользователей
type Service struct {
	accountRepo AccountRepository
	userClient  UserServiceClient
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса счетов
func NewService(
	accountRepo AccountRepository,
	userClient UserServiceClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		accountRepo: accountRepo,
		userClient:  userClient,
		txManager:   txManager,
		logger:      logger,
	}
}

// EnsureCurrency возвращает валюту, создавая её при отсутствии
// Второе значение сообщает, была ли валюта создана этим вызовом
func (s *Service) EnsureCurrency(ctx context.Context, name, symbol string) (*domain.Currency, bool, error) {
	currency := &domain.Currency{Name: name, Symbol: symbol}
	created, err := s.accountRepo.CreateCurrency(ctx, currency)
	if err != nil {
		s.logger.Error("EnsureCurrency: failed to create currency %s: %v", name, err)
		return nil, false, fmt.Errorf("%w: EnsureCurrency - create currency: %v", ErrInternal, err)
	}
	if created {
		s.logger.Info("EnsureCurrency: created currency %s id=%d", name, currency.ID)
		return currency, true, nil
	}

	existing, err := s.accountRepo.GetCurrencyByName(ctx, name)
	if err != nil {
		s.logger.Error("EnsureCurrency: failed to get currency %s: %v", name, err)
		return nil, false, fmt.Errorf("%w: EnsureCurrency - get currency: %v", ErrInternal, err)
	}
	return existing, false, nil
}

// GetOrCreatePrimaryAccount возвращает основной счёт пользователя в валюте
//
// Если основного счёта нет, создаётся кредитовый счёт, единственным владельцем
// которого является пользователь. Найденный счёт, не принадлежащий пользователю,
// даёт domain.ErrNotAccountOwner.
func (s *Service) GetOrCreatePrimaryAccount(ctx context.Context, req *models.PrimaryAccountRequest) (*models.PrimaryAccountResponse, error) {
	s.logger.Info("GetOrCreatePrimaryAccount: user=%d, currency=%s", req.UserID, req.Currency)

	symbol, ok := currencySymbols[req.Currency]
	if !ok {
		s.logger.Warn("GetOrCreatePrimaryAccount: unknown currency %s", req.Currency)
		return nil, ErrUnknownCurrency
	}

	var (
		account  *domain.Account
		currency *domain.Currency
		created  bool
	)
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error
		currency, _, err = s.EnsureCurrency(txCtx, req.Currency, symbol)
		if err != nil {
			return err
		}

		accountID, err := s.accountRepo.GetPrimaryAccountID(txCtx, req.UserID, currency.ID)
		if err == nil {
			account, err = s.accountRepo.GetByID(txCtx, accountID)
			if err != nil {
				return fmt.Errorf("%w: GetOrCreatePrimaryAccount - get account: %v", ErrInternal, err)
			}
			if !account.IsOwnedBy(req.UserID) {
				return domain.ErrNotAccountOwner
			}
			return nil
		}
		if !errors.Is(err, accountRepo.ErrAccountNotFound) {
			return fmt.Errorf("%w: GetOrCreatePrimaryAccount - get primary account: %v", ErrInternal, err)
		}

		account, err = s.accountRepo.Create(txCtx, &domain.Account{
			CurrencyID: currency.ID,
			Name:       domain.PrimaryAccountName(s.displayName(txCtx, req.UserID), currency.Name),
			Type:       domain.AccountTypeCredit,
			OwnerIDs:   []int64{req.UserID},
		})
		if err != nil {
			return fmt.Errorf("%w: GetOrCreatePrimaryAccount - create account: %v", ErrInternal, err)
		}
		if err := s.accountRepo.SetPrimaryAccount(txCtx, req.UserID, currency.ID, account.ID); err != nil {
			return fmt.Errorf("%w: GetOrCreatePrimaryAccount - set primary account: %v", ErrInternal, err)
		}
		created = true
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotAccountOwner) {
			s.logger.Warn("GetOrCreatePrimaryAccount: user=%d does not own primary %s account", req.UserID, req.Currency)
		} else {
			s.logger.Error("GetOrCreatePrimaryAccount: failed for user=%d: %v", req.UserID, err)
		}
		return nil, err
	}

	balance, err := s.accountRepo.Balance(ctx, account.ID)
	if err != nil {
		s.logger.Error("GetOrCreatePrimaryAccount: failed to get balance of account id=%d: %v", account.ID, err)
		return nil, fmt.Errorf("%w: GetOrCreatePrimaryAccount - balance: %v", ErrInternal, err)
	}

	s.logger.Info("GetOrCreatePrimaryAccount: user=%d account id=%d, created=%t", req.UserID, account.ID, created)
	return &models.PrimaryAccountResponse{
		Account: models.FromDomainAccount(account, currency, balance),
		Created: created,
	}, nil
}

// DrftBalance баланс основного DRFT счёта пользователя
// Пользователь без DRFT счёта имеет нулевой баланс
func (s *Service) DrftBalance(ctx context.Context, userID int64) (float64, error) {
	currency, err := s.accountRepo.GetCurrencyByName(ctx, domain.CurrencyDRFT)
	if errors.Is(err, accountRepo.ErrCurrencyNotFound) {
		return 0, nil
	}
	if err != nil {
		s.logger.Error("DrftBalance: failed to get DRFT currency: %v", err)
		return 0, fmt.Errorf("%w: DrftBalance - get currency: %v", ErrInternal, err)
	}

	accountID, err := s.accountRepo.GetPrimaryAccountID(ctx, userID, currency.ID)
	if errors.Is(err, accountRepo.ErrAccountNotFound) {
		return 0, nil
	}
	if err != nil {
		s.logger.Error("DrftBalance: failed to get primary account of user=%d: %v", userID, err)
		return 0, fmt.Errorf("%w: DrftBalance - get primary account: %v", ErrInternal, err)
	}

	balance, err := s.accountRepo.Balance(ctx, accountID)
	if err != nil {
		s.logger.Error("DrftBalance: failed to get balance of account id=%d: %v", accountID, err)
		return 0, fmt.Errorf("%w: DrftBalance - balance: %v", ErrInternal, err)
	}
	return balance, nil
}

// GetDrftBalance ответ с балансом DRFT пользователя
func (s *Service) GetDrftBalance(ctx context.Context, userID int64) (*models.DrftBalanceResponse, error) {
	s.logger.Info("GetDrftBalance: user=%d", userID)

	balance, err := s.DrftBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.DrftBalanceResponse{
		UserID:  userID,
		Balance: types.Money(balance),
		Symbol:  domain.CurrencyDRFTSymbol,
	}, nil
}

// displayName имя пользователя для названия счёта
// Недоступность UserService не мешает созданию счёта
func (s *Service) displayName(ctx context.Context, userID int64) string {
	user, err := s.userClient.GetUserWithGracefulDegradation(ctx, userID)
	if err != nil || user == nil {
		return fmt.Sprintf("user %d", userID)
	}
	return user.FullName()
}
