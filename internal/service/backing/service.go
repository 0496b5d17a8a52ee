package backing

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
	locationRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/location"
	resourceRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-LodgingService/internal/service/backing/models"
	"github.com/m04kA/SMC-LodgingService/pkg/dates"
)

// Действия над поддержками для метрик
const (
	actionDeleted = "deleted"
	actionEnded   = "ended"
	actionCreated = "created"
)

// Service сервис поддержек ресурсов
type Service struct {
	backingRepo  BackingRepository
	accountRepo  AccountRepository
	currencies   CurrencyProvider
	resourceRepo ResourceRepository
	locationRepo LocationRepository
	txManager    TransactionManager
	metrics      Metrics
	logger       Logger
	timeProvider TimeProvider
}

// NewService создает новый экземпляр сервиса поддержек
func NewService(
	backingRepo BackingRepository,
	accountRepo AccountRepository,
	currencies CurrencyProvider,
	resourceRepo ResourceRepository,
	locationRepo LocationRepository,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		backingRepo:  backingRepo,
		accountRepo:  accountRepo,
		currencies:   currencies,
		resourceRepo: resourceRepo,
		locationRepo: locationRepo,
		txManager:    txManager,
		metrics:      metrics,
		logger:       logger,
		timeProvider: &RealTimeProvider{},
	}
}

// SetNextBacking заменяет поддержку ресурса новой группой пользователей с даты Start
//
// Действующие поддержки закрываются датой Start, будущие удаляются. Для новой
// поддержки создаются два кредитовых счёта (USD и DRFT), принадлежащие поддерживающим.
// Всё выполняется в одной сериализуемой транзакции.
func (s *Service) SetNextBacking(ctx context.Context, req *models.SetNextBackingRequest) (*models.BackingResponse, error) {
	s.logger.Info("SetNextBacking: resource id=%d, backers=%v, start=%s by user=%d",
		req.ResourceID, req.BackerIDs, req.Start.Format(dates.Layout), req.UserID)

	resource, location, err := s.administeredResource(ctx, "SetNextBacking", req.ResourceID, req.UserID)
	if err != nil {
		return nil, err
	}

	today := location.Today(s.timeProvider.Now())
	start := dates.Day(req.Start)

	var created *domain.Backing
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		existing, err := s.backingRepo.ListByResource(txCtx, resource.ID)
		if err != nil {
			return fmt.Errorf("%w: SetNextBacking - list backings: %v", ErrInternal, err)
		}

		plan, err := domain.PlanNextBacking(resource.ID, existing, req.BackerIDs, start, today)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrNoBackers):
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			case errors.Is(err, domain.ErrBackingOverlap):
				s.logger.Error("SetNextBacking: resource id=%d backings overlap after replacement from %s", resource.ID, start.Format(dates.Layout))
				return fmt.Errorf("%w: SetNextBacking - plan: %v", ErrInternal, err)
			default:
				return fmt.Errorf("%w: SetNextBacking - plan: %v", ErrInternal, err)
			}
		}

		for _, b := range plan.Delete {
			if err := s.backingRepo.Delete(txCtx, b.ID); err != nil {
				return fmt.Errorf("%w: SetNextBacking - delete backing id=%d: %v", ErrInternal, b.ID, err)
			}
		}
		for _, b := range plan.End {
			if err := s.backingRepo.SetEnd(txCtx, b.ID, *b.End); err != nil {
				return fmt.Errorf("%w: SetNextBacking - end backing id=%d: %v", ErrInternal, b.ID, err)
			}
		}

		next := plan.Next
		moneyAccount, err := s.createBackingAccount(txCtx, domain.CurrencyUSD, domain.CurrencyUSDSymbol, next.UserIDs)
		if err != nil {
			return err
		}
		drftAccount, err := s.createBackingAccount(txCtx, domain.CurrencyDRFT, domain.CurrencyDRFTSymbol, next.UserIDs)
		if err != nil {
			return err
		}
		next.MoneyAccountID = moneyAccount.ID
		next.DrftAccountID = drftAccount.ID

		created, err = s.backingRepo.Create(txCtx, &next)
		if err != nil {
			return fmt.Errorf("%w: SetNextBacking - create backing: %v", ErrInternal, err)
		}

		// имена счетов содержат идентификатор поддержки
		if err := s.accountRepo.Rename(txCtx, moneyAccount.ID, domain.BackingAccountName(resource.Name, domain.CurrencyUSD, created.ID)); err != nil {
			return fmt.Errorf("%w: SetNextBacking - rename USD account: %v", ErrInternal, err)
		}
		if err := s.accountRepo.Rename(txCtx, drftAccount.ID, domain.BackingAccountName(resource.Name, domain.CurrencyDRFT, created.ID)); err != nil {
			return fmt.Errorf("%w: SetNextBacking - rename DRFT account: %v", ErrInternal, err)
		}

		s.metrics.AddBackingsReplaced(actionDeleted, len(plan.Delete))
		s.metrics.AddBackingsReplaced(actionEnded, len(plan.End))
		s.metrics.AddBackingsReplaced(actionCreated, 1)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			s.logger.Warn("SetNextBacking: invalid request for resource id=%d: %v", resource.ID, err)
		} else {
			s.logger.Error("SetNextBacking: failed for resource id=%d: %v", resource.ID, err)
		}
		return nil, err
	}

	s.logger.Info("SetNextBacking: created backing id=%d for resource id=%d", created.ID, resource.ID)
	resp := models.FromDomainBacking(*created)
	return &resp, nil
}

// ListBackings текущая, запланированные и последняя поддержки ресурса
func (s *Service) ListBackings(ctx context.Context, resourceID, userID int64) (*models.ResourceBackingsResponse, error) {
	s.logger.Info("ListBackings: resource id=%d by user=%d", resourceID, userID)

	resource, location, err := s.administeredResource(ctx, "ListBackings", resourceID, userID)
	if err != nil {
		return nil, err
	}

	backings, err := s.backingRepo.ListByResource(ctx, resource.ID)
	if err != nil {
		s.logger.Error("ListBackings: failed to list backings of resource id=%d: %v", resource.ID, err)
		return nil, fmt.Errorf("%w: ListBackings - list backings: %v", ErrInternal, err)
	}

	resp := models.FromBackings(resource.ID, backings, location.Today(s.timeProvider.Now()))
	return &resp, nil
}

// createBackingAccount создаёт кредитовый счёт поддерживающих с временным именем
func (s *Service) createBackingAccount(ctx context.Context, currencyName, symbol string, owners []int64) (*domain.Account, error) {
	currency, _, err := s.currencies.EnsureCurrency(ctx, currencyName, symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: createBackingAccount - currency %s: %v", ErrInternal, currencyName, err)
	}

	account, err := s.accountRepo.Create(ctx, &domain.Account{
		CurrencyID: currency.ID,
		Name:       "backing " + currencyName,
		Type:       domain.AccountTypeCredit,
		OwnerIDs:   owners,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: createBackingAccount - create %s account: %v", ErrInternal, currencyName, err)
	}
	return account, nil
}

// administeredResource загружает ресурс и его локацию, проверяя права администратора
func (s *Service) administeredResource(ctx context.Context, op string, resourceID, userID int64) (*domain.Resource, *domain.Location, error) {
	resource, err := s.resourceRepo.GetByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("%s: resource id=%d not found", op, resourceID)
			return nil, nil, ErrResourceNotFound
		}
		s.logger.Error("%s: failed to get resource id=%d: %v", op, resourceID, err)
		return nil, nil, fmt.Errorf("%w: %s - get resource: %v", ErrInternal, op, err)
	}

	location, err := s.locationRepo.GetByID(ctx, resource.LocationID)
	if err != nil {
		if errors.Is(err, locationRepo.ErrLocationNotFound) {
			return nil, nil, ErrResourceNotFound
		}
		s.logger.Error("%s: failed to get location id=%d: %v", op, resource.LocationID, err)
		return nil, nil, fmt.Errorf("%w: %s - get location: %v", ErrInternal, op, err)
	}

	if !location.IsHouseAdmin(userID) {
		s.logger.Warn("%s: user=%d is not an admin of location id=%d", op, userID, location.ID)
		return nil, nil, ErrAccessDenied
	}
	return resource, location, nil
}
