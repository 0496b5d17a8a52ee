package capacity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
	capacityRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/capacity"
	locationRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/location"
	resourceRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-LodgingService/internal/service/capacity/models"
	"github.com/m04kA/SMC-LodgingService/pkg/dates"
)

// Исходы изменения вместимости для метрик
const (
	outcomeCreated   = "created"
	outcomeUpdated   = "updated"
	outcomeRejected  = "rejected"
	outcomeMerged    = "merged"
	outcomeDeleted   = "deleted"
	outcomeForbidden = "forbidden"
)

// Service сервис управления вместимостью ресурсов
type Service struct {
	capacityRepo CapacityRepository
	resourceRepo ResourceRepository
	locationRepo LocationRepository
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса вместимости
func NewService(
	capacityRepo CapacityRepository,
	resourceRepo ResourceRepository,
	locationRepo LocationRepository,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		capacityRepo: capacityRepo,
		resourceRepo: resourceRepo,
		locationRepo: locationRepo,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Upsert создает или изменяет ступень вместимости ресурса
//
// Изменение ищется по паре (ресурс, дата начала), при отсутствии создаётся новое.
// Если ступень совпадает с предыдущей, она не сохраняется и в результат
// добавляется ошибка. Если следующая ступень совпадает с новой, следующая
// удаляется и в результат добавляется предупреждение.
// Пользователь, не администрирующий локацию ресурса, получает ErrResourceNotFound.
func (s *Service) Upsert(ctx context.Context, req *models.UpsertRequest) (*models.CommandResult, error) {
	s.logger.Info("Upsert: resource=%d, start=%s, quantity=%d, accept_drft=%t, user=%d",
		req.ResourceID, req.StartDate.Format(dates.Layout), req.Quantity, req.AcceptDrft, req.UserID)

	if req.Quantity < 0 || req.Quantity > domain.MaxCapacityQuantity {
		s.logger.Warn("Upsert: invalid quantity=%d", req.Quantity)
		return nil, fmt.Errorf("%w: quantity must be between 0 and %d", ErrInvalidInput, domain.MaxCapacityQuantity)
	}

	resource, location, err := s.administeredResource(ctx, "Upsert", req.ResourceID, req.UserID)
	if err != nil {
		return nil, err
	}

	result := models.NewCommandResult()
	start := dates.Day(req.StartDate)

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		changes, err := s.capacityRepo.ListByResources(txCtx, []int64{resource.ID})
		if err != nil {
			return fmt.Errorf("%w: Upsert - list capacities: %v", ErrInternal, err)
		}
		timeline := domain.NewTimeline(resource.ID, changes)

		change, err := s.getOrNewCapacity(txCtx, resource.ID, start)
		if err != nil {
			return err
		}
		change.Quantity = req.Quantity
		change.AcceptDrft = req.AcceptDrft

		if timeline.WouldNotChangePrevious(*change) {
			s.logger.Warn("Upsert: capacity on %s for resource=%d would not change previous step",
				start.Format(dates.Layout), resource.ID)
			result.Errors = append(result.Errors, msgWouldNotChange)
			s.metrics.IncCapacityChange(outcomeRejected)
			return nil
		}

		if timeline.SameAsNext(*change) {
			next, _ := timeline.Next(*change)
			if err := s.capacityRepo.Delete(txCtx, next.ID); err != nil {
				return fmt.Errorf("%w: Upsert - delete next capacity id=%d: %v", ErrInternal, next.ID, err)
			}
			s.logger.Info("Upsert: removed redundant capacity id=%d on %s", next.ID, next.StartDate.Format(dates.Layout))
			result.Warnings = append(result.Warnings, fmt.Sprintf(msgNextRemovedFmt, next.StartDate.Format(dates.Layout)))
			s.metrics.IncCapacityChange(outcomeMerged)
		}

		if change.ID == 0 {
			if _, err := s.capacityRepo.Create(txCtx, change); err != nil {
				return fmt.Errorf("%w: Upsert - create capacity: %v", ErrInternal, err)
			}
			s.metrics.IncCapacityChange(outcomeCreated)
			return nil
		}

		if err := s.capacityRepo.Update(txCtx, change); err != nil {
			return fmt.Errorf("%w: Upsert - update capacity id=%d: %v", ErrInternal, change.ID, err)
		}
		s.metrics.IncCapacityChange(outcomeUpdated)
		return nil
	})
	if err != nil {
		s.logger.Error("Upsert: failed for resource=%d: %v", resource.ID, err)
		return nil, err
	}

	state, err := s.resourceCapacities(ctx, resource.ID, location)
	if err != nil {
		return nil, err
	}
	result.Result = state

	s.logger.Info("Upsert: resource=%d done, errors=%d, warnings=%d",
		resource.ID, len(result.Errors), len(result.Warnings))
	return result, nil
}

// Delete удаляет изменение вместимости
// Отсутствующее изменение и отсутствие прав дают результат со статусом 404
func (s *Service) Delete(ctx context.Context, capacityID, userID int64) (*models.CommandResult, error) {
	s.logger.Info("Delete: capacity id=%d by user=%d", capacityID, userID)

	result := models.NewCommandResult()
	notFound := func() (*models.CommandResult, error) {
		result.Errors = append(result.Errors, msgNotFound)
		result.Status = http.StatusNotFound
		return result, nil
	}

	change, err := s.capacityRepo.GetByID(ctx, capacityID)
	if err != nil {
		if errors.Is(err, capacityRepo.ErrCapacityNotFound) {
			s.logger.Warn("Delete: capacity id=%d not found", capacityID)
			return notFound()
		}
		s.logger.Error("Delete: repository error for capacity id=%d: %v", capacityID, err)
		return nil, fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	_, location, err := s.administeredResource(ctx, "Delete", change.ResourceID, userID)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			s.metrics.IncCapacityChange(outcomeForbidden)
			return notFound()
		}
		return nil, err
	}

	if err := s.capacityRepo.Delete(ctx, capacityID); err != nil {
		if errors.Is(err, capacityRepo.ErrCapacityNotFound) {
			return notFound()
		}
		s.logger.Error("Delete: repository error for capacity id=%d: %v", capacityID, err)
		return nil, fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}
	s.metrics.IncCapacityChange(outcomeDeleted)

	state, err := s.resourceCapacities(ctx, change.ResourceID, location)
	if err != nil {
		return nil, err
	}
	result.Result = state

	s.logger.Info("Delete: capacity id=%d deleted", capacityID)
	return result, nil
}

// GetByID получает изменение вместимости
func (s *Service) GetByID(ctx context.Context, capacityID int64) (*models.CapacityResponse, error) {
	s.logger.Info("GetByID: fetching capacity id=%d", capacityID)

	change, err := s.capacityRepo.GetByID(ctx, capacityID)
	if err != nil {
		if errors.Is(err, capacityRepo.ErrCapacityNotFound) {
			s.logger.Warn("GetByID: capacity id=%d not found", capacityID)
			return nil, ErrCapacityNotFound
		}
		s.logger.Error("GetByID: repository error for capacity id=%d: %v", capacityID, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	response := models.FromDomainCapacity(*change)
	return &response, nil
}

// administeredResource получает ресурс и его локацию, проверяя права администратора
// Отсутствие прав неотличимо от отсутствия ресурса
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
			s.logger.Warn("%s: location id=%d of resource id=%d not found", op, resource.LocationID, resourceID)
			return nil, nil, ErrResourceNotFound
		}
		s.logger.Error("%s: failed to get location id=%d: %v", op, resource.LocationID, err)
		return nil, nil, fmt.Errorf("%w: %s - get location: %v", ErrInternal, op, err)
	}

	if !location.IsHouseAdmin(userID) {
		s.logger.Warn("%s: user=%d is not an admin of location id=%d", op, userID, location.ID)
		return nil, nil, ErrResourceNotFound
	}

	return resource, location, nil
}

func (s *Service) getOrNewCapacity(ctx context.Context, resourceID int64, start time.Time) (*domain.CapacityChange, error) {
	change, err := s.capacityRepo.GetByResourceAndStart(ctx, resourceID, start)
	if err == nil {
		return change, nil
	}
	if errors.Is(err, capacityRepo.ErrCapacityNotFound) {
		return &domain.CapacityChange{ResourceID: resourceID, StartDate: start}, nil
	}
	return nil, fmt.Errorf("%w: get capacity on %s: %v", ErrInternal, start.Format(dates.Layout), err)
}

func (s *Service) resourceCapacities(ctx context.Context, resourceID int64, location *domain.Location) (models.ResourceCapacityResponse, error) {
	changes, err := s.capacityRepo.ListByResources(ctx, []int64{resourceID})
	if err != nil {
		s.logger.Error("resourceCapacities: failed to list capacities for resource=%d: %v", resourceID, err)
		return models.ResourceCapacityResponse{}, fmt.Errorf("%w: list capacities: %v", ErrInternal, err)
	}

	today := location.Today(s.timeProvider.Now())
	return models.FromTimeline(domain.NewTimeline(resourceID, changes), today), nil
}
