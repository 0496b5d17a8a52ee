package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
	locationRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/location"
	resourceRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-LodgingService/pkg/dates"
	"github.com/m04kA/SMC-LodgingService/pkg/ptr"
)

// UseCase use case для получения доступности ресурсов и локаций
type UseCase struct {
	resourceRepo ResourceRepository
	locationRepo LocationRepository
	capacityRepo CapacityRepository
	useRepo      UseRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	resourceRepo ResourceRepository,
	locationRepo LocationRepository,
	capacityRepo CapacityRepository,
	useRepo UseRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		resourceRepo: resourceRepo,
		locationRepo: locationRepo,
		capacityRepo: capacityRepo,
		useRepo:      useRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Resource свободные места ресурса по дням окна
func (uc *UseCase) Resource(ctx context.Context, req *ResourceRequest) (*ResourceResponse, error) {
	uc.logger.Info("GetResourceAvailability: resource=%d", req.ResourceID)

	if req.ResourceID <= 0 {
		return nil, fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	resource, err := uc.resourceRepo.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("GetResourceAvailability: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("GetResourceAvailability: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}

	location, err := uc.getLocation(ctx, "GetResourceAvailability", resource.LocationID)
	if err != nil {
		return nil, err
	}

	today := location.Today(uc.timeProvider.Now())
	start, end, err := window(req.Arrive, req.Depart, today)
	if err != nil {
		uc.logger.Warn("GetResourceAvailability: validation failed: %v", err)
		return nil, err
	}

	calendars, err := uc.calendars(ctx, []*domain.Resource{resource}, domain.UsesFilter{
		ResourceID: ptr.Ptr(resource.ID),
	}, start, end)
	if err != nil {
		return nil, err
	}
	calendar := calendars[0]

	maxBookingDays := location.MaxBookingDays
	if maxBookingDays <= 0 {
		maxBookingDays = domain.DefaultMaxBookingDays
	}

	return &ResourceResponse{
		ResourceID:            resource.ID,
		Arrive:                start,
		Depart:                end,
		Availabilities:        calendar.DailyAvailabilitiesWithin(start, end),
		HasFutureDrftCapacity: calendar.Timeline.HasFutureCapacity(today, true),
		MaxBookingDays:        maxBookingDays,
	}, nil
}

// Location доступность всех комнат локации на окне
func (uc *UseCase) Location(ctx context.Context, req *LocationRequest) (*LocationResponse, error) {
	uc.logger.Info("GetLocationAvailability: location=%d", req.LocationID)

	if req.LocationID <= 0 {
		return nil, fmt.Errorf("%w: locationID must be positive", ErrInvalidInput)
	}

	location, err := uc.getLocation(ctx, "GetLocationAvailability", req.LocationID)
	if err != nil {
		return nil, err
	}

	today := location.Today(uc.timeProvider.Now())
	start, end, err := window(req.Arrive, req.Depart, today)
	if err != nil {
		uc.logger.Warn("GetLocationAvailability: validation failed: %v", err)
		return nil, err
	}

	resources, err := uc.resourceRepo.ListByLocation(ctx, location.ID)
	if err != nil {
		uc.logger.Error("GetLocationAvailability: failed to list resources of location id=%d: %v", location.ID, err)
		return nil, fmt.Errorf("%w: failed to list resources: %v", ErrInternal, err)
	}

	calendars, err := uc.calendars(ctx, resources, domain.UsesFilter{
		LocationID: ptr.Ptr(location.ID),
	}, start, end)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("GetLocationAvailability: location id=%d, %d rooms from %s to %s",
		location.ID, len(calendars), start.Format(dates.Layout), end.Format(dates.Layout))

	return &LocationResponse{
		LocationID:              location.ID,
		Arrive:                  start,
		Depart:                  end,
		FreeRooms:               domain.RoomsFree(calendars, start, end),
		Rooms:                   domain.LocationCapacity(calendars, start, end),
		RoomsWithFutureCapacity: domain.RoomsWithFutureCapacity(calendars, today, false),
	}, nil
}

// calendars календари ресурсов с активными проживаниями, пересекающими окно
// filter задаёт выборку проживаний, статусы и окно подставляются здесь
func (uc *UseCase) calendars(
	ctx context.Context,
	resources []*domain.Resource,
	filter domain.UsesFilter,
	start, end time.Time,
) ([]*domain.ResourceCalendar, error) {
	if len(resources) == 0 {
		return []*domain.ResourceCalendar{}, nil
	}

	ids := make([]int64, 0, len(resources))
	for _, r := range resources {
		ids = append(ids, r.ID)
	}

	changes, err := uc.capacityRepo.ListByResources(ctx, ids)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get capacities: %v", err)
		return nil, fmt.Errorf("%w: failed to get capacities: %v", ErrInternal, err)
	}

	filter.Statuses = domain.ActiveUseStatuses
	filter.OverlapStart = &start
	filter.OverlapEnd = &end
	uses, err := uc.useRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get uses: %v", err)
		return nil, fmt.Errorf("%w: failed to get uses: %v", ErrInternal, err)
	}

	occupying := make([]domain.Use, 0, len(uses))
	for _, u := range uses {
		occupying = append(occupying, *u)
	}

	calendars := make([]*domain.ResourceCalendar, 0, len(resources))
	for _, r := range resources {
		calendars = append(calendars, domain.NewResourceCalendar(*r, domain.NewTimeline(r.ID, changes), occupying))
	}
	return calendars, nil
}

func (uc *UseCase) getLocation(ctx context.Context, op string, locationID int64) (*domain.Location, error) {
	location, err := uc.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		if errors.Is(err, locationRepo.ErrLocationNotFound) {
			uc.logger.Warn("%s: location id=%d not found", op, locationID)
			return nil, ErrLocationNotFound
		}
		uc.logger.Error("%s: failed to get location id=%d: %v", op, locationID, err)
		return nil, fmt.Errorf("%w: failed to get location: %v", ErrInternal, err)
	}
	return location, nil
}
