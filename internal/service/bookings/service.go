package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
	billRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/bill"
	bookingRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/booking"
	locationRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/location"
	resourceRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/resource"
	useRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/use"
	"github.com/m04kA/SMC-LodgingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-LodgingService/pkg/dates"
	"github.com/m04kA/SMC-LodgingService/pkg/ptr"
)

// guestStatuses статусы, которые гость может установить сам
var guestStatuses = map[domain.UseStatus]bool{
	domain.UseStatusConfirmed:    true,
	domain.UseStatusCanceled:     true,
	domain.UseStatusUserDeclined: true,
}

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	useRepo      UseRepository
	resourceRepo ResourceRepository
	locationRepo LocationRepository
	capacityRepo CapacityRepository
	billRepo     BillRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	useRepo UseRepository,
	resourceRepo ResourceRepository,
	locationRepo LocationRepository,
	capacityRepo CapacityRepository,
	billRepo BillRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		useRepo:      useRepo,
		resourceRepo: resourceRepo,
		locationRepo: locationRepo,
		capacityRepo: capacityRepo,
		billRepo:     billRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Бронирование видят гость и администраторы локации
func (s *Service) GetByID(ctx context.Context, bookingID, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", bookingID, userID)

	view, err := s.loadView(ctx, "GetByID", bookingID)
	if err != nil {
		return nil, err
	}

	if view.Use.UserID != userID && !view.Location.IsHouseAdmin(userID) {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, bookingID)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", bookingID)
	return models.FromView(*view), nil
}

// UpdateStatus переводит проживание бронирования в новый статус
//
// Администратор локации может установить любой статус, гость только
// подтвердить, отменить или отклонить своё бронирование. Переход в занимающий
// место статус повторно проверяет доступность ресурса внутри транзакции.
// Отмена не удаляет счёт: по нему считаются возвраты.
func (s *Service) UpdateStatus(ctx context.Context, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: booking id=%d to status=%s by user=%d", req.BookingID, req.Status, req.UserID)

	target, err := domain.ParseUseStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s", req.Status)
		return nil, ErrInvalidStatus
	}

	view, err := s.loadView(ctx, "UpdateStatus", req.BookingID)
	if err != nil {
		return nil, err
	}

	isAdmin := view.Location.IsHouseAdmin(req.UserID)
	isGuest := view.Use.UserID == req.UserID
	if !isAdmin && !(isGuest && guestStatuses[target]) {
		s.logger.Warn("UpdateStatus: user=%d may not set status=%s on booking id=%d", req.UserID, target, req.BookingID)
		return nil, ErrAccessDenied
	}

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		use, err := s.useRepo.GetByID(txCtx, view.Use.ID)
		if err != nil {
			return s.mapRepoError("UpdateStatus", err)
		}

		if !use.CanTransitionTo(target) {
			s.logger.Warn("UpdateStatus: booking id=%d cannot change from %s to %s", req.BookingID, use.Status, target)
			return ErrCannotTransition
		}

		if use.StartsOccupying(target) {
			available, err := s.availableFor(txCtx, view.Resource, use)
			if err != nil {
				return err
			}
			if !available {
				s.logger.Warn("UpdateStatus: resource id=%d is full for booking id=%d", view.Resource.ID, req.BookingID)
				return ErrNotAvailable
			}
		}

		if err := s.useRepo.UpdateStatus(txCtx, use.ID, target); err != nil {
			return s.mapRepoError("UpdateStatus", err)
		}
		view.Use.Status = target
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			s.logger.Error("UpdateStatus: failed for booking id=%d: %v", req.BookingID, err)
		}
		return nil, err
	}

	s.logger.Info("UpdateStatus: booking id=%d is now %s", req.BookingID, target)
	return models.FromView(*view), nil
}

// UnpaidBookings подтверждённые, но неоплаченные бронирования локации
// Доступно только администраторам локации
func (s *Service) UnpaidBookings(ctx context.Context, locationID, userID int64) (*models.BookingListResponse, error) {
	s.logger.Info("UnpaidBookings: location id=%d by user=%d", locationID, userID)

	location, err := s.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		if errors.Is(err, locationRepo.ErrLocationNotFound) {
			s.logger.Warn("UnpaidBookings: location id=%d not found", locationID)
			return nil, ErrLocationNotFound
		}
		return nil, s.mapRepoError("UnpaidBookings", err)
	}
	if !location.IsHouseAdmin(userID) {
		s.logger.Warn("UnpaidBookings: user=%d is not an admin of location id=%d", userID, locationID)
		return nil, ErrAccessDenied
	}

	unpaid, err := s.ConfirmedButUnpaid(ctx, location)
	if err != nil {
		return nil, err
	}

	return &models.BookingListResponse{Bookings: unpaid, Total: len(unpaid)}, nil
}

// ConfirmedButUnpaid подтверждённые проживания локации с неоплаченным счётом
//
// Проживания перебираются по убыванию даты заезда. Проживание без бронирования
// или счёта пропускается с предупреждением, остальные ошибки возвращаются.
func (s *Service) ConfirmedButUnpaid(ctx context.Context, location *domain.Location) ([]*models.BookingResponse, error) {
	uses, err := s.useRepo.List(ctx, domain.UsesFilter{
		LocationID: ptr.Ptr(location.ID),
		Statuses:   []domain.UseStatus{domain.UseStatusConfirmed},
	})
	if err != nil {
		s.logger.Error("ConfirmedButUnpaid: failed to list uses of location id=%d: %v", location.ID, err)
		return nil, s.mapRepoError("ConfirmedButUnpaid", err)
	}

	resources := make(map[int64]*domain.Resource)
	unpaid := make([]*models.BookingResponse, 0)
	for _, use := range uses {
		booking, err := s.bookingRepo.GetByUseID(ctx, use.ID)
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("ConfirmedButUnpaid: use id=%d has no booking, skipping", use.ID)
			continue
		}
		if err != nil {
			s.logger.Error("ConfirmedButUnpaid: failed to get booking of use id=%d: %v", use.ID, err)
			return nil, s.mapRepoError("ConfirmedButUnpaid", err)
		}

		bill, err := s.billRepo.GetByID(ctx, booking.BillID)
		if errors.Is(err, billRepo.ErrBillNotFound) {
			s.logger.Warn("ConfirmedButUnpaid: booking id=%d has no bill, skipping", booking.ID)
			continue
		}
		if err != nil {
			s.logger.Error("ConfirmedButUnpaid: failed to get bill id=%d: %v", booking.BillID, err)
			return nil, s.mapRepoError("ConfirmedButUnpaid", err)
		}

		if bill.IsPaid() {
			continue
		}

		resource, ok := resources[use.ResourceID]
		if !ok {
			resource, err = s.resourceRepo.GetByID(ctx, use.ResourceID)
			if err != nil {
				return nil, s.mapRepoError("ConfirmedButUnpaid", err)
			}
			resources[use.ResourceID] = resource
		}

		unpaid = append(unpaid, models.FromView(models.BookingView{
			Booking:  booking,
			Use:      use,
			Resource: resource,
			Location: location,
			Bill:     bill,
		}))
	}

	return unpaid, nil
}

// availableFor свободен ли ресурс на все ночи проживания без учёта самого проживания
func (s *Service) availableFor(ctx context.Context, resource *domain.Resource, use *domain.Use) (bool, error) {
	changes, err := s.capacityRepo.ListByResources(ctx, []int64{resource.ID})
	if err != nil {
		return false, s.mapRepoError("availableFor", err)
	}

	arrive, depart := dates.Day(use.Arrive), dates.Day(use.Depart)
	others, err := s.useRepo.List(ctx, domain.UsesFilter{
		ResourceID:   ptr.Ptr(resource.ID),
		Statuses:     domain.ActiveUseStatuses,
		OverlapStart: &arrive,
		OverlapEnd:   &depart,
	})
	if err != nil {
		return false, s.mapRepoError("availableFor", err)
	}

	occupying := make([]domain.Use, 0, len(others))
	for _, u := range others {
		if u.ID != use.ID {
			occupying = append(occupying, *u)
		}
	}

	calendar := domain.NewResourceCalendar(*resource, domain.NewTimeline(resource.ID, changes), occupying)
	return calendar.AvailableBetween(arrive, depart), nil
}

// loadView загружает бронирование вместе с проживанием, ресурсом, локацией и счётом
func (s *Service) loadView(ctx context.Context, op string, bookingID int64) (*models.BookingView, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, bookingID)
		} else {
			s.logger.Error("%s: repository error for booking id=%d: %v", op, bookingID, err)
		}
		return nil, s.mapRepoError(op, err)
	}

	use, err := s.useRepo.GetByID(ctx, booking.UseID)
	if err != nil {
		return nil, s.mapRepoError(op, err)
	}
	resource, err := s.resourceRepo.GetByID(ctx, use.ResourceID)
	if err != nil {
		return nil, s.mapRepoError(op, err)
	}
	location, err := s.locationRepo.GetByID(ctx, use.LocationID)
	if err != nil {
		return nil, s.mapRepoError(op, err)
	}
	bill, err := s.billRepo.GetByID(ctx, booking.BillID)
	if err != nil {
		return nil, s.mapRepoError(op, err)
	}

	return &models.BookingView{
		Booking:  booking,
		Use:      use,
		Resource: resource,
		Location: location,
		Bill:     bill,
	}, nil
}

// mapRepoError переводит ошибки репозиториев в ошибки сервиса
func (s *Service) mapRepoError(op string, err error) error {
	switch {
	case errors.Is(err, bookingRepo.ErrBookingNotFound),
		errors.Is(err, useRepo.ErrUseNotFound),
		errors.Is(err, resourceRepo.ErrResourceNotFound),
		errors.Is(err, billRepo.ErrBillNotFound):
		return ErrBookingNotFound
	case errors.Is(err, locationRepo.ErrLocationNotFound):
		return ErrLocationNotFound
	default:
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}
