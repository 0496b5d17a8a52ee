package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
	locationRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/location"
	resourceRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/resource"
	billingModels "github.com/m04kA/SMC-LodgingService/internal/service/billing/models"
	bookingModels "github.com/m04kA/SMC-LodgingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-LodgingService/pkg/dates"
	"github.com/m04kA/SMC-LodgingService/pkg/ptr"
)

// UseCase use case для создания бронирования
type UseCase struct {
	useRepo      UseRepository
	bookingRepo  BookingRepository
	billRepo     BillRepository
	resourceRepo ResourceRepository
	locationRepo LocationRepository
	capacityRepo CapacityRepository
	bills        BillGenerator
	balances     DrftBalanceProvider
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	useRepo UseRepository,
	bookingRepo BookingRepository,
	billRepo BillRepository,
	resourceRepo ResourceRepository,
	locationRepo LocationRepository,
	capacityRepo CapacityRepository,
	bills BillGenerator,
	balances DrftBalanceProvider,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		useRepo:      useRepo,
		bookingRepo:  bookingRepo,
		billRepo:     billRepo,
		resourceRepo: resourceRepo,
		locationRepo: locationRepo,
		capacityRepo: capacityRepo,
		bills:        bills,
		balances:     balances,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Проживание, счёт и бронирование создаются в одной сериализуемой транзакции,
// доступность ресурса проверяется внутри неё же
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, resource=%d, arrive=%s, depart=%s",
		req.UserID, req.ResourceID, req.Arrive.Format(dates.Layout), req.Depart.Format(dates.Layout))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Ресурс и локация
	resource, location, err := uc.loadResource(ctx, "CreateBooking", req.ResourceID)
	if err != nil {
		return nil, err
	}

	arrive, depart := dates.Day(req.Arrive), dates.Day(req.Depart)

	// 3. Даты относительно сегодняшнего дня локации
	if err := validateStay(arrive, depart, location.Today(uc.timeProvider.Now()), location.MaxBookingDays); err != nil {
		uc.logger.Warn("CreateBooking: stay validation failed: %v", err)
		return nil, err
	}

	var (
		use      *domain.Use
		booking  *domain.Booking
		bill     *domain.Bill
		calendar *domain.ResourceCalendar
	)

	// 4. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Повторная проверка доступности на все ночи
		calendar, err = uc.calendar(txCtx, resource, arrive, depart)
		if err != nil {
			return err
		}
		if !calendar.AvailableBetween(arrive, depart) {
			uc.logger.Warn("CreateBooking: resource id=%d is not available from %s to %s",
				resource.ID, arrive.Format(dates.Layout), depart.Format(dates.Layout))
			return ErrNotAvailable
		}

		// 4.2. Проживание
		use, err = uc.useRepo.Create(txCtx, &domain.Use{
			LocationID:  location.ID,
			ResourceID:  resource.ID,
			UserID:      req.UserID,
			Status:      domain.UseStatusPending,
			Arrive:      arrive,
			Depart:      depart,
			ArrivalTime: req.ArrivalTime,
			Purpose:     req.Purpose,
			AccountedBy: domain.AccountingFiat,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create use: %v", err)
			return fmt.Errorf("%w: failed to create use: %v", ErrInternal, err)
		}

		// 4.3. Счёт и бронирование
		emptyBill, err := uc.billRepo.Create(txCtx)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create bill: %v", err)
			return fmt.Errorf("%w: failed to create bill: %v", ErrInternal, err)
		}

		newBooking := domain.NewBooking(use.ID, emptyBill.ID, req.Comments)
		booking, err = uc.bookingRepo.Create(txCtx, &newBooking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 4.4. Строки счёта
		bill, err = uc.bills.GenerateBill(txCtx, booking.ID, billingModels.GenerateOptions{})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to generate bill of booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to generate bill: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.IncBookingsCreated(string(use.Status))
	uc.logger.Info("CreateBooking: successfully created booking id=%d (use id=%d) for user=%d",
		booking.ID, use.ID, req.UserID)

	return &Response{
		Booking: bookingModels.FromView(bookingModels.BookingView{
			Booking:  booking,
			Use:      use,
			Resource: resource,
			Location: location,
			Bill:     bill,
		}),
		SuggestDrft: uc.suggestDrft(ctx, *use, calendar),
	}, nil
}

// Preview рассчитывает бронирование и счёт без сохранения
// Идентификаторы в ответе равны -1
func (uc *UseCase) Preview(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("PreviewBooking: user=%d, resource=%d, arrive=%s, depart=%s",
		req.UserID, req.ResourceID, req.Arrive.Format(dates.Layout), req.Depart.Format(dates.Layout))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("PreviewBooking: validation failed: %v", err)
		return nil, err
	}

	resource, location, err := uc.loadResource(ctx, "PreviewBooking", req.ResourceID)
	if err != nil {
		return nil, err
	}

	arrive, depart := dates.Day(req.Arrive), dates.Day(req.Depart)
	if err := validateStay(arrive, depart, location.Today(uc.timeProvider.Now()), location.MaxBookingDays); err != nil {
		uc.logger.Warn("PreviewBooking: stay validation failed: %v", err)
		return nil, err
	}

	fees, err := uc.locationRepo.GetFees(ctx, location.ID)
	if err != nil {
		uc.logger.Error("PreviewBooking: failed to get fees of location id=%d: %v", location.ID, err)
		return nil, fmt.Errorf("%w: failed to get fees: %v", ErrInternal, err)
	}

	calendar, err := uc.calendar(ctx, resource, arrive, depart)
	if err != nil {
		return nil, err
	}

	use := domain.Use{
		LocationID:  location.ID,
		ResourceID:  resource.ID,
		UserID:      req.UserID,
		Status:      domain.UseStatusPending,
		Arrive:      arrive,
		Depart:      depart,
		ArrivalTime: req.ArrivalTime,
		Purpose:     req.Purpose,
		AccountedBy: domain.AccountingFiat,
	}
	booking := domain.Booking{UseID: use.ID, Comments: req.Comments}
	bill := &domain.Bill{
		LineItems: domain.GenerateLineItems(domain.BillInput{
			ResourceName: resource.Name,
			Nights:       use.TotalNights(),
			Rate:         booking.EffectiveRate(resource.DefaultRate),
			Fees:         fees,
		}),
	}

	return &Response{
		Booking: bookingModels.FromView(bookingModels.BookingView{
			Booking:  &booking,
			Use:      &use,
			Resource: resource,
			Location: location,
			Bill:     bill,
		}),
		SuggestDrft: uc.suggestDrft(ctx, use, calendar),
	}, nil
}

// suggestDrft ошибка получения баланса не мешает бронированию
func (uc *UseCase) suggestDrft(ctx context.Context, use domain.Use, calendar *domain.ResourceCalendar) bool {
	drftable := calendar.DrftableBetween(use.Arrive, use.Depart)
	if !drftable {
		return false
	}

	balance, err := uc.balances.DrftBalance(ctx, use.UserID)
	if err != nil {
		uc.logger.Warn("CreateBooking: failed to get DRFT balance of user=%d: %v", use.UserID, err)
		return false
	}
	return use.SuggestDrft(drftable, balance)
}

// calendar календарь ресурса с активными проживаниями, пересекающими [arrive, depart)
func (uc *UseCase) calendar(ctx context.Context, resource *domain.Resource, arrive, depart time.Time) (*domain.ResourceCalendar, error) {
	changes, err := uc.capacityRepo.ListByResources(ctx, []int64{resource.ID})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get capacities of resource id=%d: %v", resource.ID, err)
		return nil, fmt.Errorf("%w: failed to get capacities: %v", ErrInternal, err)
	}

	uses, err := uc.useRepo.List(ctx, domain.UsesFilter{
		ResourceID:   ptr.Ptr(resource.ID),
		Statuses:     domain.ActiveUseStatuses,
		OverlapStart: &arrive,
		OverlapEnd:   &depart,
	})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get uses of resource id=%d: %v", resource.ID, err)
		return nil, fmt.Errorf("%w: failed to get uses: %v", ErrInternal, err)
	}

	occupying := make([]domain.Use, 0, len(uses))
	for _, u := range uses {
		occupying = append(occupying, *u)
	}

	return domain.NewResourceCalendar(*resource, domain.NewTimeline(resource.ID, changes), occupying), nil
}

func (uc *UseCase) loadResource(ctx context.Context, op string, resourceID int64) (*domain.Resource, *domain.Location, error) {
	resource, err := uc.resourceRepo.GetByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("%s: resource id=%d not found", op, resourceID)
			return nil, nil, ErrResourceNotFound
		}
		uc.logger.Error("%s: failed to get resource id=%d: %v", op, resourceID, err)
		return nil, nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}

	location, err := uc.locationRepo.GetByID(ctx, resource.LocationID)
	if err != nil {
		if errors.Is(err, locationRepo.ErrLocationNotFound) {
			uc.logger.Warn("%s: location id=%d of resource id=%d not found", op, resource.LocationID, resourceID)
			return nil, nil, ErrResourceNotFound
		}
		uc.logger.Error("%s: failed to get location id=%d: %v", op, resource.LocationID, err)
		return nil, nil, fmt.Errorf("%w: failed to get location: %v", ErrInternal, err)
	}

	return resource, location, nil
}
