package billing

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
	"github.com/m04kA/SMC-LodgingService/internal/service/billing/models"
	"github.com/m04kA/SMC-LodgingService/pkg/ptr"
	"github.com/m04kA/SMC-LodgingService/pkg/types"
)

// Режимы генерации и виды платежей для метрик
const (
	modePreview = "preview"
	modePersist = "persist"

	kindPayment = "payment"
	kindRefund  = "refund"
)

// Service сервис счетов бронирований
type Service struct {
	bookingRepo  BookingRepository
	useRepo      UseRepository
	resourceRepo ResourceRepository
	locationRepo LocationRepository
	billRepo     BillRepository
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса счетов
func NewService(
	bookingRepo BookingRepository,
	useRepo UseRepository,
	resourceRepo ResourceRepository,
	locationRepo LocationRepository,
	billRepo BillRepository,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		useRepo:      useRepo,
		resourceRepo: resourceRepo,
		locationRepo: locationRepo,
		billRepo:     billRepo,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GenerateBill рассчитывает строки счёта бронирования
//
// В режиме предпросмотра ничего не сохраняется. Иначе все автоматические строки
// удаляются и создаются заново, ручные корректировки сохраняются. Вызывающий
// код отвечает за транзакцию: при вызове внутри DoSerializable пересчёт
// атомарен вместе с остальными изменениями.
func (s *Service) GenerateBill(ctx context.Context, bookingID int64, opts models.GenerateOptions) (*domain.Bill, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, s.mapRepoError("GenerateBill", err)
	}

	if opts.ResetSuppressed {
		if !opts.Preview {
			if err := s.bookingRepo.ClearSuppressedFees(ctx, booking.ID); err != nil {
				return nil, s.mapRepoError("GenerateBill", err)
			}
		}
		booking.SuppressedFeeIDs = nil
	}

	use, err := s.useRepo.GetByID(ctx, booking.UseID)
	if err != nil {
		return nil, s.mapRepoError("GenerateBill", err)
	}
	resource, err := s.resourceRepo.GetByID(ctx, use.ResourceID)
	if err != nil {
		return nil, s.mapRepoError("GenerateBill", err)
	}
	fees, err := s.locationRepo.GetFees(ctx, use.LocationID)
	if err != nil {
		return nil, s.mapRepoError("GenerateBill", err)
	}
	bill, err := s.billRepo.GetByID(ctx, booking.BillID)
	if err != nil {
		return nil, s.mapRepoError("GenerateBill", err)
	}

	items := domain.GenerateLineItems(domain.BillInput{
		ResourceName:     resource.Name,
		Nights:           use.TotalNights(),
		Rate:             booking.EffectiveRate(resource.DefaultRate),
		CustomItems:      bill.CustomItems(),
		Fees:             fees,
		SuppressedFeeIDs: booking.SuppressedFeeIDs,
	})

	if opts.Preview {
		bill.LineItems = items
		s.metrics.IncBillsGenerated(modePreview)
		return bill, nil
	}

	if err := s.billRepo.DeleteGeneratedItems(ctx, bill.ID); err != nil {
		return nil, s.mapRepoError("GenerateBill", err)
	}
	if err := s.billRepo.CreateLineItems(ctx, bill.ID, items); err != nil {
		return nil, s.mapRepoError("GenerateBill", err)
	}
	if err := s.billRepo.Touch(ctx, bill.ID); err != nil {
		return nil, s.mapRepoError("GenerateBill", err)
	}

	bill, err = s.billRepo.GetByID(ctx, bill.ID)
	if err != nil {
		return nil, s.mapRepoError("GenerateBill", err)
	}
	s.metrics.IncBillsGenerated(modePersist)

	s.logger.Info("GenerateBill: bill id=%d of booking id=%d regenerated, amount=%s",
		bill.ID, booking.ID, types.Money(bill.Amount()))
	return bill, nil
}

// GetBill получает счёт
// Счёт видят гость бронирования и администраторы локации
func (s *Service) GetBill(ctx context.Context, billID, userID int64) (*models.BillResponse, error) {
	s.logger.Info("GetBill: fetching bill id=%d for user=%d", billID, userID)

	booking, err := s.bookingRepo.GetByBillID(ctx, billID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetBill: bill id=%d has no booking", billID)
			return nil, ErrBillNotFound
		}
		return nil, s.mapRepoError("GetBill", err)
	}

	use, location, err := s.bookingContext(ctx, "GetBill", booking)
	if err != nil {
		return nil, err
	}
	if use.UserID != userID && !location.IsHouseAdmin(userID) {
		s.logger.Warn("GetBill: access denied for user=%d to bill id=%d", userID, billID)
		return nil, ErrAccessDenied
	}

	bill, err := s.billRepo.GetByID(ctx, billID)
	if err != nil {
		return nil, s.mapRepoError("GetBill", err)
	}

	return models.FromDomainBill(bill), nil
}

// Regenerate пересчитывает счёт по запросу администратора
func (s *Service) Regenerate(ctx context.Context, req *models.RegenerateRequest) (*models.BillResponse, error) {
	s.logger.Info("Regenerate: booking id=%d by user=%d, preview=%t, reset_suppressed=%t",
		req.BookingID, req.UserID, req.Preview, req.ResetSuppressed)

	if _, err := s.administeredBooking(ctx, "Regenerate", req.BookingID, req.UserID); err != nil {
		return nil, err
	}

	if req.Preview {
		bill, err := s.GenerateBill(ctx, req.BookingID, req.GenerateOptions)
		if err != nil {
			s.logger.Error("Regenerate: preview failed for booking id=%d: %v", req.BookingID, err)
			return nil, err
		}
		return models.FromDomainBill(bill), nil
	}

	return s.inTx(ctx, "Regenerate", req.BookingID, func(txCtx context.Context, _ *domain.Booking) error {
		return nil
	}, req.GenerateOptions)
}

// SetRate устанавливает индивидуальную ставку и пересчитывает счёт
// Отсутствующая ставка трактуется как 0
func (s *Service) SetRate(ctx context.Context, req *models.SetRateRequest) (*models.BillResponse, error) {
	rate := ptr.Value(req.Rate)
	s.logger.Info("SetRate: booking id=%d by user=%d, rate=%.2f", req.BookingID, req.UserID, rate)

	if rate < 0 || rate > domain.MaxRate {
		s.logger.Warn("SetRate: invalid rate=%.2f", rate)
		return nil, fmt.Errorf("%w: rate must be between 0 and %.2f", ErrInvalidInput, domain.MaxRate)
	}

	return s.changeRate(ctx, "SetRate", req.BookingID, req.UserID, &rate)
}

// ResetRate возвращает ставку ресурса по умолчанию
func (s *Service) ResetRate(ctx context.Context, bookingID, userID int64) (*models.BillResponse, error) {
	s.logger.Info("ResetRate: booking id=%d by user=%d", bookingID, userID)
	return s.changeRate(ctx, "ResetRate", bookingID, userID, nil)
}

// Comp делает проживание бесплатным (ставка 0)
func (s *Service) Comp(ctx context.Context, bookingID, userID int64) (*models.BillResponse, error) {
	s.logger.Info("Comp: booking id=%d by user=%d", bookingID, userID)
	return s.changeRate(ctx, "Comp", bookingID, userID, ptr.Ptr(0.0))
}

func (s *Service) changeRate(ctx context.Context, op string, bookingID, userID int64, rate *float64) (*models.BillResponse, error) {
	if _, err := s.administeredBooking(ctx, op, bookingID, userID); err != nil {
		return nil, err
	}

	return s.inTx(ctx, op, bookingID, func(txCtx context.Context, booking *domain.Booking) error {
		if err := s.bookingRepo.UpdateRate(txCtx, booking.ID, rate); err != nil {
			return s.mapRepoError(op, err)
		}
		return nil
	}, models.GenerateOptions{})
}

// SuppressFee отключает сбор строки счёта для бронирования и пересчитывает счёт
func (s *Service) SuppressFee(ctx context.Context, bookingID, userID, lineItemID int64) (*models.BillResponse, error) {
	s.logger.Info("SuppressFee: booking id=%d, line item id=%d by user=%d", bookingID, lineItemID, userID)

	if _, err := s.administeredBooking(ctx, "SuppressFee", bookingID, userID); err != nil {
		return nil, err
	}

	return s.inTx(ctx, "SuppressFee", bookingID, func(txCtx context.Context, booking *domain.Booking) error {
		bill, err := s.billRepo.GetByID(txCtx, booking.BillID)
		if err != nil {
			return s.mapRepoError("SuppressFee", err)
		}

		for _, li := range bill.Fees() {
			if li.ID != lineItemID {
				continue
			}
			if err := s.bookingRepo.AddSuppressedFee(txCtx, booking.ID, li.Fee.ID); err != nil {
				return s.mapRepoError("SuppressFee", err)
			}
			return nil
		}

		s.logger.Warn("SuppressFee: fee line item id=%d not found on bill id=%d", lineItemID, bill.ID)
		return ErrLineItemNotFound
	}, models.GenerateOptions{})
}

// AddCustomItem добавляет ручную корректировку и пересчитывает счёт
// Отрицательная сумма означает скидку
func (s *Service) AddCustomItem(ctx context.Context, req *models.CustomItemRequest) (*models.BillResponse, error) {
	s.logger.Info("AddCustomItem: booking id=%d by user=%d, amount=%.2f", req.BookingID, req.UserID, req.Amount)

	if req.Description == "" || len(req.Description) > domain.MaxLineItemLength {
		s.logger.Warn("AddCustomItem: invalid description length=%d", len(req.Description))
		return nil, fmt.Errorf("%w: description is required and must be at most %d characters", ErrInvalidInput, domain.MaxLineItemLength)
	}

	if _, err := s.administeredBooking(ctx, "AddCustomItem", req.BookingID, req.UserID); err != nil {
		return nil, err
	}

	return s.inTx(ctx, "AddCustomItem", req.BookingID, func(txCtx context.Context, booking *domain.Booking) error {
		item := domain.LineItem{
			Description: req.Description,
			Amount:      types.RoundCents(req.Amount),
			Custom:      true,
		}
		if err := s.billRepo.CreateLineItems(txCtx, booking.BillID, []domain.LineItem{item}); err != nil {
			return s.mapRepoError("AddCustomItem", err)
		}
		return nil
	}, models.GenerateOptions{})
}

// RecordPayment регистрирует платёж или возврат по счёту
// Платёж без идентификатора транзакции считается ручным
func (s *Service) RecordPayment(ctx context.Context, req *models.RecordPaymentRequest) (*models.PaymentResponse, error) {
	s.logger.Info("RecordPayment: bill id=%d by user=%d, amount=%.2f", req.BillID, req.UserID, req.PaidAmount)

	if req.PaidAmount == 0 || req.PaidAmount > domain.MaxPaymentAmount || req.PaidAmount < -domain.MaxPaymentAmount {
		s.logger.Warn("RecordPayment: invalid amount=%.2f", req.PaidAmount)
		return nil, fmt.Errorf("%w: paid amount must be non-zero and at most %.2f", ErrInvalidInput, domain.MaxPaymentAmount)
	}

	if _, err := s.administeredBill(ctx, "RecordPayment", req.BillID, req.UserID); err != nil {
		return nil, err
	}

	transactionID := req.TransactionID
	if transactionID == nil || *transactionID == "" {
		transactionID = ptr.Ptr(domain.ManualTransactionID)
	}
	paymentDate := s.timeProvider.Now().UTC()
	if req.PaymentDate != nil {
		paymentDate = *req.PaymentDate
	}

	payment, err := s.billRepo.CreatePayment(ctx, &domain.Payment{
		BillID:         req.BillID,
		UserID:         req.PayerID,
		PaymentDate:    paymentDate,
		PaymentService: req.PaymentService,
		PaymentMethod:  req.PaymentMethod,
		PaidAmount:     types.RoundCents(req.PaidAmount),
		TransactionID:  transactionID,
	})
	if err != nil {
		s.logger.Error("RecordPayment: failed for bill id=%d: %v", req.BillID, err)
		return nil, s.mapRepoError("RecordPayment", err)
	}

	kind := kindPayment
	if payment.IsRefund() {
		kind = kindRefund
	}
	s.metrics.IncPaymentRecorded(kind)

	s.logger.Info("RecordPayment: %s id=%d recorded for bill id=%d", kind, payment.ID, req.BillID)
	response := models.FromDomainPayment(*payment)
	return &response, nil
}

// PaymentFees разбивает каждый платёж счёта на сборы гостя, сборы дома и долю дома
func (s *Service) PaymentFees(ctx context.Context, billID, userID int64) ([]models.PaymentFeesResponse, error) {
	s.logger.Info("PaymentFees: bill id=%d by user=%d", billID, userID)

	if _, err := s.administeredBill(ctx, "PaymentFees", billID, userID); err != nil {
		return nil, err
	}

	bill, err := s.billRepo.GetByID(ctx, billID)
	if err != nil {
		return nil, s.mapRepoError("PaymentFees", err)
	}

	result := make([]models.PaymentFeesResponse, 0, len(bill.Payments))
	for _, p := range bill.TimeOrderedPayments() {
		related := []domain.Payment{p}
		if !p.IsManual() {
			related, err = s.billRepo.ListPaymentsByTransaction(ctx, *p.TransactionID)
			if err != nil {
				s.logger.Error("PaymentFees: failed to list payments of transaction %s: %v", *p.TransactionID, err)
				return nil, s.mapRepoError("PaymentFees", err)
			}
		}
		result = append(result, models.FromAllocation(p, domain.AllocatePayment(bill, p), related))
	}

	return result, nil
}

// inTx выполняет change и пересчитывает счёт в одной сериализуемой транзакции
func (s *Service) inTx(
	ctx context.Context,
	op string,
	bookingID int64,
	change func(txCtx context.Context, booking *domain.Booking) error,
	opts models.GenerateOptions,
) (*models.BillResponse, error) {
	var bill *domain.Bill
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			return s.mapRepoError(op, err)
		}
		if err := change(txCtx, booking); err != nil {
			return err
		}
		bill, err = s.GenerateBill(txCtx, bookingID, opts)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			s.logger.Error("%s: failed for booking id=%d: %v", op, bookingID, err)
		}
		return nil, err
	}

	s.logger.Info("%s: booking id=%d done, bill amount=%s", op, bookingID, types.Money(bill.Amount()))
	return models.FromDomainBill(bill), nil
}

// administeredBooking проверяет, что пользователь администрирует локацию бронирования
func (s *Service) administeredBooking(ctx context.Context, op string, bookingID, userID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, bookingID)
		}
		return nil, s.mapRepoError(op, err)
	}

	_, location, err := s.bookingContext(ctx, op, booking)
	if err != nil {
		return nil, err
	}
	if !location.IsHouseAdmin(userID) {
		s.logger.Warn("%s: user=%d is not an admin of location id=%d", op, userID, location.ID)
		return nil, ErrAccessDenied
	}

	return booking, nil
}

// administeredBill проверяет, что пользователь администрирует локацию бронирования счёта
func (s *Service) administeredBill(ctx context.Context, op string, billID, userID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByBillID(ctx, billID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: bill id=%d has no booking", op, billID)
			return nil, ErrBillNotFound
		}
		return nil, s.mapRepoError(op, err)
	}
	return s.administeredBooking(ctx, op, booking.ID, userID)
}

func (s *Service) bookingContext(ctx context.Context, op string, booking *domain.Booking) (*domain.Use, *domain.Location, error) {
	use, err := s.useRepo.GetByID(ctx, booking.UseID)
	if err != nil {
		return nil, nil, s.mapRepoError(op, err)
	}
	location, err := s.locationRepo.GetByID(ctx, use.LocationID)
	if err != nil {
		return nil, nil, s.mapRepoError(op, err)
	}
	return use, location, nil
}

// mapRepoError переводит ошибки репозиториев в ошибки сервиса
func (s *Service) mapRepoError(op string, err error) error {
	switch {
	case errors.Is(err, bookingRepo.ErrBookingNotFound),
		errors.Is(err, useRepo.ErrUseNotFound),
		errors.Is(err, resourceRepo.ErrResourceNotFound),
		errors.Is(err, locationRepo.ErrLocationNotFound):
		return ErrBookingNotFound
	case errors.Is(err, billRepo.ErrBillNotFound):
		return ErrBillNotFound
	default:
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}
