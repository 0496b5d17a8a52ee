package models

import (
	"time"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
	"github.com/m04kA/SMC-LodgingService/pkg/types"
)

// PreviewID идентификатор несохранённого счёта в предпросмотре
const PreviewID int64 = -1

// RegenerateRequest запрос на пересчёт счёта бронирования
type RegenerateRequest struct {
	BookingID int64
	UserID    int64
	GenerateOptions
}

// SetRateRequest запрос на установку индивидуальной ставки
type SetRateRequest struct {
	BookingID int64 `json:"-"`
	UserID    int64 `json:"-"`
	// Rate nil трактуется как 0
	Rate *float64 `json:"rate" validate:"omitempty,gte=0,lte=9999999.99"`
}

// CustomItemRequest запрос на добавление ручной корректировки
type CustomItemRequest struct {
	BookingID   int64   `json:"-"`
	UserID      int64   `json:"-"`
	Description string  `json:"description" validate:"required,max=200"`
	Amount      float64 `json:"amount" validate:"required,gte=-99999.99,lte=99999.99"`
}

// RecordPaymentRequest запрос на регистрацию платежа или возврата
type RecordPaymentRequest struct {
	BillID         int64      `json:"-"`
	UserID         int64      `json:"-"`
	PayerID        *int64     `json:"user_id,omitempty"`
	PaidAmount     float64    `json:"paid_amount" validate:"required,gte=-99999.99,lte=99999.99"`
	PaymentService *string    `json:"payment_service,omitempty" validate:"omitempty,max=200"`
	PaymentMethod  *string    `json:"payment_method,omitempty" validate:"omitempty,max=200"`
	TransactionID  *string    `json:"transaction_id,omitempty" validate:"omitempty,max=200"`
	PaymentDate    *time.Time `json:"payment_date,omitempty"`
}

// LineItemResponse строка счёта
type LineItemResponse struct {
	ID          int64       `json:"id"`
	Description string      `json:"description"`
	Amount      types.Money `json:"amount"`
	PaidByHouse bool        `json:"paid_by_house"`
	Custom      bool        `json:"custom"`
	FeeID       *int64      `json:"fee_id,omitempty"`
}

// PaymentResponse платёж по счёту
type PaymentResponse struct {
	ID             int64       `json:"id"`
	BillID         int64       `json:"bill_id"`
	UserID         *int64      `json:"user_id,omitempty"`
	PaymentDate    time.Time   `json:"payment_date"`
	PaymentService *string     `json:"payment_service,omitempty"`
	PaymentMethod  *string     `json:"payment_method,omitempty"`
	PaidAmount     types.Money `json:"paid_amount"`
	TransactionID  *string     `json:"transaction_id,omitempty"`
	IsRefund       bool        `json:"is_refund"`
}

// BillResponse счёт с агрегатами
type BillResponse struct {
	ID             int64              `json:"id"`
	GeneratedOn    *time.Time         `json:"generated_on,omitempty"`
	Comment        *string            `json:"comment,omitempty"`
	Amount         types.Money        `json:"amount"`
	Subtotal       types.Money        `json:"subtotal"`
	TotalPaid      types.Money        `json:"total_paid"`
	TotalOwed      types.Money        `json:"total_owed"`
	TotalOwedCents int64              `json:"total_owed_in_cents"`
	NonHouseFees   types.Money        `json:"non_house_fees"`
	HouseFees      types.Money        `json:"house_fees"`
	ToHouse        types.Money        `json:"to_house"`
	IsPaid         bool               `json:"is_paid"`
	LineItems      []LineItemResponse `json:"line_items"`
	Payments       []PaymentResponse  `json:"payments"`
}

// PaymentFeesResponse разбивка платежа по сборам
type PaymentFeesResponse struct {
	PaymentID    int64       `json:"payment_id"`
	Paid         types.Money `json:"paid"`
	NonHouseFees types.Money `json:"non_house_fees"`
	HouseFees    types.Money `json:"house_fees"`
	ToHouse      types.Money `json:"to_house"`
	NetPaid      types.Money `json:"net_paid"`
	FullyRefund  bool        `json:"is_fully_refunded"`
}

// FromDomainLineItem конвертирует строку счёта
func FromDomainLineItem(li domain.LineItem) LineItemResponse {
	resp := LineItemResponse{
		ID:          li.ID,
		Description: li.Description,
		Amount:      types.Money(li.Amount),
		PaidByHouse: li.PaidByHouse,
		Custom:      li.Custom,
	}
	if li.Fee != nil {
		feeID := li.Fee.ID
		resp.FeeID = &feeID
	}
	return resp
}

// FromDomainPayment конвертирует платёж
func FromDomainPayment(p domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:             p.ID,
		BillID:         p.BillID,
		UserID:         p.UserID,
		PaymentDate:    p.PaymentDate,
		PaymentService: p.PaymentService,
		PaymentMethod:  p.PaymentMethod,
		PaidAmount:     types.Money(p.PaidAmount),
		TransactionID:  p.TransactionID,
		IsRefund:       p.IsRefund(),
	}
}

// FromDomainBill конвертирует счёт, строки идут в порядке базовая, ручные, сборы
func FromDomainBill(b *domain.Bill) *BillResponse {
	items := b.OrderedLineItems()
	lineItems := make([]LineItemResponse, 0, len(items))
	for _, li := range items {
		lineItems = append(lineItems, FromDomainLineItem(li))
	}

	ordered := b.TimeOrderedPayments()
	payments := make([]PaymentResponse, 0, len(ordered))
	for _, p := range ordered {
		payments = append(payments, FromDomainPayment(p))
	}

	resp := &BillResponse{
		ID:             b.ID,
		Comment:        b.Comment,
		Amount:         types.Money(b.Amount()),
		Subtotal:       types.Money(b.SubtotalAmount()),
		TotalPaid:      types.Money(b.TotalPaid()),
		TotalOwed:      types.Money(b.TotalOwed()),
		TotalOwedCents: b.TotalOwedInCents(),
		NonHouseFees:   types.Money(b.NonHouseFees()),
		HouseFees:      types.Money(b.HouseFees()),
		ToHouse:        types.Money(b.ToHouse()),
		IsPaid:         b.IsPaid(),
		LineItems:      lineItems,
		Payments:       payments,
	}
	if !b.GeneratedOn.IsZero() {
		generatedOn := b.GeneratedOn
		resp.GeneratedOn = &generatedOn
	}
	return resp
}

// FromAllocation конвертирует разбивку платежа
func FromAllocation(p domain.Payment, fees domain.PaymentFees, related []domain.Payment) PaymentFeesResponse {
	return PaymentFeesResponse{
		PaymentID:    p.ID,
		Paid:         types.Money(fees.Paid),
		NonHouseFees: types.Money(fees.NonHouseFees),
		HouseFees:    types.Money(fees.HouseFees),
		ToHouse:      types.Money(fees.ToHouse),
		NetPaid:      types.Money(p.NetPaid(related)),
		FullyRefund:  p.IsFullyRefunded(related),
	}
}

// GenerateOptions режим генерации счёта
type GenerateOptions struct {
	// Preview только рассчитать строки, ничего не сохраняя
	Preview bool
	// ResetSuppressed включить обратно отключённые сборы
	ResetSuppressed bool
}
