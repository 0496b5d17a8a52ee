package domain

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/m04kA/SMC-LodgingService/pkg/types"
)

// LineItem строка счёта
//
// Базовая стоимость: Fee == nil, Custom == false
// Ручная корректировка: Fee == nil, Custom == true
// Сбор: Fee != nil
type LineItem struct {
	ID          int64
	BillID      int64
	Fee         *Fee
	Description string
	Amount      float64
	PaidByHouse bool
	Custom      bool
}

// IsBase строка базовой стоимости проживания
func (li LineItem) IsBase() bool {
	return li.Fee == nil && !li.Custom
}

// IsFee строка, порождённая сбором
func (li LineItem) IsFee() bool {
	return li.Fee != nil
}

// Bill счёт: строки и платежи
type Bill struct {
	ID          int64
	GeneratedOn time.Time
	Comment     *string

	LineItems []LineItem
	Payments  []Payment
}

// Amount сумма к оплате гостем: всё, кроме сборов, оплачиваемых домом
func (b *Bill) Amount() float64 {
	amount := 0.0
	for _, li := range b.LineItems {
		if li.Fee == nil || !li.PaidByHouse {
			amount += li.Amount
		}
	}
	return amount
}

// TotalPaid сумма всех платежей, включая возвраты
func (b *Bill) TotalPaid() float64 {
	paid := 0.0
	for _, p := range b.Payments {
		paid += p.PaidAmount
	}
	return paid
}

// TotalOwed остаток к оплате
func (b *Bill) TotalOwed() float64 {
	return b.Amount() - b.TotalPaid()
}

// IsPaid счёт оплачен, если остаток не положителен
func (b *Bill) IsPaid() bool {
	return b.TotalOwed() <= 0
}

// TotalOwedInCents остаток в центах для платёжного провайдера
func (b *Bill) TotalOwedInCents() int64 {
	return types.Cents(b.TotalOwed())
}

// SubtotalItems строки до начисления сборов: сначала базовая, затем ручные
func (b *Bill) SubtotalItems() []LineItem {
	items := make([]LineItem, 0, len(b.LineItems))
	for _, li := range b.LineItems {
		if li.IsBase() {
			items = append(items, li)
		}
	}
	for _, li := range b.LineItems {
		if li.Fee == nil && li.Custom {
			items = append(items, li)
		}
	}
	return items
}

// SubtotalAmount база для начисления сборов с учётом ручных корректировок
func (b *Bill) SubtotalAmount() float64 {
	total := 0.0
	for _, li := range b.SubtotalItems() {
		total += li.Amount
	}
	return total
}

// Fees строки сборов
func (b *Bill) Fees() []LineItem {
	fees := make([]LineItem, 0)
	for _, li := range b.LineItems {
		if li.IsFee() {
			fees = append(fees, li)
		}
	}
	return fees
}

// HouseFees сумма сборов, оплачиваемых домом
func (b *Bill) HouseFees() float64 {
	return b.sumFees(true)
}

// NonHouseFees сумма сборов, оплачиваемых гостем
func (b *Bill) NonHouseFees() float64 {
	return b.sumFees(false)
}

func (b *Bill) sumFees(paidByHouse bool) float64 {
	amount := 0.0
	for _, li := range b.LineItems {
		if li.IsFee() && li.PaidByHouse == paidByHouse {
			amount += li.Amount
		}
	}
	return amount
}

// ToHouse сумма, остающаяся дому после всех сборов
func (b *Bill) ToHouse() float64 {
	return b.Amount() - b.NonHouseFees() - b.HouseFees()
}

// OrderedLineItems строки в порядке: базовая, ручные, сборы
func (b *Bill) OrderedLineItems() []LineItem {
	return append(b.SubtotalItems(), b.Fees()...)
}

// CustomItems ручные корректировки
func (b *Bill) CustomItems() []LineItem {
	items := make([]LineItem, 0)
	for _, li := range b.LineItems {
		if li.Fee == nil && li.Custom {
			items = append(items, li)
		}
	}
	return items
}

// NonRefundPayments платежи с положительной суммой
func (b *Bill) NonRefundPayments() []Payment {
	payments := make([]Payment, 0)
	for _, p := range b.Payments {
		if p.PaidAmount > 0 {
			payments = append(payments, p)
		}
	}
	return payments
}

// TimeOrderedPayments платежи по возрастанию даты
func (b *Bill) TimeOrderedPayments() []Payment {
	payments := make([]Payment, len(b.Payments))
	copy(payments, b.Payments)
	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].PaymentDate.Before(payments[j].PaymentDate)
	})
	return payments
}

// PaymentDate дата последнего платежа
func (b *Bill) PaymentDate() (time.Time, bool) {
	payments := b.TimeOrderedPayments()
	if len(payments) == 0 {
		return time.Time{}, false
	}
	return payments[len(payments)-1].PaymentDate, true
}

// BillInput данные для генерации строк счёта
type BillInput struct {
	ResourceName string
	Nights       int
	Rate         float64
	// CustomItems сохранённые ручные корректировки, переносятся без изменений
	CustomItems []LineItem
	// Fees сборы локации
	Fees []Fee
	// SuppressedFeeIDs сборы, отключённые для бронирования
	SuppressedFeeIDs []int64
}

func (in BillInput) suppressed(feeID int64) bool {
	for _, id := range in.SuppressedFeeIDs {
		if id == feeID {
			return true
		}
	}
	return false
}

// GenerateLineItems формирует строки счёта в фиксированном порядке
//
//  1. Базовая стоимость: ночи * ставка
//  2. Ручные корректировки, каждая меняет эффективную стоимость (может быть отрицательной)
//  3. По строке на каждый несупрессированный сбор: эффективная стоимость * процент
//
// Функция детерминирована: одинаковые входные данные дают одинаковые строки.
func GenerateLineItems(in BillInput) []LineItem {
	items := make([]LineItem, 0, 1+len(in.CustomItems)+len(in.Fees))

	baseCharge := types.RoundCents(float64(in.Nights) * in.Rate)
	items = append(items, LineItem{
		Description: fmt.Sprintf("%s (%d * $%s)", in.ResourceName, in.Nights, formatRate(in.Rate)),
		Amount:      baseCharge,
		PaidByHouse: false,
	})

	effectiveCharge := baseCharge
	for _, custom := range in.CustomItems {
		custom.Custom = true
		custom.Fee = nil
		items = append(items, custom)
		effectiveCharge += custom.Amount
	}

	for _, fee := range in.Fees {
		if in.suppressed(fee.ID) {
			continue
		}
		f := fee
		items = append(items, LineItem{
			Fee:         &f,
			Description: fmt.Sprintf("%s (%s%%)", fee.Description, formatPercent(fee.Percentage)),
			Amount:      types.RoundCents(effectiveCharge * fee.Percentage),
			PaidByHouse: fee.PaidByHouse,
		})
	}

	return items
}

// formatRate ставка без лишних нулей: 100 -> "100", 72.5 -> "72.50"
func formatRate(rate float64) string {
	if rate == float64(int64(rate)) {
		return strconv.FormatInt(int64(rate), 10)
	}
	return strconv.FormatFloat(rate, 'f', 2, 64)
}

// formatPercent доля в процентах: 0.05 -> "5", 0.052 -> "5.2"
func formatPercent(p float64) string {
	return strconv.FormatFloat(types.RoundCents(p*10000)/100, 'f', -1, 64)
}

// AmountOf сумма к оплате гостем по произвольному набору строк
// Используется для предпросмотра, когда счёт ещё не сохранён
func AmountOf(items []LineItem) float64 {
	b := Bill{LineItems: items}
	return b.Amount()
}
