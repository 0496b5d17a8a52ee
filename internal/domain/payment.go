package domain

import "time"

// Payment платёж по счёту; отрицательная сумма означает возврат
type Payment struct {
	ID             int64
	BillID         int64
	UserID         *int64
	PaymentDate    time.Time
	PaymentService *string
	PaymentMethod  *string
	PaidAmount     float64
	TransactionID  *string
}

// IsRefund платёж является возвратом
func (p Payment) IsRefund() bool {
	return p.PaidAmount < 0
}

// IsManual ручной платёж (наличные), не группируется по транзакции
func (p Payment) IsManual() bool {
	return p.TransactionID == nil || *p.TransactionID == ManualTransactionID
}

// SameTransaction относится ли other к той же транзакции
func (p Payment) SameTransaction(other Payment) bool {
	if p.IsManual() || other.IsManual() {
		return p.ID == other.ID
	}
	return *p.TransactionID == *other.TransactionID
}

// NetPaid нетто-сумма транзакции платежа
// related - платежи, среди которых ищутся платежи той же транзакции (включая сам p)
// Ручной платёж всегда равен собственной сумме
func (p Payment) NetPaid(related []Payment) float64 {
	if p.IsManual() {
		return p.PaidAmount
	}
	balance := 0.0
	for _, other := range related {
		if p.SameTransaction(other) {
			balance += other.PaidAmount
		}
	}
	return balance
}

// IsFullyRefunded нетто-сумма транзакции не положительна
func (p Payment) IsFullyRefunded(related []Payment) bool {
	return p.NetPaid(related) <= 0
}

// RefundPayments возвраты по той же транзакции
func (p Payment) RefundPayments(related []Payment) []Payment {
	refunds := make([]Payment, 0)
	for _, other := range related {
		if other.IsRefund() && p.SameTransaction(other) {
			refunds = append(refunds, other)
		}
	}
	return refunds
}

// FeesOnPayment доля сборов указанного класса, приходящаяся на платёж
//
// Платёж может покрывать только часть счёта (или быть частичным возвратом), поэтому
// сборы распределяются пропорционально: fraction = paid / bill.Amount,
// база = bill.SubtotalAmount * fraction, и для каждого сбора нужного класса
// добавляется база * процент. При нулевой сумме счёта доля равна 0.
func FeesOnPayment(bill *Bill, paid float64, paidByHouse bool) float64 {
	amount := bill.Amount()
	fraction := 0.0
	if amount != 0 {
		fraction = paid / amount
	}
	fractionalBase := bill.SubtotalAmount() * fraction

	total := 0.0
	for _, li := range bill.Fees() {
		if li.PaidByHouse != paidByHouse {
			continue
		}
		total += fractionalBase * li.Fee.Percentage
	}
	return total
}

// NonHouseFeesOn сборы гостя, приходящиеся на платёж
func NonHouseFeesOn(bill *Bill, p Payment) float64 {
	return FeesOnPayment(bill, p.PaidAmount, false)
}

// HouseFeesOn сборы дома, приходящиеся на платёж
func HouseFeesOn(bill *Bill, p Payment) float64 {
	return FeesOnPayment(bill, p.PaidAmount, true)
}

// ToHouseOn часть платежа, остающаяся дому
func ToHouseOn(bill *Bill, p Payment) float64 {
	return p.PaidAmount - NonHouseFeesOn(bill, p) - HouseFeesOn(bill, p)
}

// PaymentFees разбивка платежа по сборам
type PaymentFees struct {
	Paid         float64
	NonHouseFees float64
	HouseFees    float64
	ToHouse      float64
}

// AllocatePayment считает разбивку платежа по сборам
func AllocatePayment(bill *Bill, p Payment) PaymentFees {
	nonHouse := NonHouseFeesOn(bill, p)
	house := HouseFeesOn(bill, p)
	return PaymentFees{
		Paid:         p.PaidAmount,
		NonHouseFees: nonHouse,
		HouseFees:    house,
		ToHouse:      p.PaidAmount - nonHouse - house,
	}
}
