package domain

import (
	"time"

	"github.com/google/uuid"
)

// Booking платёжная обёртка над проживанием (1:1 с Use), владеет счётом
type Booking struct {
	ID     int64
	UUID   uuid.UUID
	UseID  int64
	BillID int64
	// Rate индивидуальная ставка; nil - ставка ресурса по умолчанию
	Rate     *float64
	Comments *string

	SuppressedFeeIDs []int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBooking создаёт бронирование для проживания со своим счётом
// Счёт создаётся вместе с бронированием, бронирования без счёта не бывает
func NewBooking(useID, billID int64, comments *string) Booking {
	return Booking{
		UUID:     uuid.New(),
		UseID:    useID,
		BillID:   billID,
		Comments: comments,
	}
}

// EffectiveRate ставка за ночь с учётом индивидуальной
func (b Booking) EffectiveRate(defaultRate float64) float64 {
	if b.Rate == nil {
		return defaultRate
	}
	return *b.Rate
}

// IsComped бесплатное проживание (ставка явно установлена в 0)
func (b Booking) IsComped() bool {
	return b.Rate != nil && *b.Rate == 0
}

// IsFeeSuppressed отключён ли сбор для этого бронирования
func (b Booking) IsFeeSuppressed(feeID int64) bool {
	for _, id := range b.SuppressedFeeIDs {
		if id == feeID {
			return true
		}
	}
	return false
}

// BaseValue стоимость проживания без сборов и корректировок
func (b Booking) BaseValue(use Use, defaultRate float64) float64 {
	return float64(use.TotalNights()) * b.EffectiveRate(defaultRate)
}
