package domain

import (
	"time"

	"github.com/m04kA/SMC-LodgingService/pkg/dates"
)

// UseStatus статус проживания
type UseStatus string

const (
	UseStatusPending       UseStatus = "pending"
	UseStatusApproved      UseStatus = "approved"
	UseStatusConfirmed     UseStatus = "confirmed"
	UseStatusHouseDeclined UseStatus = "house_declined"
	UseStatusUserDeclined  UseStatus = "user_declined"
	UseStatusCanceled      UseStatus = "canceled"
)

// ParseUseStatus проверяет и конвертирует строковый статус
func ParseUseStatus(s string) (UseStatus, error) {
	for _, status := range AllUseStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", ErrInvalidStatus
}

// Accounting способ учёта проживания
type Accounting string

const (
	AccountingFiat     Accounting = "fiat"
	AccountingFiatDrft Accounting = "fiatdrft"
	AccountingDrft     Accounting = "drft"
	AccountingBacking  Accounting = "backing"
)

// Use проживание пользователя на ресурсе в интервале [Arrive, Depart)
type Use struct {
	ID          int64
	LocationID  int64
	ResourceID  int64
	UserID      int64
	Status      UseStatus
	Arrive      time.Time
	Depart      time.Time
	ArrivalTime *string
	Purpose     string
	LastMsg     *time.Time
	AccountedBy Accounting

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DateRange интервал проживания
func (u Use) DateRange() dates.Range {
	return dates.NewRange(u.Arrive, u.Depart)
}

// TotalNights количество ночей проживания
func (u Use) TotalNights() int {
	return u.DateRange().Nights()
}

// DrftValue стоимость проживания в DRFT (одна ночь = 1 DRFT)
func (u Use) DrftValue() int {
	return u.TotalNights()
}

// NightsBetween количество ночей проживания, приходящихся на [start, end)
func (u Use) NightsBetween(start, end time.Time) int {
	return u.DateRange().NightsBetween(start, end)
}

// OccupiesCapacity занимает ли проживание место (подтверждено или одобрено)
func (u Use) OccupiesCapacity() bool {
	return u.Status == UseStatusApproved || u.Status == UseStatusConfirmed
}

// CoversDay попадает ли день в интервал проживания
func (u Use) CoversDay(day time.Time) bool {
	return u.DateRange().Covers(day)
}

// SuggestDrft предлагать ли оплату в DRFT: ресурс принимает DRFT на все ночи
// и у пользователя достаточно DRFT на балансе
func (u Use) SuggestDrft(drftable bool, drftBalance float64) bool {
	return drftable && drftBalance >= float64(u.TotalNights())
}

// IsPending, IsApproved, IsConfirmed, IsCanceled - проверки статуса
func (u Use) IsPending() bool   { return u.Status == UseStatusPending }
func (u Use) IsApproved() bool  { return u.Status == UseStatusApproved }
func (u Use) IsConfirmed() bool { return u.Status == UseStatusConfirmed }
func (u Use) IsCanceled() bool  { return u.Status == UseStatusCanceled }

// UsesFilter фильтр выборки проживаний
type UsesFilter struct {
	LocationID *int64
	ResourceID *int64
	Statuses   []UseStatus
	// Пересечение с интервалом: Depart >= OverlapStart и Arrive <= OverlapEnd
	OverlapStart *time.Time
	OverlapEnd   *time.Time
	// Точные даты заезда/выезда (для рассылок)
	ArriveOn *time.Time
	DepartOn *time.Time
}

// useTransitions допустимые исходные статусы для каждого целевого
var useTransitions = map[UseStatus][]UseStatus{
	UseStatusPending:       {UseStatusApproved, UseStatusConfirmed, UseStatusHouseDeclined, UseStatusUserDeclined, UseStatusCanceled},
	UseStatusApproved:      {UseStatusPending, UseStatusHouseDeclined},
	UseStatusConfirmed:     {UseStatusPending, UseStatusApproved},
	UseStatusHouseDeclined: {UseStatusPending, UseStatusApproved},
	UseStatusUserDeclined:  {UseStatusPending, UseStatusApproved},
	UseStatusCanceled:      {UseStatusPending, UseStatusApproved, UseStatusConfirmed},
}

// CanTransitionTo можно ли перевести проживание в статус target
func (u Use) CanTransitionTo(target UseStatus) bool {
	for _, from := range useTransitions[target] {
		if u.Status == from {
			return true
		}
	}
	return false
}

// StartsOccupying начнёт ли проживание занимать место при переходе в target
func (u Use) StartsOccupying(target UseStatus) bool {
	if u.OccupiesCapacity() {
		return false
	}
	return target == UseStatusApproved || target == UseStatusConfirmed
}
