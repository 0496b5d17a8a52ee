package models

import (
	"github.com/m04kA/SMC-LodgingService/internal/domain"
	"github.com/m04kA/SMC-LodgingService/pkg/types"
)

// PrimaryAccountRequest запрос основного счёта пользователя в валюте
type PrimaryAccountRequest struct {
	UserID   int64  `json:"-"`
	Currency string `json:"currency" validate:"required,oneof=USD DRFT"`
}

// CurrencyResponse валюта
type CurrencyResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// AccountResponse счёт пользователя
type AccountResponse struct {
	ID       int64            `json:"id"`
	Name     string           `json:"name"`
	Type     string           `json:"type"`
	Currency CurrencyResponse `json:"currency"`
	Owners   []int64          `json:"owners"`
	Balance  types.Money      `json:"balance"`
}

// PrimaryAccountResponse основной счёт и признак того, что он только что создан
type PrimaryAccountResponse struct {
	Account AccountResponse `json:"account"`
	Created bool            `json:"created"`
}

// DrftBalanceResponse баланс DRFT пользователя
type DrftBalanceResponse struct {
	UserID  int64       `json:"user"`
	Balance types.Money `json:"balance"`
	Symbol  string      `json:"symbol"`
}

// FromDomainAccount конвертирует счёт
func FromDomainAccount(a *domain.Account, c *domain.Currency, balance float64) AccountResponse {
	owners := a.OwnerIDs
	if owners == nil {
		owners = make([]int64, 0)
	}
	return AccountResponse{
		ID:   a.ID,
		Name: a.Name,
		Type: string(a.Type),
		Currency: CurrencyResponse{
			ID:     c.ID,
			Name:   c.Name,
			Symbol: c.Symbol,
		},
		Owners:  owners,
		Balance: types.Money(balance),
	}
}
