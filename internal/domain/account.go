package domain

import (
	"fmt"
	"time"
)

// Currency валюта счетов
type Currency struct {
	ID     int64
	Name   string
	Symbol string
}

// AccountType тип счёта
type AccountType string

const (
	AccountTypeCredit AccountType = "credit"
	AccountTypeDebit  AccountType = "debit"
)

// Account счёт в валюте, может принадлежать нескольким пользователям
type Account struct {
	ID         int64
	CurrencyID int64
	Name       string
	Type       AccountType
	OwnerIDs   []int64
	CreatedAt  time.Time
}

// IsOwnedBy является ли пользователь владельцем счёта
func (a Account) IsOwnedBy(userID int64) bool {
	for _, id := range a.OwnerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// BackingAccountName имя счёта поддержки, например "Room 1 USD Account: Backing 7"
func BackingAccountName(resourceName, currency string, backingID int64) string {
	return fmt.Sprintf("%s %s Account: Backing %d", resourceName, currency, backingID)
}

// PrimaryAccountName имя основного счёта пользователя
func PrimaryAccountName(username, currency string) string {
	return fmt.Sprintf("%s (%s)", username, currency)
}
