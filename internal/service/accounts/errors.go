package accounts

import "errors"

var (
	// ErrUnknownCurrency возвращается для валюты, которую сервис не ведёт
	ErrUnknownCurrency = errors.New("unknown currency")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
