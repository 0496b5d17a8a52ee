package mailer

import "errors"

var (
	// ErrNoRecipients возвращается, когда у письма нет получателей
	ErrNoRecipients = errors.New("mailer client: message has no recipients")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("mailer client: internal error")

	// ErrDeliveryFailed возвращается, когда почтовый сервис отклонил письмо
	ErrDeliveryFailed = errors.New("mailer client: delivery failed")
)
