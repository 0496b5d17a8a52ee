package slack

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("slack client: internal error")

	// ErrRejected возвращается, когда Slack не принял сообщение
	ErrRejected = errors.New("slack client: message rejected")
)
