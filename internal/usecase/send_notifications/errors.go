package send_notifications

import "errors"

var (
	// ErrLocationNotFound возвращается, когда локация для Slack не найдена
	ErrLocationNotFound = errors.New("send_notifications: location not found")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("send_notifications: internal error")
)
