package send_notifications

import (
	"context"
	"time"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
	"github.com/m04kA/SMC-LodgingService/internal/integrations/mailer"
	"github.com/m04kA/SMC-LodgingService/internal/integrations/slack"
	"github.com/m04kA/SMC-LodgingService/internal/integrations/userservice"
	bookingModels "github.com/m04kA/SMC-LodgingService/internal/service/bookings/models"
)

// LocationRepository интерфейс репозитория локаций
type LocationRepository interface {
	List(ctx context.Context) ([]*domain.Location, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Location, error)
}

// UseRepository интерфейс репозитория проживаний
type UseRepository interface {
	List(ctx context.Context, filter domain.UsesFilter) ([]*domain.Use, error)
	MarkLastMsg(ctx context.Context, id int64, at time.Time) error
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// UnpaidProvider подтверждённые неоплаченные бронирования (сервис бронирований)
type UnpaidProvider interface {
	ConfirmedButUnpaid(ctx context.Context, location *domain.Location) ([]*bookingModels.BookingResponse, error)
}

// UserDirectory имена и адреса пользователей (UserService)
type UserDirectory interface {
	GetUsers(ctx context.Context, userIDs []int64) (map[int64]*userservice.User, error)
}

// Mailer отправка писем
type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) (string, error)
}

// SlackPoster публикация в Slack
type SlackPoster interface {
	Post(ctx context.Context, payload slack.Payload) error
}

// Metrics счётчик уведомлений
type Metrics interface {
	IncNotification(kind, status string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
