package get_availability

import (
	"time"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
)

// ResourceRequest модель запроса доступности ресурса
type ResourceRequest struct {
	ResourceID int64      // ID ресурса
	Arrive     *time.Time // Начало окна, по умолчанию сегодня
	Depart     *time.Time // Конец окна (не включается), по умолчанию Arrive + 13 дней
}

// ResourceResponse модель ответа с доступностью ресурса по дням
type ResourceResponse struct {
	ResourceID int64
	Arrive     time.Time
	Depart     time.Time
	// Availabilities свободные места по дням окна
	Availabilities []domain.DailyQuantity
	// HasFutureDrftCapacity ресурс будет принимать DRFT сегодня или позже
	HasFutureDrftCapacity bool
	// MaxBookingDays максимальная длина проживания в локации ресурса
	MaxBookingDays int
}

// LocationRequest модель запроса доступности локации
type LocationRequest struct {
	LocationID int64
	Arrive     *time.Time
	Depart     *time.Time
}

// LocationResponse модель ответа с доступностью всех комнат локации
type LocationResponse struct {
	LocationID int64
	Arrive     time.Time
	Depart     time.Time
	// FreeRooms комнаты, свободные на всём окне
	FreeRooms []domain.Resource
	// Rooms свободные места по комнатам и дням
	Rooms []domain.RoomDailyFree
	// RoomsWithFutureCapacity комнаты, которые можно забронировать сегодня или позже
	RoomsWithFutureCapacity []domain.Resource
}
