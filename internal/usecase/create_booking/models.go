package create_booking

import (
	"time"

	bookingModels "github.com/m04kA/SMC-LodgingService/internal/service/bookings/models"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID      int64     // ID гостя
	ResourceID  int64     // ID ресурса (комнаты)
	Arrive      time.Time // Дата заезда (без времени)
	Depart      time.Time // Дата выезда (без времени), не включается в проживание
	ArrivalTime *string   // Ожидаемое время прибытия (опционально)
	Purpose     string    // Цель поездки
	Comments    *string   // Комментарий для хозяев (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking *bookingModels.BookingResponse
	// SuggestDrft предложить оплату в DRFT: ресурс принимает DRFT на все ночи
	// и у гостя достаточно DRFT
	SuggestDrft bool
}
