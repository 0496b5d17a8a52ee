package create_booking

import (
	bookingModels "github.com/m04kA/SMC-LodgingService/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-LodgingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-LodgingService/pkg/dates"
)

// CreateBookingRequest HTTP модель запроса на создание бронирования
type CreateBookingRequest struct {
	ResourceID  int64   `json:"resource_id" validate:"required,gt=0"`
	Arrive      string  `json:"arrive" validate:"required"` // YYYY-MM-DD
	Depart      string  `json:"depart" validate:"required"` // YYYY-MM-DD
	ArrivalTime *string `json:"arrival_time,omitempty" validate:"omitempty,max=100"`
	Purpose     string  `json:"purpose" validate:"max=500"`
	Comments    *string `json:"comments,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	arrive, err := dates.Parse(r.Arrive)
	if err != nil {
		return nil, err
	}
	depart, err := dates.Parse(r.Depart)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		UserID:      userID,
		ResourceID:  r.ResourceID,
		Arrive:      arrive,
		Depart:      depart,
		ArrivalTime: r.ArrivalTime,
		Purpose:     r.Purpose,
		Comments:    r.Comments,
	}, nil
}

// CreateBookingResponse HTTP модель ответа
type CreateBookingResponse struct {
	Booking     *bookingModels.BookingResponse `json:"booking"`
	SuggestDrft bool                           `json:"suggest_drft"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		Booking:     resp.Booking,
		SuggestDrft: resp.SuggestDrft,
	}
}
