package get_availability

import (
	"net/url"
	"time"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
	getAvailability "github.com/m04kA/SMC-LodgingService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-LodgingService/pkg/dates"
	"github.com/m04kA/SMC-LodgingService/pkg/types"
)

// DailyQuantityResponse свободные места на день
type DailyQuantityResponse struct {
	Date     string `json:"date"`
	Quantity int    `json:"quantity"`
}

// RoomResponse краткие данные комнаты
type RoomResponse struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	DefaultRate types.Money `json:"default_rate"`
	Summary     string      `json:"summary"`
}

// RoomAvailabilityResponse свободные места комнаты по дням
type RoomAvailabilityResponse struct {
	Room RoomResponse            `json:"room"`
	Days []DailyQuantityResponse `json:"days"`
}

// ResourceAvailabilityResponse HTTP модель доступности ресурса
type ResourceAvailabilityResponse struct {
	ResourceID            int64                   `json:"resource"`
	Arrive                string                  `json:"arrive"`
	Depart                string                  `json:"depart"`
	Availabilities        []DailyQuantityResponse `json:"availabilities"`
	HasFutureDrftCapacity bool                    `json:"has_future_drft_capacity"`
	MaxBookingDays        int                     `json:"max_booking_days"`
}

// LocationAvailabilityResponse HTTP модель доступности локации
type LocationAvailabilityResponse struct {
	LocationID              int64                      `json:"location"`
	Arrive                  string                     `json:"arrive"`
	Depart                  string                     `json:"depart"`
	FreeRooms               []RoomResponse             `json:"free_rooms"`
	Rooms                   []RoomAvailabilityResponse `json:"rooms"`
	RoomsWithFutureCapacity []RoomResponse             `json:"rooms_with_future_capacity"`
}

// parseWindow читает необязательные query параметры arrive и depart
func parseWindow(query url.Values) (*time.Time, *time.Time, error) {
	arrive, err := parseOptionalDate(query.Get("arrive"))
	if err != nil {
		return nil, nil, err
	}
	depart, err := parseOptionalDate(query.Get("depart"))
	if err != nil {
		return nil, nil, err
	}
	return arrive, depart, nil
}

func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	day, err := dates.Parse(value)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func fromDailyQuantities(days []domain.DailyQuantity) []DailyQuantityResponse {
	out := make([]DailyQuantityResponse, 0, len(days))
	for _, d := range days {
		out = append(out, DailyQuantityResponse{Date: d.Date.Format(dates.Layout), Quantity: d.Quantity})
	}
	return out
}

func fromRooms(rooms []domain.Resource) []RoomResponse {
	out := make([]RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, RoomResponse{
			ID:          room.ID,
			Name:        room.Name,
			DefaultRate: types.Money(room.DefaultRate),
			Summary:     room.Summary,
		})
	}
	return out
}

// FromResourceResponse конвертирует ответ use case в HTTP модель
func FromResourceResponse(resp *getAvailability.ResourceResponse) *ResourceAvailabilityResponse {
	return &ResourceAvailabilityResponse{
		ResourceID:            resp.ResourceID,
		Arrive:                resp.Arrive.Format(dates.Layout),
		Depart:                resp.Depart.Format(dates.Layout),
		Availabilities:        fromDailyQuantities(resp.Availabilities),
		HasFutureDrftCapacity: resp.HasFutureDrftCapacity,
		MaxBookingDays:        resp.MaxBookingDays,
	}
}

// FromLocationResponse конвертирует ответ use case в HTTP модель
func FromLocationResponse(resp *getAvailability.LocationResponse) *LocationAvailabilityResponse {
	rooms := make([]RoomAvailabilityResponse, 0, len(resp.Rooms))
	for _, room := range resp.Rooms {
		rooms = append(rooms, RoomAvailabilityResponse{
			Room: fromRooms([]domain.Resource{room.Resource})[0],
			Days: fromDailyQuantities(room.Days),
		})
	}

	return &LocationAvailabilityResponse{
		LocationID:              resp.LocationID,
		Arrive:                  resp.Arrive.Format(dates.Layout),
		Depart:                  resp.Depart.Format(dates.Layout),
		FreeRooms:               fromRooms(resp.FreeRooms),
		Rooms:                   rooms,
		RoomsWithFutureCapacity: fromRooms(resp.RoomsWithFutureCapacity),
	}
}
