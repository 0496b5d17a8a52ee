package models

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
	billingModels "github.com/m04kA/SMC-LodgingService/internal/service/billing/models"
	"github.com/m04kA/SMC-LodgingService/pkg/types"
)

// Request модели

// UpdateStatusRequest запрос на смену статуса проживания
type UpdateStatusRequest struct {
	BookingID int64  `json:"-"`
	UserID    int64  `json:"-"`
	Status    string `json:"status" validate:"required,oneof=pending approved confirmed house_declined user_declined canceled"`
}

// Response модели

// LocationRef краткие данные локации
type LocationRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ResourceRef краткие данные ресурса
type ResourceRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          int64                       `json:"id"`
	UUID        *uuid.UUID                  `json:"uuid,omitempty"`
	UseID       int64                       `json:"use_id"`
	UserID      int64                       `json:"user"`
	Location    LocationRef                 `json:"location"`
	Resource    ResourceRef                 `json:"resource"`
	Status      string                      `json:"status"`
	Arrive      types.DateParts             `json:"arrive"`
	Depart      types.DateParts             `json:"depart"`
	Nights      int                         `json:"nights"`
	ArrivalTime *string                     `json:"arrival_time"`
	Purpose     string                      `json:"purpose"`
	Comments    *string                     `json:"comments"`
	Rate        types.Money                 `json:"rate"`
	IsComped    bool                        `json:"is_comped"`
	AccountedBy string                      `json:"accounted_by,omitempty"`
	Bill        *billingModels.BillResponse `json:"bill,omitempty"`
}

// BookingListResponse список бронирований
type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
	Total    int                `json:"total"`
}

// BookingView всё, что нужно для сериализации бронирования
type BookingView struct {
	Booking  *domain.Booking
	Use      *domain.Use
	Resource *domain.Resource
	Location *domain.Location
	Bill     *domain.Bill
}

// FromView конвертирует бронирование со связанными сущностями в ответ
// Несохранённое бронирование (ID == 0) сериализуется с идентификатором -1
func FromView(v BookingView) *BookingResponse {
	resp := &BookingResponse{
		ID:     v.Booking.ID,
		UseID:  v.Use.ID,
		UserID: v.Use.UserID,
		Location: LocationRef{
			ID:   v.Location.ID,
			Name: v.Location.Name,
			Slug: v.Location.Slug,
		},
		Resource: ResourceRef{
			ID:   v.Resource.ID,
			Name: v.Resource.Name,
		},
		Status:      string(v.Use.Status),
		Arrive:      types.NewDateParts(v.Use.Arrive),
		Depart:      types.NewDateParts(v.Use.Depart),
		Nights:      v.Use.TotalNights(),
		ArrivalTime: v.Use.ArrivalTime,
		Purpose:     v.Use.Purpose,
		Comments:    v.Booking.Comments,
		Rate:        types.Money(v.Booking.EffectiveRate(v.Resource.DefaultRate)),
		IsComped:    v.Booking.IsComped(),
		AccountedBy: string(v.Use.AccountedBy),
	}

	if v.Booking.ID == 0 {
		resp.ID = billingModels.PreviewID
		resp.UseID = billingModels.PreviewID
	} else {
		id := v.Booking.UUID
		resp.UUID = &id
	}

	if v.Bill != nil {
		resp.Bill = billingModels.FromDomainBill(v.Bill)
		if v.Booking.ID == 0 {
			resp.Bill.ID = billingModels.PreviewID
		}
	}

	return resp
}
