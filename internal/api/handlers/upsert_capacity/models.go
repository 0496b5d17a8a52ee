package upsert_capacity

import (
	"github.com/m04kA/SMC-LodgingService/internal/service/capacity/models"
	"github.com/m04kA/SMC-LodgingService/pkg/dates"
)

// UpsertCapacityRequest HTTP модель запроса на изменение вместимости
type UpsertCapacityRequest struct {
	StartDate  string `json:"start_date" validate:"required"` // YYYY-MM-DD
	Quantity   *int   `json:"quantity" validate:"required,gte=0,lte=1000"`
	AcceptDrft bool   `json:"accept_drft"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpsertCapacityRequest) ToServiceRequest(resourceID, userID int64) (*models.UpsertRequest, error) {
	start, err := dates.Parse(r.StartDate)
	if err != nil {
		return nil, err
	}

	return &models.UpsertRequest{
		UserID:     userID,
		ResourceID: resourceID,
		StartDate:  start,
		Quantity:   *r.Quantity,
		AcceptDrft: r.AcceptDrft,
	}, nil
}
