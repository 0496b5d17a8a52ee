package resource_backings

import (
	"github.com/m04kA/SMC-LodgingService/internal/service/backing/models"
	"github.com/m04kA/SMC-LodgingService/pkg/dates"
)

// SetNextBackingRequest HTTP модель запроса на новую поддержку ресурса
type SetNextBackingRequest struct {
	Backers []int64 `json:"backers" validate:"required,min=1,dive,gt=0"`
	Start   string  `json:"start" validate:"required"` // YYYY-MM-DD
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *SetNextBackingRequest) ToServiceRequest(resourceID, userID int64) (*models.SetNextBackingRequest, error) {
	start, err := dates.Parse(r.Start)
	if err != nil {
		return nil, err
	}

	return &models.SetNextBackingRequest{
		ResourceID: resourceID,
		UserID:     userID,
		BackerIDs:  r.Backers,
		Start:      start,
	}, nil
}
