package models

import (
	"time"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
	"github.com/m04kA/SMC-LodgingService/pkg/dates"
)

// SetNextBackingRequest запрос на замену поддержки ресурса
type SetNextBackingRequest struct {
	ResourceID int64     `json:"-"`
	UserID     int64     `json:"-"`
	BackerIDs  []int64   `json:"backers" validate:"required,min=1,dive,gt=0"`
	Start      time.Time `json:"-"`
}

// BackingResponse поддержка ресурса
type BackingResponse struct {
	ID             int64   `json:"id"`
	ResourceID     int64   `json:"resource"`
	MoneyAccountID int64   `json:"money_account"`
	DrftAccountID  int64   `json:"drft_account"`
	Backers        []int64 `json:"backers"`
	Start          string  `json:"start"`
	End            *string `json:"end"`
}

// ResourceBackingsResponse поддержки ресурса относительно сегодняшнего дня
type ResourceBackingsResponse struct {
	ResourceID int64             `json:"resource"`
	Current    *BackingResponse  `json:"current"`
	Scheduled  []BackingResponse `json:"scheduled"`
	Latest     *BackingResponse  `json:"latest"`
}

// FromDomainBacking конвертирует поддержку
func FromDomainBacking(b domain.Backing) BackingResponse {
	resp := BackingResponse{
		ID:             b.ID,
		ResourceID:     b.ResourceID,
		MoneyAccountID: b.MoneyAccountID,
		DrftAccountID:  b.DrftAccountID,
		Backers:        b.UserIDs,
		Start:          b.Start.Format(dates.Layout),
	}
	if resp.Backers == nil {
		resp.Backers = make([]int64, 0)
	}
	if b.End != nil {
		end := b.End.Format(dates.Layout)
		resp.End = &end
	}
	return resp
}

// FromBackings собирает текущую, запланированные и последнюю поддержки
func FromBackings(resourceID int64, backings []domain.Backing, today time.Time) ResourceBackingsResponse {
	resp := ResourceBackingsResponse{
		ResourceID: resourceID,
		Scheduled:  make([]BackingResponse, 0),
	}
	if current, ok := domain.CurrentBacking(backings, today); ok {
		c := FromDomainBacking(current)
		resp.Current = &c
	}
	for _, b := range domain.ScheduledFutureBackings(backings, today) {
		resp.Scheduled = append(resp.Scheduled, FromDomainBacking(b))
	}
	if latest, ok := domain.LatestBacking(backings); ok {
		l := FromDomainBacking(latest)
		resp.Latest = &l
	}
	return resp
}
