package models

import (
	"time"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
	"github.com/m04kA/SMC-LodgingService/pkg/dates"
)

// UpsertRequest запрос на создание или изменение ступени вместимости
type UpsertRequest struct {
	UserID     int64
	ResourceID int64
	StartDate  time.Time
	Quantity   int
	AcceptDrft bool
}

// CapacityResponse сериализованное изменение вместимости
type CapacityResponse struct {
	ID         int64  `json:"id"`
	ResourceID int64  `json:"resource"`
	StartDate  string `json:"start_date"`
	Quantity   int    `json:"quantity"`
	AcceptDrft bool   `json:"accept_drft"`
}

// ResourceCapacityResponse текущая и будущие ступени вместимости ресурса
type ResourceCapacityResponse struct {
	ResourceID int64              `json:"resource"`
	Capacities []CapacityResponse `json:"capacities"`
}

// CommandResult результат команды: данные, ошибки и предупреждения
type CommandResult struct {
	Result   interface{} `json:"result"`
	Errors   []string    `json:"errors"`
	Warnings []string    `json:"warnings"`
	// Status HTTP статус, который должен вернуть обработчик
	Status int `json:"-"`
}

// NewCommandResult создает пустой результат со статусом 200
func NewCommandResult() *CommandResult {
	return &CommandResult{
		Errors:   make([]string, 0),
		Warnings: make([]string, 0),
		Status:   200,
	}
}

// HasErrors есть ли в результате ошибки
func (r *CommandResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// FromDomainCapacity конвертирует изменение вместимости в ответ
func FromDomainCapacity(c domain.CapacityChange) CapacityResponse {
	return CapacityResponse{
		ID:         c.ID,
		ResourceID: c.ResourceID,
		StartDate:  c.StartDate.Format(dates.Layout),
		Quantity:   c.Quantity,
		AcceptDrft: c.AcceptDrft,
	}
}

// FromTimeline сериализует действующую и будущие ступени шкалы
func FromTimeline(timeline *domain.Timeline, today time.Time) ResourceCapacityResponse {
	changes := timeline.CurrentAndFuture(today)
	capacities := make([]CapacityResponse, 0, len(changes))
	for _, c := range changes {
		capacities = append(capacities, FromDomainCapacity(c))
	}
	return ResourceCapacityResponse{
		ResourceID: timeline.ResourceID(),
		Capacities: capacities,
	}
}
