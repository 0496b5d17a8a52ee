package upsert_capacity

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LodgingService/internal/api/handlers"
	"github.com/m04kA/SMC-LodgingService/internal/api/middleware"
	"github.com/m04kA/SMC-LodgingService/internal/service/capacity"
)

const (
	msgInvalidResourceID  = "некорректный ID ресурса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidQuantity    = "некорректная вместимость"
	msgResourceNotFound   = "ресурс не найден"
)

type Handler struct {
	service CapacityService
	logger  Logger
}

func NewHandler(service CapacityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/resources/{resourceId}/capacities
// Ответ всегда конверт CommandResult: отклонённое изменение попадает в errors
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := handlers.PathInt64(r, "resourceId")
	if err != nil {
		h.logger.Warn("PUT /resources/{id}/capacities - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /resources/{id}/capacities - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpsertCapacityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /resources/{id}/capacities - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.ValidateStruct(req); err != nil {
		h.logger.Warn("PUT /resources/{id}/capacities - Validation failed: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuantity)
		return
	}

	serviceReq, err := req.ToServiceRequest(resourceID, userID)
	if err != nil {
		h.logger.Warn("PUT /resources/{id}/capacities - Invalid start date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.Upsert(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, capacity.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidQuantity)

		case errors.Is(err, capacity.ErrResourceNotFound):
			h.logger.Warn("PUT /resources/{id}/capacities - Resource not found: resource_id=%d, user_id=%d", resourceID, userID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		default:
			h.logger.Error("PUT /resources/{id}/capacities - Failed: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /resources/{id}/capacities - Done: resource_id=%d, errors=%d, warnings=%d",
		resourceID, len(result.Errors), len(result.Warnings))
	handlers.RespondJSON(w, result.Status, result)
}
