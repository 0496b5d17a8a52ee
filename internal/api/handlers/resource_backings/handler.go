package resource_backings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LodgingService/internal/api/handlers"
	"github.com/m04kA/SMC-LodgingService/internal/api/middleware"
	"github.com/m04kA/SMC-LodgingService/internal/service/backing"
)

const (
	msgInvalidResourceID  = "некорректный ID ресурса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidBackers     = "нужен хотя бы один поддерживающий"
	msgResourceNotFound   = "ресурс не найден"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service BackingService
	logger  Logger
}

func NewHandler(service BackingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// SetNext POST /api/v1/resources/{resourceId}/backings
// Закрывает текущую поддержку и удаляет запланированные
func (h *Handler) SetNext(w http.ResponseWriter, r *http.Request) {
	resourceID, userID, ok := h.identify(w, r, "POST /resources/{id}/backings")
	if !ok {
		return
	}

	var req SetNextBackingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /resources/{id}/backings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.ValidateStruct(req); err != nil {
		h.logger.Warn("POST /resources/{id}/backings - Validation failed: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBackers)
		return
	}

	serviceReq, err := req.ToServiceRequest(resourceID, userID)
	if err != nil {
		h.logger.Warn("POST /resources/{id}/backings - Invalid start date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.SetNextBacking(r.Context(), serviceReq)
	if err != nil {
		h.respondError(w, "POST /resources/{id}/backings", resourceID, userID, err)
		return
	}

	h.logger.Info("POST /resources/{id}/backings - Backing created: backing_id=%d, resource_id=%d", result.ID, resourceID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// List GET /api/v1/resources/{resourceId}/backings
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	resourceID, userID, ok := h.identify(w, r, "GET /resources/{id}/backings")
	if !ok {
		return
	}

	result, err := h.service.ListBackings(r.Context(), resourceID, userID)
	if err != nil {
		h.respondError(w, "GET /resources/{id}/backings", resourceID, userID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) identify(w http.ResponseWriter, r *http.Request, route string) (int64, int64, bool) {
	resourceID, err := handlers.PathInt64(r, "resourceId")
	if err != nil {
		h.logger.Warn("%s - Invalid resource ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return 0, 0, false
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing user ID", route)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return 0, 0, false
	}

	return resourceID, userID, true
}

func (h *Handler) respondError(w http.ResponseWriter, route string, resourceID, userID int64, err error) {
	switch {
	case errors.Is(err, backing.ErrResourceNotFound):
		handlers.RespondNotFound(w, msgResourceNotFound)

	case errors.Is(err, backing.ErrAccessDenied):
		h.logger.Warn("%s - Access denied: resource_id=%d, user_id=%d", route, resourceID, userID)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, backing.ErrInvalidInput):
		handlers.RespondBadRequest(w, msgInvalidBackers)

	default:
		h.logger.Error("%s - Failed: resource_id=%d, error=%v", route, resourceID, err)
		handlers.RespondInternalError(w)
	}
}
