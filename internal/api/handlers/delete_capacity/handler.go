package delete_capacity

import (
	"net/http"

	"github.com/m04kA/SMC-LodgingService/internal/api/handlers"
	"github.com/m04kA/SMC-LodgingService/internal/api/middleware"
)

const (
	msgInvalidCapacityID = "некорректный ID изменения вместимости"
	msgMissingUserID     = "отсутствует ID пользователя"
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

// Handle DELETE /api/v1/capacities/{capacityId}
// HTTP статус берётся из результата команды
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	capacityID, err := handlers.PathInt64(r, "capacityId")
	if err != nil {
		h.logger.Warn("DELETE /capacities/{id} - Invalid capacity ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCapacityID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /capacities/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.Delete(r.Context(), capacityID, userID)
	if err != nil {
		h.logger.Error("DELETE /capacities/{id} - Failed: capacity_id=%d, error=%v", capacityID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /capacities/{id} - Done: capacity_id=%d, status=%d", capacityID, result.Status)
	handlers.RespondJSON(w, result.Status, result)
}
