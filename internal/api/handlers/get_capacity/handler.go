package get_capacity

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LodgingService/internal/api/handlers"
	"github.com/m04kA/SMC-LodgingService/internal/service/capacity"
)

const (
	msgInvalidCapacityID = "некорректный ID изменения вместимости"
	msgNotFound          = "изменение вместимости не найдено"
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

// Handle GET /api/v1/capacities/{capacityId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	capacityID, err := handlers.PathInt64(r, "capacityId")
	if err != nil {
		h.logger.Warn("GET /capacities/{id} - Invalid capacity ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCapacityID)
		return
	}

	change, err := h.service.GetByID(r.Context(), capacityID)
	if err != nil {
		if errors.Is(err, capacity.ErrCapacityNotFound) {
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /capacities/{id} - Failed: capacity_id=%d, error=%v", capacityID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, change)
}
