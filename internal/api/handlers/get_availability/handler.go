package get_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LodgingService/internal/api/handlers"
	getAvailability "github.com/m04kA/SMC-LodgingService/internal/usecase/get_availability"
)

const (
	msgInvalidResourceID = "некорректный ID ресурса"
	msgInvalidLocationID = "некорректный ID локации"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRange      = "дата выезда должна быть позже даты заезда"
	msgResourceNotFound  = "ресурс не найден"
	msgLocationNotFound  = "локация не найдена"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Resource GET /api/v1/resources/{resourceId}/availability
// Query params: arrive, depart (опционально, YYYY-MM-DD)
func (h *Handler) Resource(w http.ResponseWriter, r *http.Request) {
	resourceID, err := handlers.PathInt64(r, "resourceId")
	if err != nil {
		h.logger.Warn("GET /resources/{id}/availability - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	arrive, depart, err := parseWindow(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /resources/{id}/availability - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Resource(r.Context(), &getAvailability.ResourceRequest{
		ResourceID: resourceID,
		Arrive:     arrive,
		Depart:     depart,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrResourceNotFound), errors.Is(err, getAvailability.ErrLocationNotFound):
			h.logger.Warn("GET /resources/{id}/availability - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, getAvailability.ErrInvalidDate), errors.Is(err, getAvailability.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRange)

		default:
			h.logger.Error("GET /resources/{id}/availability - Failed: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromResourceResponse(result))
}

// Location GET /api/v1/locations/{locationId}/availability
// Query params: arrive, depart (опционально, YYYY-MM-DD)
func (h *Handler) Location(w http.ResponseWriter, r *http.Request) {
	locationID, err := handlers.PathInt64(r, "locationId")
	if err != nil {
		h.logger.Warn("GET /locations/{id}/availability - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	arrive, depart, err := parseWindow(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /locations/{id}/availability - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Location(r.Context(), &getAvailability.LocationRequest{
		LocationID: locationID,
		Arrive:     arrive,
		Depart:     depart,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrLocationNotFound):
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, getAvailability.ErrInvalidDate), errors.Is(err, getAvailability.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRange)

		default:
			h.logger.Error("GET /locations/{id}/availability - Failed: location_id=%d, error=%v", locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /locations/{id}/availability - location_id=%d, free rooms=%d", locationID, len(result.FreeRooms))
	handlers.RespondJSON(w, http.StatusOK, FromLocationResponse(result))
}
