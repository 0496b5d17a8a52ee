package get_unpaid_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LodgingService/internal/api/handlers"
	"github.com/m04kA/SMC-LodgingService/internal/api/middleware"
	"github.com/m04kA/SMC-LodgingService/internal/service/bookings"
)

const (
	msgInvalidLocationID = "некорректный ID локации"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgLocationNotFound  = "локация не найдена"
	msgForbidden         = "доступ запрещен"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/locations/{locationId}/unpaid-bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	locationID, err := handlers.PathInt64(r, "locationId")
	if err != nil {
		h.logger.Warn("GET /locations/{id}/unpaid-bookings - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /locations/{id}/unpaid-bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.UnpaidBookings(r.Context(), locationID, userID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrLocationNotFound):
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /locations/{id}/unpaid-bookings - Access denied: location_id=%d, user_id=%d", locationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /locations/{id}/unpaid-bookings - Failed: location_id=%d, error=%v", locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /locations/{id}/unpaid-bookings - Found %d unpaid bookings: location_id=%d", result.Total, locationID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
