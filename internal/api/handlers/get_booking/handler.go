package get_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LodgingService/internal/api/handlers"
	"github.com/m04kA/SMC-LodgingService/internal/api/middleware"
	"github.com/m04kA/SMC-LodgingService/internal/service/bookings"
)

const route = "GET /bookings/{bookingId}"

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgBookingNotFound  = "бронирование не найдено"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgNotGuestOrAdmin  = "бронирование доступно только гостю и администраторам локации"
)

// Handler отдаёт сериализованное бронирование со счётом
type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Handle GET /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("%s - no user in context", route)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("%s - bad path: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	view, err := h.service.GetByID(r.Context(), bookingID, userID)
	if err != nil {
		h.respondError(w, bookingID, userID, err)
		return
	}

	h.logger.Info("%s - booking=%d status=%s nights=%d viewed by user=%d",
		route, view.ID, view.Status, view.Nights, userID)
	handlers.RespondJSON(w, http.StatusOK, view)
}

func (h *Handler) respondError(w http.ResponseWriter, bookingID, userID int64, err error) {
	switch {
	case errors.Is(err, bookings.ErrBookingNotFound):
		h.logger.Warn("%s - booking=%d not found", route, bookingID)
		handlers.RespondNotFound(w, msgBookingNotFound)
	case errors.Is(err, bookings.ErrAccessDenied):
		h.logger.Warn("%s - booking=%d hidden from user=%d", route, bookingID, userID)
		handlers.RespondForbidden(w, msgNotGuestOrAdmin)
	default:
		h.logger.Error("%s - booking=%d: %v", route, bookingID, err)
		handlers.RespondInternalError(w)
	}
}
