package suppress_fee

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LodgingService/internal/api/handlers"
	"github.com/m04kA/SMC-LodgingService/internal/api/middleware"
	"github.com/m04kA/SMC-LodgingService/internal/service/billing"
)

const (
	msgInvalidBookingID  = "некорректный ID бронирования"
	msgInvalidLineItemID = "некорректный ID строки счёта"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgNotFound          = "бронирование не найдено"
	msgLineItemNotFound  = "сбор не найден в счёте"
	msgForbidden         = "доступ запрещен"
)

type Handler struct {
	service BillingService
	logger  Logger
}

func NewHandler(service BillingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/line-items/{lineItemId}/suppress
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/line-items/{id}/suppress - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}
	lineItemID, err := handlers.PathInt64(r, "lineItemId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/line-items/{id}/suppress - Invalid line item ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLineItemID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/line-items/{id}/suppress - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	bill, err := h.service.SuppressFee(r.Context(), bookingID, userID, lineItemID)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrLineItemNotFound):
			h.logger.Warn("POST /bookings/{id}/line-items/{id}/suppress - Fee not found: booking_id=%d, line_item_id=%d",
				bookingID, lineItemID)
			handlers.RespondNotFound(w, msgLineItemNotFound)

		case errors.Is(err, billing.ErrBookingNotFound), errors.Is(err, billing.ErrBillNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, billing.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/line-items/{id}/suppress - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /bookings/{id}/line-items/{id}/suppress - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/line-items/{id}/suppress - Fee suppressed: booking_id=%d, line_item_id=%d",
		bookingID, lineItemID)
	handlers.RespondJSON(w, http.StatusOK, bill)
}
