package add_line_item

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LodgingService/internal/api/handlers"
	"github.com/m04kA/SMC-LodgingService/internal/api/middleware"
	"github.com/m04kA/SMC-LodgingService/internal/service/billing"
	"github.com/m04kA/SMC-LodgingService/internal/service/billing/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidItem        = "некорректная строка счёта"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
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

// Handle POST /api/v1/bookings/{bookingId}/line-items
// Ручная корректировка счёта, отрицательная сумма означает скидку
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/line-items - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/line-items - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CustomItemRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/line-items - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.ValidateStruct(req); err != nil {
		h.logger.Warn("POST /bookings/{id}/line-items - Validation failed: %v", err)
		handlers.RespondBadRequest(w, msgInvalidItem)
		return
	}
	req.BookingID = bookingID
	req.UserID = userID

	bill, err := h.service.AddCustomItem(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidItem)

		case errors.Is(err, billing.ErrBookingNotFound), errors.Is(err, billing.ErrBillNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, billing.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/line-items - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /bookings/{id}/line-items - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/line-items - Custom item added: booking_id=%d", bookingID)
	handlers.RespondJSON(w, http.StatusCreated, bill)
}
