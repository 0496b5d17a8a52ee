package booking_rate

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
	msgInvalidRate        = "некорректная ставка"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
)

// Handler управляет ставкой бронирования
// Любое изменение ставки пересчитывает счёт
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

// SetRate PUT /api/v1/bookings/{bookingId}/rate
func (h *Handler) SetRate(w http.ResponseWriter, r *http.Request) {
	const route = "PUT /bookings/{id}/rate"

	bookingID, userID, ok := h.identify(w, r, route)
	if !ok {
		return
	}

	var req models.SetRateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.ValidateStruct(req); err != nil {
		h.logger.Warn("%s - Validation failed: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRate)
		return
	}
	req.BookingID = bookingID
	req.UserID = userID

	bill, err := h.service.SetRate(r.Context(), &req)
	h.respond(w, route, bookingID, userID, bill, err)
}

// ResetRate DELETE /api/v1/bookings/{bookingId}/rate
// Возвращает ставку ресурса по умолчанию
func (h *Handler) ResetRate(w http.ResponseWriter, r *http.Request) {
	const route = "DELETE /bookings/{id}/rate"

	bookingID, userID, ok := h.identify(w, r, route)
	if !ok {
		return
	}

	bill, err := h.service.ResetRate(r.Context(), bookingID, userID)
	h.respond(w, route, bookingID, userID, bill, err)
}

// Comp POST /api/v1/bookings/{bookingId}/comp
func (h *Handler) Comp(w http.ResponseWriter, r *http.Request) {
	const route = "POST /bookings/{id}/comp"

	bookingID, userID, ok := h.identify(w, r, route)
	if !ok {
		return
	}

	bill, err := h.service.Comp(r.Context(), bookingID, userID)
	h.respond(w, route, bookingID, userID, bill, err)
}

func (h *Handler) identify(w http.ResponseWriter, r *http.Request, route string) (int64, int64, bool) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("%s - Invalid booking ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return 0, 0, false
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing user ID", route)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return 0, 0, false
	}

	return bookingID, userID, true
}

func (h *Handler) respond(w http.ResponseWriter, route string, bookingID, userID int64, bill *models.BillResponse, err error) {
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRate)

		case errors.Is(err, billing.ErrBookingNotFound), errors.Is(err, billing.ErrBillNotFound):
			h.logger.Warn("%s - Booking not found: booking_id=%d", route, bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, billing.ErrAccessDenied):
			h.logger.Warn("%s - Access denied: booking_id=%d, user_id=%d", route, bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("%s - Failed: booking_id=%d, error=%v", route, bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Rate changed: booking_id=%d, amount=%s", route, bookingID, bill.Amount)
	handlers.RespondJSON(w, http.StatusOK, bill)
}
