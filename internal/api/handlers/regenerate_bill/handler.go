package regenerate_bill

import (
	"errors"
	"io"
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
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
)

// RegenerateRequest HTTP модель запроса на пересчёт счёта
// Тело запроса необязательно
type RegenerateRequest struct {
	Preview         bool `json:"preview"`
	ResetSuppressed bool `json:"reset_suppressed"`
}

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

// Handle POST /api/v1/bookings/{bookingId}/bill/regenerate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/bill/regenerate - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/bill/regenerate - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RegenerateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /bookings/{id}/bill/regenerate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	bill, err := h.service.Regenerate(r.Context(), &models.RegenerateRequest{
		BookingID: bookingID,
		UserID:    userID,
		GenerateOptions: models.GenerateOptions{
			Preview:         req.Preview,
			ResetSuppressed: req.ResetSuppressed,
		},
	})
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrBookingNotFound), errors.Is(err, billing.ErrBillNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, billing.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/bill/regenerate - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /bookings/{id}/bill/regenerate - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/bill/regenerate - Bill regenerated: booking_id=%d, preview=%t", bookingID, req.Preview)
	handlers.RespondJSON(w, http.StatusOK, bill)
}
