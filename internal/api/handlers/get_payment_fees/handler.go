package get_payment_fees

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LodgingService/internal/api/handlers"
	"github.com/m04kA/SMC-LodgingService/internal/api/middleware"
	"github.com/m04kA/SMC-LodgingService/internal/service/billing"
	"github.com/m04kA/SMC-LodgingService/internal/service/billing/models"
)

const (
	msgInvalidBillID = "некорректный ID счёта"
	msgMissingUserID = "отсутствует ID пользователя"
	msgNotFound      = "счёт не найден"
	msgForbidden     = "доступ запрещен"
)

// PaymentFeesResponse разбивка всех платежей счёта
type PaymentFeesResponse struct {
	BillID   int64                        `json:"bill_id"`
	Payments []models.PaymentFeesResponse `json:"payments"`
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

// Handle GET /api/v1/bills/{billId}/payment-fees
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	billID, err := handlers.PathInt64(r, "billId")
	if err != nil {
		h.logger.Warn("GET /bills/{id}/payment-fees - Invalid bill ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBillID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /bills/{id}/payment-fees - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	fees, err := h.service.PaymentFees(r.Context(), billID, userID)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrBillNotFound), errors.Is(err, billing.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, billing.ErrAccessDenied):
			h.logger.Warn("GET /bills/{id}/payment-fees - Access denied: bill_id=%d, user_id=%d", billID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /bills/{id}/payment-fees - Failed: bill_id=%d, error=%v", billID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, PaymentFeesResponse{BillID: billID, Payments: fees})
}
