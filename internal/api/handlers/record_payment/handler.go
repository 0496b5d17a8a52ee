package record_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LodgingService/internal/api/handlers"
	"github.com/m04kA/SMC-LodgingService/internal/api/middleware"
	"github.com/m04kA/SMC-LodgingService/internal/service/billing"
	"github.com/m04kA/SMC-LodgingService/internal/service/billing/models"
)

const (
	msgInvalidBillID      = "некорректный ID счёта"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidAmount      = "некорректная сумма платежа"
	msgNotFound           = "счёт не найден"
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

// Handle POST /api/v1/bills/{billId}/payments
// Отрицательная сумма регистрирует возврат
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	billID, err := handlers.PathInt64(r, "billId")
	if err != nil {
		h.logger.Warn("POST /bills/{id}/payments - Invalid bill ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBillID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bills/{id}/payments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.RecordPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bills/{id}/payments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.ValidateStruct(req); err != nil {
		h.logger.Warn("POST /bills/{id}/payments - Validation failed: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAmount)
		return
	}
	req.BillID = billID
	req.UserID = userID

	payment, err := h.service.RecordPayment(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidAmount)

		case errors.Is(err, billing.ErrBillNotFound), errors.Is(err, billing.ErrBookingNotFound):
			h.logger.Warn("POST /bills/{id}/payments - Bill not found: bill_id=%d", billID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, billing.ErrAccessDenied):
			h.logger.Warn("POST /bills/{id}/payments - Access denied: bill_id=%d, user_id=%d", billID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /bills/{id}/payments - Failed to record payment: bill_id=%d, error=%v", billID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bills/{id}/payments - Payment recorded: payment_id=%d, bill_id=%d, refund=%t",
		payment.ID, billID, payment.IsRefund)
	handlers.RespondJSON(w, http.StatusCreated, payment)
}
