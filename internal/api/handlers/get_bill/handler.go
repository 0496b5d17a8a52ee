package get_bill

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LodgingService/internal/api/handlers"
	"github.com/m04kA/SMC-LodgingService/internal/api/middleware"
	"github.com/m04kA/SMC-LodgingService/internal/service/billing"
)

const (
	msgInvalidBillID = "некорректный ID счёта"
	msgMissingUserID = "отсутствует ID пользователя"
	msgNotFound      = "счёт не найден"
	msgForbidden     = "доступ запрещен"
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

// Handle GET /api/v1/bills/{billId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	billID, err := handlers.PathInt64(r, "billId")
	if err != nil {
		h.logger.Warn("GET /bills/{id} - Invalid bill ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBillID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /bills/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	bill, err := h.service.GetBill(r.Context(), billID, userID)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrBillNotFound), errors.Is(err, billing.ErrBookingNotFound):
			h.logger.Warn("GET /bills/{id} - Bill not found: bill_id=%d", billID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, billing.ErrAccessDenied):
			h.logger.Warn("GET /bills/{id} - Access denied: bill_id=%d, user_id=%d", billID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /bills/{id} - Failed to get bill: bill_id=%d, error=%v", billID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bills/{id} - Bill retrieved: bill_id=%d", billID)
	handlers.RespondJSON(w, http.StatusOK, bill)
}
