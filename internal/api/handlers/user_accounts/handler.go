package user_accounts

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LodgingService/internal/api/handlers"
	"github.com/m04kA/SMC-LodgingService/internal/api/middleware"
	"github.com/m04kA/SMC-LodgingService/internal/domain"
	"github.com/m04kA/SMC-LodgingService/internal/service/accounts"
	"github.com/m04kA/SMC-LodgingService/internal/service/accounts/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgUnknownCurrency    = "неизвестная валюта, ожидается USD или DRFT"
	msgNotOwner           = "основной счёт принадлежит другому пользователю"
)

type Handler struct {
	service AccountService
	logger  Logger
}

func NewHandler(service AccountService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// PrimaryAccount POST /api/v1/accounts/primary
// 201 если счёт создан, 200 если найден существующий
func (h *Handler) PrimaryAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /accounts/primary - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.PrimaryAccountRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /accounts/primary - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.ValidateStruct(req); err != nil {
		h.logger.Warn("POST /accounts/primary - Validation failed: %v", err)
		handlers.RespondBadRequest(w, msgUnknownCurrency)
		return
	}
	req.UserID = userID

	result, err := h.service.GetOrCreatePrimaryAccount(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrUnknownCurrency):
			handlers.RespondBadRequest(w, msgUnknownCurrency)

		case errors.Is(err, domain.ErrNotAccountOwner):
			h.logger.Warn("POST /accounts/primary - Not an owner: user_id=%d, currency=%s", userID, req.Currency)
			handlers.RespondConflict(w, msgNotOwner)

		default:
			h.logger.Error("POST /accounts/primary - Failed: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	h.logger.Info("POST /accounts/primary - user_id=%d, account_id=%d, created=%t", userID, result.Account.ID, result.Created)
	handlers.RespondJSON(w, status, result)
}

// DrftBalance GET /api/v1/users/me/drft-balance
func (h *Handler) DrftBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /users/me/drft-balance - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.GetDrftBalance(r.Context(), userID)
	if err != nil {
		h.logger.Error("GET /users/me/drft-balance - Failed: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
