package create_booking

import (
	"context"
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LodgingService/internal/api/handlers"
	"github.com/m04kA/SMC-LodgingService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-LodgingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgResourceNotFound   = "ресурс не найден"
	msgInvalidBookingDate = "некорректные даты проживания"
	msgStayTooLong        = "проживание длиннее допустимого"
	msgNotAvailable       = "на выбранные даты нет свободных мест"
	msgInvalidInput       = "некорректные данные бронирования"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "POST /bookings", http.StatusCreated, h.useCase.Execute)
}

// Preview POST /api/v1/bookings/preview
// Считает бронирование и счёт без сохранения
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "POST /bookings/preview", http.StatusOK, h.useCase.Preview)
}

func (h *Handler) serve(
	w http.ResponseWriter,
	r *http.Request,
	route string,
	successStatus int,
	run func(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error),
) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing user ID", route)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.ValidateStruct(req); err != nil {
		h.logger.Warn("%s - Validation failed: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidInput)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом дат)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("%s - Failed to parse dates: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := run(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrResourceNotFound):
			h.logger.Warn("%s - Resource not found: resource_id=%d", route, req.ResourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, createBooking.ErrNotAvailable):
			h.logger.Warn("%s - Not available: user_id=%d, resource_id=%d", route, userID, req.ResourceID)
			handlers.RespondConflict(w, msgNotAvailable)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("%s - Invalid dates: user_id=%d, resource_id=%d", route, userID, req.ResourceID)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrStayTooLong):
			h.logger.Warn("%s - Stay too long: user_id=%d, resource_id=%d", route, userID, req.ResourceID)
			handlers.RespondBadRequest(w, msgStayTooLong)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("%s - Invalid input: %v", route, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("%s - Failed: user_id=%d, resource_id=%d, error=%v", route, userID, req.ResourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Success: booking_id=%d, user_id=%d, resource_id=%d",
		route, result.Booking.ID, userID, req.ResourceID)
	handlers.RespondJSON(w, successStatus, FromUseCaseResponse(result))
}
