package create_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LodgingService/internal/api/middleware"
	bookingModels "github.com/m04kA/SMC-LodgingService/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-LodgingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-LodgingService/pkg/dates"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	got     *createBooking.Request
	preview bool
	err     error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &createBooking.Response{Booking: &bookingModels.BookingResponse{ID: 11, Status: "pending"}, SuggestDrft: true}, nil
}

func (f *fakeUseCase) Preview(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	f.got = req
	f.preview = true
	if f.err != nil {
		return nil, f.err
	}
	return &createBooking.Response{Booking: &bookingModels.BookingResponse{ID: -1}}, nil
}

func newRequest(body string, userID int64) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	if userID > 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	return req
}

const validBody = `{"resource_id":7,"arrive":"2024-03-10","depart":"2024-03-13","purpose":"visit"}`

func TestHandle_Created(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewHandler(uc, nopLogger{})
	w := httptest.NewRecorder()

	h.Handle(w, newRequest(validBody, 5))

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(5), uc.got.UserID)
	assert.Equal(t, int64(7), uc.got.ResourceID)
	assert.Equal(t, dates.Date(2024, 3, 10), uc.got.Arrive)
	assert.Equal(t, dates.Date(2024, 3, 13), uc.got.Depart)

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, true, resp["suggest_drft"])
	assert.Equal(t, float64(11), resp["booking"].(map[string]interface{})["id"])
}

func TestPreview_OK(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewHandler(uc, nopLogger{})
	w := httptest.NewRecorder()

	h.Preview(w, newRequest(validBody, 5))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, uc.preview)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		userID     int64
		err        error
		wantStatus int
	}{
		{name: "no user", body: validBody, wantStatus: http.StatusUnauthorized},
		{name: "broken json", body: `{`, userID: 5, wantStatus: http.StatusBadRequest},
		{name: "unknown field", body: `{"resource_id":7,"arrive":"2024-03-10","depart":"2024-03-13","x":1}`, userID: 5, wantStatus: http.StatusBadRequest},
		{name: "missing resource", body: `{"arrive":"2024-03-10","depart":"2024-03-13"}`, userID: 5, wantStatus: http.StatusBadRequest},
		{name: "bad date", body: `{"resource_id":7,"arrive":"10.03.2024","depart":"2024-03-13"}`, userID: 5, wantStatus: http.StatusBadRequest},
		{name: "not found", body: validBody, userID: 5, err: createBooking.ErrResourceNotFound, wantStatus: http.StatusNotFound},
		{name: "not available", body: validBody, userID: 5, err: createBooking.ErrNotAvailable, wantStatus: http.StatusConflict},
		{name: "too long", body: validBody, userID: 5, err: createBooking.ErrStayTooLong, wantStatus: http.StatusBadRequest},
		{name: "past date", body: validBody, userID: 5, err: createBooking.ErrInvalidDate, wantStatus: http.StatusBadRequest},
		{name: "internal", body: validBody, userID: 5, err: createBooking.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.err}, nopLogger{})
			w := httptest.NewRecorder()

			h.Handle(w, newRequest(tt.body, tt.userID))

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
