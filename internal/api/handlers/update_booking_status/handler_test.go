package update_booking_status

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LodgingService/internal/api/middleware"
	"github.com/m04kA/SMC-LodgingService/internal/service/bookings"
	"github.com/m04kA/SMC-LodgingService/internal/service/bookings/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	got *models.UpdateStatusRequest
	err error
}

func (f *fakeService) UpdateStatus(_ context.Context, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingResponse{ID: req.BookingID, Status: req.Status}, nil
}

func newRequest(bookingID, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/"+bookingID+"/status", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"bookingId": bookingID})
	return req.WithContext(middleware.WithUserID(req.Context(), 3))
}

func TestHandle_UpdatesStatus(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, nopLogger{})
	w := httptest.NewRecorder()

	h.Handle(w, newRequest("9", `{"status":"confirmed"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, int64(9), svc.got.BookingID)
	assert.Equal(t, int64(3), svc.got.UserID)
	assert.Equal(t, "confirmed", svc.got.Status)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		bookingID  string
		body       string
		err        error
		wantStatus int
	}{
		{name: "bad id", bookingID: "x", body: `{"status":"confirmed"}`, wantStatus: http.StatusBadRequest},
		{name: "unknown status", bookingID: "9", body: `{"status":"paid"}`, wantStatus: http.StatusBadRequest},
		{name: "not found", bookingID: "9", body: `{"status":"canceled"}`, err: bookings.ErrBookingNotFound, wantStatus: http.StatusNotFound},
		{name: "forbidden", bookingID: "9", body: `{"status":"approved"}`, err: bookings.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "transition", bookingID: "9", body: `{"status":"pending"}`, err: bookings.ErrCannotTransition, wantStatus: http.StatusConflict},
		{name: "full", bookingID: "9", body: `{"status":"confirmed"}`, err: bookings.ErrNotAvailable, wantStatus: http.StatusConflict},
		{name: "internal", bookingID: "9", body: `{"status":"confirmed"}`, err: bookings.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeService{err: tt.err}, nopLogger{})
			w := httptest.NewRecorder()

			h.Handle(w, newRequest(tt.bookingID, tt.body))

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
