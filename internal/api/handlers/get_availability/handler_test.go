package get_availability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
	getAvailability "github.com/m04kA/SMC-LodgingService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-LodgingService/pkg/dates"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	resourceReq *getAvailability.ResourceRequest
	err         error
}

func (f *fakeUseCase) Resource(_ context.Context, req *getAvailability.ResourceRequest) (*getAvailability.ResourceResponse, error) {
	f.resourceReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &getAvailability.ResourceResponse{
		ResourceID: req.ResourceID,
		Arrive:     dates.Date(2024, 3, 1),
		Depart:     dates.Date(2024, 3, 3),
		Availabilities: []domain.DailyQuantity{
			{Date: dates.Date(2024, 3, 1), Quantity: 2},
			{Date: dates.Date(2024, 3, 2), Quantity: 0},
		},
		HasFutureDrftCapacity: true,
		MaxBookingDays:        14,
	}, nil
}

func (f *fakeUseCase) Location(_ context.Context, req *getAvailability.LocationRequest) (*getAvailability.LocationResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	room := domain.Resource{ID: 7, Name: "Bunk", DefaultRate: 40}
	return &getAvailability.LocationResponse{
		LocationID: req.LocationID,
		Arrive:     dates.Date(2024, 3, 1),
		Depart:     dates.Date(2024, 3, 2),
		FreeRooms:  []domain.Resource{room},
		Rooms: []domain.RoomDailyFree{
			{Resource: room, Days: []domain.DailyQuantity{{Date: dates.Date(2024, 3, 1), Quantity: 1}}},
		},
		RoomsWithFutureCapacity: []domain.Resource{room},
	}, nil
}

func TestResource_ParsesWindow(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewHandler(uc, nopLogger{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/resources/7/availability?arrive=2024-03-01&depart=2024-03-03", nil)
	req = mux.SetURLVars(req, map[string]string{"resourceId": "7"})
	w := httptest.NewRecorder()

	h.Resource(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, uc.resourceReq.Arrive)
	require.NotNil(t, uc.resourceReq.Depart)
	assert.Equal(t, dates.Date(2024, 3, 1), *uc.resourceReq.Arrive)
	assert.Equal(t, dates.Date(2024, 3, 3), *uc.resourceReq.Depart)

	var body ResourceAvailabilityResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, []DailyQuantityResponse{{Date: "2024-03-01", Quantity: 2}, {Date: "2024-03-02", Quantity: 0}}, body.Availabilities)
	assert.True(t, body.HasFutureDrftCapacity)
	assert.Equal(t, 14, body.MaxBookingDays)
}

func TestResource_DefaultWindow(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewHandler(uc, nopLogger{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/resources/7/availability", nil)
	req = mux.SetURLVars(req, map[string]string{"resourceId": "7"})
	w := httptest.NewRecorder()

	h.Resource(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, uc.resourceReq.Arrive)
	assert.Nil(t, uc.resourceReq.Depart)
}

func TestResource_Errors(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		err        error
		wantStatus int
	}{
		{name: "bad date", query: "?arrive=tomorrow", wantStatus: http.StatusBadRequest},
		{name: "inverted", query: "", err: getAvailability.ErrInvalidDate, wantStatus: http.StatusBadRequest},
		{name: "not found", query: "", err: getAvailability.ErrResourceNotFound, wantStatus: http.StatusNotFound},
		{name: "internal", query: "", err: getAvailability.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.err}, nopLogger{})
			req := httptest.NewRequest(http.MethodGet, "/api/v1/resources/7/availability"+tt.query, nil)
			req = mux.SetURLVars(req, map[string]string{"resourceId": "7"})
			w := httptest.NewRecorder()

			h.Resource(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestLocation_FreeRooms(t *testing.T) {
	h := NewHandler(&fakeUseCase{}, nopLogger{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/locations/3/availability", nil)
	req = mux.SetURLVars(req, map[string]string{"locationId": "3"})
	w := httptest.NewRecorder()

	h.Location(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body LocationAvailabilityResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Len(t, body.FreeRooms, 1)
	assert.Equal(t, "Bunk", body.FreeRooms[0].Name)
	assert.Equal(t, "40.00", body.FreeRooms[0].DefaultRate.String())
	require.Len(t, body.Rooms, 1)
	assert.Equal(t, 1, body.Rooms[0].Days[0].Quantity)
}
