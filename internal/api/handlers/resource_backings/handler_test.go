package resource_backings

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
	"github.com/m04kA/SMC-LodgingService/internal/service/backing"
	"github.com/m04kA/SMC-LodgingService/internal/service/backing/models"
	"github.com/m04kA/SMC-LodgingService/pkg/dates"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	got *models.SetNextBackingRequest
	err error
}

func (f *fakeService) SetNextBacking(_ context.Context, req *models.SetNextBackingRequest) (*models.BackingResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BackingResponse{ID: 3, ResourceID: req.ResourceID, Backers: req.BackerIDs, Start: "2024-01-20"}, nil
}

func (f *fakeService) ListBackings(_ context.Context, resourceID, _ int64) (*models.ResourceBackingsResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.ResourceBackingsResponse{ResourceID: resourceID, Scheduled: []models.BackingResponse{}}, nil
}

func newRequest(method, body string) *http.Request {
	req := httptest.NewRequest(method, "/api/v1/resources/7/backings", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"resourceId": "7"})
	return req.WithContext(middleware.WithUserID(req.Context(), 1))
}

func TestSetNext_Created(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, nopLogger{})
	w := httptest.NewRecorder()

	h.SetNext(w, newRequest(http.MethodPost, `{"backers":[4,5],"start":"2024-01-20"}`))

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, []int64{4, 5}, svc.got.BackerIDs)
	assert.Equal(t, dates.Date(2024, 1, 20), svc.got.Start)
	assert.Equal(t, int64(7), svc.got.ResourceID)
}

func TestSetNext_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "no backers", body: `{"backers":[],"start":"2024-01-20"}`, wantStatus: http.StatusBadRequest},
		{name: "bad backer", body: `{"backers":[0],"start":"2024-01-20"}`, wantStatus: http.StatusBadRequest},
		{name: "bad start", body: `{"backers":[4],"start":"20.01.2024"}`, wantStatus: http.StatusBadRequest},
		{name: "not admin", body: `{"backers":[4],"start":"2024-01-20"}`, err: backing.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "overlap", body: `{"backers":[4],"start":"2024-01-20"}`, err: backing.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeService{err: tt.err}, nopLogger{})
			w := httptest.NewRecorder()

			h.SetNext(w, newRequest(http.MethodPost, tt.body))

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestList(t *testing.T) {
	h := NewHandler(&fakeService{}, nopLogger{})
	w := httptest.NewRecorder()

	h.List(w, newRequest(http.MethodGet, ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"resource":7`)
}
