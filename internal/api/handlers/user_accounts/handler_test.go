package user_accounts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-LodgingService/internal/api/middleware"
	"github.com/m04kA/SMC-LodgingService/internal/domain"
	"github.com/m04kA/SMC-LodgingService/internal/service/accounts/models"
	"github.com/m04kA/SMC-LodgingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	created bool
	err     error
}

func (f *fakeService) GetOrCreatePrimaryAccount(_ context.Context, req *models.PrimaryAccountRequest) (*models.PrimaryAccountResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.PrimaryAccountResponse{
		Account: models.AccountResponse{ID: 9, Owners: []int64{req.UserID}},
		Created: f.created,
	}, nil
}

func (f *fakeService) GetDrftBalance(_ context.Context, userID int64) (*models.DrftBalanceResponse, error) {
	return &models.DrftBalanceResponse{UserID: userID, Balance: types.Money(3), Symbol: "Ɖ"}, nil
}

func withUser(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), 2))
}

func TestPrimaryAccount(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svc        *fakeService
		wantStatus int
	}{
		{name: "created", body: `{"currency":"DRFT"}`, svc: &fakeService{created: true}, wantStatus: http.StatusCreated},
		{name: "found", body: `{"currency":"USD"}`, svc: &fakeService{}, wantStatus: http.StatusOK},
		{name: "unknown currency", body: `{"currency":"EUR"}`, svc: &fakeService{}, wantStatus: http.StatusBadRequest},
		{name: "not owner", body: `{"currency":"USD"}`, svc: &fakeService{err: domain.ErrNotAccountOwner}, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(tt.svc, nopLogger{})
			w := httptest.NewRecorder()

			h.PrimaryAccount(w, withUser(httptest.NewRequest(http.MethodPost, "/api/v1/accounts/primary", strings.NewReader(tt.body))))

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestDrftBalance(t *testing.T) {
	h := NewHandler(&fakeService{}, nopLogger{})
	w := httptest.NewRecorder()

	h.DrftBalance(w, withUser(httptest.NewRequest(http.MethodGet, "/api/v1/users/me/drft-balance", nil)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"balance":"3.00"`)
}
