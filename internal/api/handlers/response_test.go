package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name     string `json:"name" validate:"required,max=5"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	var req sampleRequest

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"bunk","quantity":2}`))
	require.NoError(t, DecodeJSON(r, &req))
	assert.Equal(t, "bunk", req.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"bunk","extra":true}`))
	assert.Error(t, DecodeJSON(r, &req))
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(sampleRequest{Name: "bunk"}))

	err := ValidateStruct(sampleRequest{Name: "", Quantity: -1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Name:required")
	assert.Contains(t, err.Error(), "Quantity:gte")
}

func TestPathInt64(t *testing.T) {
	r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "42"})
	id, err := PathInt64(r, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	r = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "-1"})
	_, err = PathInt64(r, "id")
	assert.Error(t, err)
}

func TestRespondError(t *testing.T) {
	w := httptest.NewRecorder()
	RespondNotFound(w, "не найдено")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, ErrorResponse{Code: 404, Message: "не найдено"}, body)
}
