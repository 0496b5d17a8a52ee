package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestClient_Post(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, nopLogger{})
	err := client.Post(context.Background(), Payload{
		Text:        "Arrivals and Departures for March 10, 2025",
		Attachments: []Attachment{{Color: ColorGood, Fallback: "Ada", Title: "Ada", Text: "March 10 - March 12 in Bunk"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Arrivals and Departures for March 10, 2025", received["text"])
	attachments := received["attachments"].([]interface{})
	require.Len(t, attachments, 1)
	assert.Equal(t, "good", attachments[0].(map[string]interface{})["color"])
}

func TestClient_PostRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("invalid_token"))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, nopLogger{})
	err := client.Post(context.Background(), Payload{Text: "x"})
	assert.ErrorIs(t, err, ErrRejected)
}
