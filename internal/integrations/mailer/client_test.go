package mailer

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

func TestClient_Send(t *testing.T) {
	var received Message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/messages", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg-1"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "stay@example.com", time.Second, nopLogger{})
	id, err := client.Send(context.Background(), Message{
		To:      []string{"ada@example.com"},
		Subject: "[Embassy] Welcome",
		Text:    "See you soon",
	})
	require.NoError(t, err)

	assert.Equal(t, "msg-1", id)
	assert.Equal(t, "stay@example.com", received.From)
	assert.Equal(t, []string{"ada@example.com"}, received.To)
}

func TestClient_SendErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewClient(server.URL, "stay@example.com", time.Second, nopLogger{})

	_, err := client.Send(context.Background(), Message{Subject: "empty"})
	assert.ErrorIs(t, err, ErrNoRecipients)

	_, err = client.Send(context.Background(), Message{To: []string{"ada@example.com"}})
	assert.ErrorIs(t, err, ErrDeliveryFailed)
}
