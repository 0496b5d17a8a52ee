package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент почтового сервиса
type Client struct {
	baseURL    string
	from       string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента почтового сервиса
// from используется, когда у письма не задан отправитель
func NewClient(baseURL, from string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		from:    from,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Send отправляет письмо и возвращает его идентификатор в почтовом сервисе
func (c *Client) Send(ctx context.Context, msg Message) (string, error) {
	if len(msg.To) == 0 {
		return "", ErrNoRecipients
	}
	if msg.From == "" {
		msg.From = c.from
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("%w: failed to encode message: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/internal/messages", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		c.log.Warn("Mailer rejected message %q: status %d", msg.Subject, resp.StatusCode)
		return "", fmt.Errorf("%w: unexpected status code %d: %s", ErrDeliveryFailed, resp.StatusCode, string(respBody))
	}

	var sent SendResponse
	if err := json.NewDecoder(resp.Body).Decode(&sent); err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrDeliveryFailed, err)
	}

	c.log.Info("Mailer accepted message %q to %d recipients, id=%s", msg.Subject, len(msg.To), sent.ID)
	return sent.ID, nil
}
