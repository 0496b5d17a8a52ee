package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент входящего вебхука Slack
type Client struct {
	webhookURL string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента Slack
func NewClient(webhookURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Post публикует сообщение в канал вебхука
func (c *Client) Post(ctx context.Context, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to encode payload: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, string(respBody))
	}

	c.log.Info("Slack response: %s", string(respBody))
	return nil
}
