package userservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с UserService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента UserService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetUser получает пользователя по ID
func (c *Client) GetUser(ctx context.Context, userID int64) (*User, error) {
	url := fmt.Sprintf("%s/internal/users/%d", c.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid user ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return nil, ErrUserNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &user, nil
}

// GetUserWithGracefulDegradation получает пользователя с graceful degradation
// При недоступности UserService возвращает ErrServiceDegraded, что позволяет
// продолжить работу без имени и email пользователя
func (c *Client) GetUserWithGracefulDegradation(ctx context.Context, userID int64) (*User, error) {
	c.log.Info("Fetching user id=%d", userID)

	user, err := c.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.log.Warn("User id=%d not found", userID)
			return nil, err
		}

		c.log.Error("UserService unavailable, applying graceful degradation for user id=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: user_id=%d, error=%v", ErrServiceDegraded, userID, err)
	}

	return user, nil
}

// GetUsers получает пользователей по списку ID
// Не найденные пользователи пропускаются
func (c *Client) GetUsers(ctx context.Context, userIDs []int64) (map[int64]*User, error) {
	users := make(map[int64]*User, len(userIDs))
	for _, id := range userIDs {
		if _, ok := users[id]; ok {
			continue
		}
		user, err := c.GetUserWithGracefulDegradation(ctx, id)
		if errors.Is(err, ErrUserNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		users[id] = user
	}
	return users, nil
}
