// Package supabase минимальный клиент Supabase Auth (GoTrue REST API):
// регистрация и вход по паролю.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrRejected сервер отверг учётные данные (ответ 4xx).
var ErrRejected = errors.New("supabase rejected credentials")

const defaultTimeout = 10 * time.Second

// User пользователь Supabase Auth.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

// Session ответ на успешный вход.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        User   `json:"user"`
}

// Client ходит в /auth/v1 проекта.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

// NewClient создаёт клиента. httpClient может быть nil.
func NewClient(baseURL, anonKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		httpClient: httpClient,
	}
}

// SignUp регистрирует пользователя. metadata уходит в user_metadata.
func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*User, error) {
	const op = "supabase.SignUp"

	payload := map[string]any{
		"email":    email,
		"password": password,
		"data":     metadata,
	}

	// Ответ бывает двух видов: сам пользователь или сессия с вложенным user,
	// если подтверждение почты отключено.
	var resp struct {
		User
		Nested *User `json:"user"`
	}
	if err := c.post(ctx, "/auth/v1/signup", payload, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.Nested != nil && resp.Nested.ID != "" {
		return resp.Nested, nil
	}
	return &resp.User, nil
}

// SignInWithPassword выполняет password grant.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	const op = "supabase.SignInWithPassword"

	payload := map[string]string{
		"email":    email,
		"password": password,
	}
	var session Session
	if err := c.post(ctx, "/auth/v1/token?grant_type=password", payload, &session); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &session, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.anonKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error calling supabase: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	default:
		return fmt.Errorf("error from supabase: status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("error parsing response: %w", err)
	}
	return nil
}
