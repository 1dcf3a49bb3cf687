package wizard

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

	"github.com/magabrotheeeer/lead-capture/internal/models"
)

// ErrRejected сервер не подтвердил приём заявки.
var ErrRejected = errors.New("request was not accepted")

// HTTPSubmitter отправляет заявку в POST <BaseURL>/api/request.
type HTTPSubmitter struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPSubmitter создаёт отправителя. httpClient может быть nil.
func NewHTTPSubmitter(baseURL string, httpClient *http.Client) *HTTPSubmitter {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPSubmitter{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Submit успешен только при ответе 2xx с {"success": true}.
func (s *HTTPSubmitter) Submit(ctx context.Context, payload models.NewRequest) error {
	const op = "wizard.HTTPSubmitter.Submit"

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/request", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	var result struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s: %w: status %d", op, ErrRejected, resp.StatusCode)
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrRejected, err)
	}
	if !result.Success {
		return fmt.Errorf("%s: %w: %s", op, ErrRejected, result.Message)
	}
	return nil
}
