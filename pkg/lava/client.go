// Package lava is a typed client for the Lava payments service: wallet
// connections, hosted checkout sessions, and forward-token issuance for
// metered model calls routed through the payments proxy.
package lava

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/amirasaad/walletchat/pkg/config"
	"github.com/google/uuid"
)

// Client is a process-wide read-only handle to the payments API, constructed
// once at startup with explicit configuration fields.
type Client struct {
	secretKey     string
	productSecret string
	apiVersion    string
	baseURL       string
	httpClient    *http.Client
	logger        *slog.Logger
}

// NewClient creates a payments client from config.
func NewClient(cfg *config.Lava, logger *slog.Logger) *Client {
	timeout := cfg.HTTPTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		secretKey:     cfg.SecretKey,
		productSecret: cfg.ProductSecret,
		apiVersion:    cfg.ApiVersion,
		baseURL:       cfg.ApiUrl,
		httpClient:    &http.Client{Timeout: timeout},
		logger:        logger,
	}
}

// APIError is a non-2xx response from the payments API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("lava: API returned status %d: %s", e.StatusCode, e.Message)
}

type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// do performs a single authenticated API call and decodes the JSON response
// into out. Non-2xx responses come back as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("lava: failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("lava: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Lava-Api-Version", c.apiVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost {
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}

	c.logger.Debug("calling payments API", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("lava: request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		var errBody apiErrorBody
		message := ""
		if jsonErr := json.Unmarshal(raw, &errBody); jsonErr == nil {
			message = errBody.Error.Message
		}
		if message == "" {
			message = string(raw)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("lava: failed to decode response: %w", err)
	}
	return nil
}
