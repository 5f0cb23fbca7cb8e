// Package openai is a minimal client for an OpenAI-compatible chat-completion
// API. It is always addressed through the payments proxy so each call is
// metered against the wallet named by the bearer credential.
package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/amirasaad/walletchat/pkg/domain"
)

// Client calls the chat-completions surface of an OpenAI-compatible API.
// No timeout is set on the underlying HTTP client; streamed completions run
// until the upstream closes the stream, and callers bound plain completions
// with their context.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client rooted at baseURL (e.g. the payments proxy's
// OpenAI-compatible forward URL).
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logger,
	}
}

type chatRequest struct {
	Model    string           `json:"model"`
	Messages []domain.Message `json:"messages"`
	Stream   bool             `json:"stream,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) newRequest(
	ctx context.Context,
	token string,
	req chatRequest,
) (*http.Request, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("openai: failed to encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("openai: failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")
	return httpReq, nil
}

func upstreamError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)
	var errBody apiErrorBody
	message := ""
	if err := json.Unmarshal(raw, &errBody); err == nil {
		message = errBody.Error.Message
	}
	if message == "" {
		message = string(raw)
	}
	return fmt.Errorf("openai: API returned status %d: %s", resp.StatusCode, message)
}

// Complete performs a buffered completion and returns the assistant text.
func (c *Client) Complete(
	ctx context.Context,
	token, model string,
	messages []domain.Message,
) (string, error) {
	httpReq, err := c.newRequest(ctx, token, chatRequest{Model: model, Messages: messages})
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("openai: request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return "", upstreamError(resp)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return "", fmt.Errorf("openai: failed to decode response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("openai: response contained no choices")
	}
	return chat.Choices[0].Message.Content, nil
}

// Stream performs an incremental completion, invoking onDelta for each
// content fragment. The upstream stream is always consumed to completion:
// once onDelta reports the downstream consumer gone, delivery stops but the
// drain continues so any usage finalization tied to stream completion still
// fires upstream. The first onDelta error is returned after the drain.
func (c *Client) Stream(
	ctx context.Context,
	token, model string,
	messages []domain.Message,
	onDelta func(delta string) error,
) error {
	httpReq, err := c.newRequest(ctx, token, chatRequest{
		Model:    model,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return err
	}
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("openai: request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return upstreamError(resp)
	}

	var deliverErr error
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			break
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			c.logger.Warn("skipping malformed stream chunk", "error", err)
			continue
		}
		if deliverErr != nil {
			continue
		}
		for _, choice := range chunk.Choices {
			if choice.Delta.Content == "" {
				continue
			}
			if err := onDelta(choice.Delta.Content); err != nil {
				deliverErr = err
				break
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("openai: stream read failed: %w", err)
	}
	return deliverErr
}
