package lava

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/amirasaad/walletchat/pkg/domain"
)

type forwardTokenPayload struct {
	ConnectionSecret string `json:"connection_secret"`
	ProductSecret    string `json:"product_secret"`
}

// GenerateForwardToken derives the opaque bearer credential that authorizes
// one proxied model call on behalf of a connection. Pure in-memory
// computation, no network call. The token must never be logged or returned
// to the client.
func (c *Client) GenerateForwardToken(connectionSecret string) (string, error) {
	if connectionSecret == "" {
		return "", fmt.Errorf("lava: connection secret is required: %w", domain.ErrValidation)
	}
	if c.productSecret == "" {
		return "", fmt.Errorf("lava: product secret is required: %w", domain.ErrValidation)
	}

	payload, err := json.Marshal(forwardTokenPayload{
		ConnectionSecret: connectionSecret,
		ProductSecret:    c.productSecret,
	})
	if err != nil {
		return "", fmt.Errorf("lava: failed to encode forward token: %w", err)
	}
	return "fwd-" + base64.RawURLEncoding.EncodeToString(payload), nil
}

// ForwardURL is the OpenAI-compatible base URL routed through the payments
// proxy, so usage is metered and billed against the connection's wallet.
func (c *Client) ForwardURL() string {
	return c.baseURL + "/forward/openai/v1"
}
