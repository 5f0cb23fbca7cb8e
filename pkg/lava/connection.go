package lava

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/amirasaad/walletchat/pkg/domain"
)

// Amount is a decimal wallet amount. The payments API encodes amounts either
// as a JSON number or as a decimal string ("12.50"); both decode to the same
// value.
type Amount float64

// UnmarshalJSON accepts both string and number encodings.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*a = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		*a = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("lava: invalid amount %q: %w", s, err)
	}
	*a = Amount(f)
	return nil
}

// Wallet holds the balance and contact email associated with a connection.
type Wallet struct {
	Balance Amount `json:"balance"`
	Email   string `json:"email"`
}

// Connection links an end-user wallet to a secret credential. The secret must
// never leave the server.
type Connection struct {
	ID     string  `json:"connection_id"`
	Secret string  `json:"connection_secret"`
	Wallet *Wallet `json:"wallet"`
}

// RetrieveConnection resolves a connection identifier to its wallet metadata.
// Unknown identifiers surface as domain.ErrConnectionNotFound.
func (c *Client) RetrieveConnection(ctx context.Context, id string) (*Connection, error) {
	if id == "" {
		return nil, fmt.Errorf("lava: connection id is required: %w", domain.ErrValidation)
	}

	var conn Connection
	err := c.do(ctx, http.MethodGet, "/connections/"+url.PathEscape(id), nil, &conn)
	if err != nil {
		if apiErr, ok := err.(*APIError); ok && apiErr.StatusCode == http.StatusNotFound {
			return nil, domain.ErrConnectionNotFound
		}
		return nil, err
	}
	return &conn, nil
}
