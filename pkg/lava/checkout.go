package lava

import (
	"context"
	"fmt"
	"net/http"

	"github.com/amirasaad/walletchat/pkg/domain"
)

// CheckoutMode selects the hosted checkout flow variant.
type CheckoutMode string

const (
	// CheckoutModeOnboarding connects a new wallet.
	CheckoutModeOnboarding CheckoutMode = "onboarding"
	// CheckoutModeTopup adds funds to an existing connection's wallet.
	CheckoutModeTopup CheckoutMode = "topup"
)

// CheckoutSessionParams describes the session to create. ConnectionID is
// required for topup mode and must be empty for onboarding.
type CheckoutSessionParams struct {
	Mode         CheckoutMode `json:"checkout_mode"`
	OriginURL    string       `json:"origin_url"`
	ConnectionID string       `json:"connection_id,omitempty"`
}

// CheckoutSession is the created hosted session. Token is handed to the
// client-side checkout widget; the session lifecycle (expiry, consumption) is
// owned entirely by the payments service.
type CheckoutSession struct {
	ID    string `json:"checkout_session_id"`
	Token string `json:"checkout_session_token"`
}

// CreateCheckoutSession creates a single-use hosted checkout session.
func (c *Client) CreateCheckoutSession(
	ctx context.Context,
	params CheckoutSessionParams,
) (*CheckoutSession, error) {
	switch params.Mode {
	case CheckoutModeOnboarding:
	case CheckoutModeTopup:
		if params.ConnectionID == "" {
			return nil, fmt.Errorf(
				"lava: topup checkout requires a connection id: %w", domain.ErrValidation)
		}
	default:
		return nil, fmt.Errorf(
			"lava: unknown checkout mode %q: %w", params.Mode, domain.ErrValidation)
	}

	var session CheckoutSession
	if err := c.do(ctx, http.MethodPost, "/checkout-sessions", params, &session); err != nil {
		return nil, err
	}
	return &session, nil
}
