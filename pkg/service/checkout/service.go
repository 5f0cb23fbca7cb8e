// Package checkout issues hosted checkout sessions for wallet onboarding and
// top-ups. Session lifecycle is owned entirely by the payments service; this
// layer only requests sessions and forwards the opaque token to the client.
package checkout

import (
	"context"
	"log/slog"

	"github.com/amirasaad/walletchat/pkg/config"
	"github.com/amirasaad/walletchat/pkg/lava"
)

// Service creates hosted checkout sessions.
type Service struct {
	lava      *lava.Client
	originURL string
	logger    *slog.Logger
}

// New creates a checkout service. The origin URL is handed to every session
// for redirect purposes.
func New(client *lava.Client, cfg *config.Lava, logger *slog.Logger) *Service {
	return &Service{lava: client, originURL: cfg.OriginUrl, logger: logger}
}

// CreateOnboardingSession creates a session connecting a new wallet and
// returns its opaque token. Mode is fixed to onboarding regardless of caller
// input.
func (s *Service) CreateOnboardingSession(ctx context.Context) (string, error) {
	session, err := s.lava.CreateCheckoutSession(ctx, lava.CheckoutSessionParams{
		Mode:      lava.CheckoutModeOnboarding,
		OriginURL: s.originURL,
	})
	if err != nil {
		return "", err
	}
	return session.Token, nil
}

// CreateTopupSession creates a session adding funds to an existing
// connection's wallet and returns its opaque token.
func (s *Service) CreateTopupSession(ctx context.Context, connectionID string) (string, error) {
	session, err := s.lava.CreateCheckoutSession(ctx, lava.CheckoutSessionParams{
		Mode:         lava.CheckoutModeTopup,
		OriginURL:    s.originURL,
		ConnectionID: connectionID,
	})
	if err != nil {
		return "", err
	}
	return session.Token, nil
}
