// Package connection resolves wallet connections to their public projection.
package connection

import (
	"context"
	"log/slog"

	"github.com/amirasaad/walletchat/pkg/lava"
)

// Details is the client-facing projection of a connection. The connection
// secret is deliberately absent.
type Details struct {
	ConnectionID string  `json:"connectionId"`
	Balance      float64 `json:"balance"`
	Email        string  `json:"email"`
}

// Service looks up connections in the payments service.
type Service struct {
	lava   *lava.Client
	logger *slog.Logger
}

// New creates a connection service.
func New(client *lava.Client, logger *slog.Logger) *Service {
	return &Service{lava: client, logger: logger}
}

// GetDetails resolves a connection identifier to wallet metadata, omitting
// the secret. Unknown identifiers surface as domain.ErrConnectionNotFound.
func (s *Service) GetDetails(ctx context.Context, connectionID string) (*Details, error) {
	conn, err := s.lava.RetrieveConnection(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	details := &Details{ConnectionID: connectionID}
	if conn.Wallet != nil {
		details.Balance = float64(conn.Wallet.Balance)
		details.Email = conn.Wallet.Email
	}
	return details, nil
}
