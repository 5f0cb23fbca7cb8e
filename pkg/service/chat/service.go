// Package chat proxies conversations to the model API through the payments
// proxy, issuing a fresh forward token per outgoing request.
package chat

import (
	"context"
	"log/slog"

	"github.com/amirasaad/walletchat/pkg/config"
	"github.com/amirasaad/walletchat/pkg/domain"
	"github.com/amirasaad/walletchat/pkg/lava"
	"github.com/amirasaad/walletchat/pkg/provider/openai"
)

// Service relays conversation history to the model API. The model identifier
// is fixed by server configuration and never client-selectable.
type Service struct {
	lava        *lava.Client
	completions *openai.Client
	model       string
	logger      *slog.Logger
}

// New creates a chat service.
func New(
	lavaClient *lava.Client,
	completions *openai.Client,
	cfg *config.Chat,
	logger *slog.Logger,
) *Service {
	return &Service{
		lava:        lavaClient,
		completions: completions,
		model:       cfg.Model,
		logger:      logger,
	}
}

// forwardToken resolves the connection server-side and derives the
// single-call credential from its secret. The secret never leaves this
// process.
func (s *Service) forwardToken(ctx context.Context, connectionID string) (string, error) {
	conn, err := s.lava.RetrieveConnection(ctx, connectionID)
	if err != nil {
		return "", err
	}
	return s.lava.GenerateForwardToken(conn.Secret)
}

// Complete resolves the connection, issues a forward token, and performs a
// buffered completion, returning the full assistant text.
func (s *Service) Complete(
	ctx context.Context,
	connectionID string,
	messages []domain.Message,
) (string, error) {
	token, err := s.forwardToken(ctx, connectionID)
	if err != nil {
		return "", err
	}
	return s.completions.Complete(ctx, token, s.model, messages)
}

// Stream resolves the connection, issues a forward token, and relays the
// completion incrementally via onDelta. The upstream request is detached
// from the inbound request context: a client abort stops delivery but never
// the server-side drain, so usage metering tied to stream completion still
// finalizes.
func (s *Service) Stream(
	ctx context.Context,
	connectionID string,
	messages []domain.Message,
	onDelta func(delta string) error,
) error {
	token, err := s.forwardToken(ctx, connectionID)
	if err != nil {
		return err
	}

	drainCtx := context.WithoutCancel(ctx)
	return s.completions.Stream(drainCtx, token, s.model, messages, onDelta)
}
