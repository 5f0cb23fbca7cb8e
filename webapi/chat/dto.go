package chat

import "github.com/amirasaad/walletchat/pkg/domain"

// Request carries the conversation history and the connection whose wallet is
// billed. Stream defaults to true; set it to false for a buffered {text}
// response. The connection secret is never accepted from the client.
type Request struct {
	Messages     []domain.Message `json:"messages" validate:"required,min=1,dive"`
	ConnectionID string           `json:"connectionId" validate:"required"`
	Stream       *bool            `json:"stream,omitempty"`
}

// Response is the buffered completion body.
type Response struct {
	Text string `json:"text"`
}
