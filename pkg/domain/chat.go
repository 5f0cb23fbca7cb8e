package domain

// Message is a single turn of a conversation. The history is owned by the
// client for the duration of a session; nothing is persisted server-side.
type Message struct {
	Role    string `json:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content" validate:"required"`
}
