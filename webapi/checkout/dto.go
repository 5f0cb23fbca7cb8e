package checkout

// TopupRequest selects the connection whose wallet receives the funds.
type TopupRequest struct {
	ConnectionID string `json:"connectionId" validate:"required"`
}

// SessionResponse carries the opaque token the client hands to the hosted
// checkout widget.
type SessionResponse struct {
	Token string `json:"token"`
}
