package domain

import "errors"

// Common domain errors
var (
	// ErrConnectionNotFound is returned when the payments service reports an
	// unknown connection identifier.
	ErrConnectionNotFound = errors.New("connection not found")
	// ErrValidation is returned when input validation fails
	ErrValidation = errors.New("validation error")
	// ErrUpstream is returned when the payments or model service fails for any
	// reason other than a missing resource.
	ErrUpstream = errors.New("upstream service error")
)
