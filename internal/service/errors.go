package service

import "errors"

// The error taxonomy the handlers map onto HTTP codes. Store failures
// are wrapped and propagated separately; they never collapse into one
// of these. Insufficient-role failures (403) never reach the services:
// the policy gate in internal/middleware produces them.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrConflict           = errors.New("email already registered")
	ErrNotFound           = errors.New("user not found")
)
