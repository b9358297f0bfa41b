package service

import "errors"

// Failure classes shared by all services. Handlers map these onto HTTP
// status codes with errors.Is; everything unmatched is a 500.
var (
	ErrLoginTaken         = errors.New("login already taken")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoSession          = errors.New("no session")
	ErrSessionExpired     = errors.New("session expired")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrBadCSRF            = errors.New("csrf token invalid")
)
