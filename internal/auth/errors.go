package auth

import "errors"

var (
	// ErrTokenInvalid is returned when a token fails signature, expiry or claim checks.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrTokenMissing is returned when a request carries no bearer token.
	ErrTokenMissing = errors.New("missing bearer token")

	// ErrForbidden is returned when a valid token lacks the required scope.
	ErrForbidden = errors.New("insufficient scope")
)
