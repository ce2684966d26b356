package auth

import "errors"

// Sentinel errors for token validation. The auth middleware and the
// API error mapper match on these to answer 401 with a stable message.
var (
	// ErrInvalidToken covers malformed tokens and signature mismatches
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates an nbf claim in the future
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")
)
