package provider

import "errors"

var (
	// ErrUnknownProvider is returned by Registry.Create for an
	// identifier with no registered factory.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrMissingAPIKey is returned by provider constructors when the
	// configuration has no API key.
	ErrMissingAPIKey = errors.New("provider API key is required")
)
