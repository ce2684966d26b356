package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/eduforge/aigen-api/internal/api/shared"
	"github.com/eduforge/aigen-api/internal/domain"
	"github.com/eduforge/aigen-api/internal/generation"
)

// userFromContext rebuilds the requesting user from the identity the
// auth middleware stored in the context. The generation subsystem only
// needs the ID and role; the full user record lives on the course
// platform.
//
// Returns the user and true on success, or nil and false when the
// request was not authenticated.
func userFromContext(r *http.Request) (*domain.User, bool) {
	userID, ok := shared.GetUserID(r.Context())
	if !ok {
		return nil, false
	}

	role, ok := shared.GetUserRole(r.Context())
	if !ok {
		// Authenticated requests always carry a role; missing means the
		// middleware did not run for this route.
		return nil, false
	}

	return &domain.User{ID: userID, Role: role}, true
}

// getPathUUID extracts a UUID from the URL path parameters.
// It parses and validates the UUID, handling common error cases.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	// Extract parameter from URL path using chi router
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.ErrInvalidID
	}

	// Parse parameter as UUID
	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidID
	}

	return id, nil
}

// errorCode returns the machine-readable code for errors where clients
// need to tell apart responses sharing an HTTP status. Returns an empty
// string for errors the status alone identifies.
func errorCode(err error) string {
	switch {
	case errors.Is(err, generation.ErrQuotaExceeded):
		return "quota_exceeded"
	case errors.Is(err, generation.ErrRateLimited):
		return "rate_limit_exceeded"
	case errors.Is(err, generation.ErrServiceDisabled):
		return "service_disabled"
	case errors.Is(err, generation.ErrNoProviderAvailable):
		return "no_provider_available"
	case errors.Is(err, generation.ErrInvalidFormat):
		return "invalid_format"
	case errors.Is(err, generation.ErrGenerationFailed):
		return "generation_failed"
	default:
		return ""
	}
}

// respondWithMappedError translates a service error into the matching
// HTTP response: mapped status, safe message, machine-readable code, and
// a Retry-After header when the hourly rate limit was hit.
func respondWithMappedError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)

	var opts []shared.ResponseOption
	if code := errorCode(err); code != "" {
		opts = append(opts, shared.WithErrorCode(code))
	}

	// Headers must be set before the response body is written.
	var rateErr *generation.RateLimitedError
	if errors.As(err, &rateErr) && rateErr.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(rateErr.RetryAfter))
	}

	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err, opts...)
}
