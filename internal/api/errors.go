package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/eduforge/aigen-api/internal/domain"
	"github.com/eduforge/aigen-api/internal/generation"
	"github.com/eduforge/aigen-api/internal/service/auth"
	"github.com/eduforge/aigen-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden

	// Usage limit errors: both the hourly cap and the monthly quota
	// surface as 429; the response body carries the distinction.
	case errors.Is(err, generation.ErrRateLimited),
		errors.Is(err, generation.ErrQuotaExceeded):
		return http.StatusTooManyRequests

	// Service availability errors
	case errors.Is(err, generation.ErrServiceDisabled),
		errors.Is(err, generation.ErrNoProviderAvailable):
		return http.StatusServiceUnavailable

	// Upstream generation errors. ErrInvalidFormat wraps a completed
	// provider call whose output failed structural checks; it maps to
	// the same 502 class as a failed call.
	case errors.Is(err, generation.ErrInvalidFormat),
		errors.Is(err, generation.ErrGenerationFailed):
		return http.StatusBadGateway

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidServiceKind),
		errors.Is(err, domain.ErrInvalidReviewStatus):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	// Handle nil error
	if err == nil {
		return "An unexpected error occurred"
	}

	// Map specific error types to user-friendly messages
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	// Authorization errors
	case errors.Is(err, domain.ErrUnauthorized):
		return "You are not allowed to perform this action"

	// Usage limit errors. The rate-limit message keeps the tracker's
	// reason because it names only the cap and the window.
	case errors.Is(err, generation.ErrRateLimited):
		var rateErr *generation.RateLimitedError
		if errors.As(err, &rateErr) && rateErr.Reason != "" {
			return rateErr.Reason
		}
		return "Rate limit exceeded"

	case errors.Is(err, generation.ErrQuotaExceeded):
		return "Monthly usage limit exceeded"

	// Service availability errors
	case errors.Is(err, generation.ErrServiceDisabled):
		return "This service is currently disabled"

	case errors.Is(err, generation.ErrNoProviderAvailable):
		return "No AI provider is available right now"

	// Upstream generation errors
	case errors.Is(err, generation.ErrInvalidFormat):
		return "Generated content had an invalid format"

	case errors.Is(err, generation.ErrGenerationFailed):
		return "AI generation failed"

	// Not found errors
	case errors.Is(err, store.ErrLessonNotFound):
		return "Lesson not found"

	case errors.Is(err, store.ErrGeneratedContentNotFound):
		return "Generated content not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation):
		return "Invalid entity data"

	case errors.Is(err, domain.ErrInvalidServiceKind):
		return "Unknown service kind"

	case errors.Is(err, domain.ErrInvalidReviewStatus):
		return "Invalid review action"

	// Default case for unknown errors
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Check if this is likely a validation error message
	if strings.Contains(errMsg, "Field validation") {
		// Extract the field name and validation tag
		// Example format: "Key: 'GenerateQuizRequest.LessonID' Error:Field validation for 'LessonID' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			// Further split to get just the field validation part
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				// Create a cleaner error message
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	// Fall back to a generic validation error message
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "gt", "min":
		return "too small"
	case "lte", "max":
		return "too large"
	case "oneof":
		return "invalid value"
	case "uuid":
		return "invalid identifier"
	default:
		return "validation failed"
	}
}
