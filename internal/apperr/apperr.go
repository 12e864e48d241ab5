package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Sentinel errors for the failure classes the API distinguishes. Handlers
// wrap these with context; the Fiber error handler maps them to status codes.
var (
	// ErrValidation marks requests rejected before any external call.
	ErrValidation = errors.New("validation failed")

	// ErrUpstreamUnavailable marks network/HTTP failures of an external gateway.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrMalformedResponse marks AI responses with no parseable JSON payload.
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrResourceDenied marks missing or inaccessible stored objects.
	ErrResourceDenied = errors.New("resource denied")

	// ErrNotFound marks unknown job/application/session ids.
	ErrNotFound = errors.New("not found")
)

func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func Upstream(err error) error {
	return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
}

// Code returns the taxonomy label used in error response bodies.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, ErrResourceDenied):
		return "resource_denied"
	case errors.Is(err, ErrUpstreamUnavailable):
		return "upstream_unavailable"
	default:
		return "internal_error"
	}
}

// StatusCode maps a taxonomy error to an HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrMalformedResponse), errors.Is(err, ErrUpstreamUnavailable):
		return fiber.StatusBadGateway
	case errors.Is(err, ErrResourceDenied):
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}
