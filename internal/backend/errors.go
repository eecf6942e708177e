package backend

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized indicates the backend rejected the forwarded token.
	ErrUnauthorized = errors.New("backend rejected credentials")
	// ErrNotFound indicates the requested record does not exist upstream.
	ErrNotFound = errors.New("backend record not found")
)

// APIError describes any other non-2xx backend response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend responded with status %d", e.Status)
	}
	return fmt.Sprintf("backend responded with status %d: %s", e.Status, e.Message)
}

// Unwrap maps auth and not-found statuses onto their sentinel errors.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return nil
	}
}

// IsClientError reports whether the backend refused the request as invalid.
func IsClientError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status >= 400 && apiErr.Status < 500
}
