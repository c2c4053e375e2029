package artifacts

import (
	"errors"
	"net/http"
)

// Domain errors for artifact operations.
var (
	ErrNotFound    = errors.New("artifact not found")
	ErrDuplicate   = errors.New("artifact storage key already exists")
	ErrInvalidKind = errors.New("invalid artifact kind")
)

// MapHTTPStatus converts domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidKind) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
