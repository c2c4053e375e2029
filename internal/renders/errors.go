package renders

import (
	"errors"
	"net/http"

	"github.com/inkblot-io/inkblot/internal/pages"
)

// Domain errors for render operations.
var (
	ErrInvalidSelection = pages.ErrInvalidSelection
	ErrInvalidDPI       = errors.New("render dpi out of range")
	ErrRenderFailed     = errors.New("page rendering failed")
)

// MapHTTPStatus converts domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidSelection) || errors.Is(err, ErrInvalidDPI) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrRenderFailed) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
