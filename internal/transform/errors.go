package transform

import (
	"errors"
	"net/http"

	"github.com/inkblot-io/inkblot/internal/pages"
)

// Domain errors for transform operations. ErrInvalidSelection is shared with
// the pages package so selection failures surface uniformly.
var (
	ErrInvalidSelection = pages.ErrInvalidSelection
	ErrUnsupportedInput = errors.New("unsupported input document")
	ErrProcessing       = errors.New("document processing failed")
)

// MapHTTPStatus converts domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidSelection) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrUnsupportedInput) {
		return http.StatusUnsupportedMediaType
	}
	if errors.Is(err, ErrProcessing) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
