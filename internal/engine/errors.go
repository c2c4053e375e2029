package engine

import "errors"

// Engine errors returned by Document implementations.
var (
	// ErrUnsupported indicates the input bytes are not a document the
	// engine can open.
	ErrUnsupported = errors.New("engine: unsupported document")

	// ErrPageOutOfRange indicates a page index outside the document.
	ErrPageOutOfRange = errors.New("engine: page out of range")

	// ErrInvalidRect indicates a degenerate or inverted rectangle.
	ErrInvalidRect = errors.New("engine: invalid rectangle")

	// ErrClosed indicates an operation on a closed document.
	ErrClosed = errors.New("engine: document closed")
)
