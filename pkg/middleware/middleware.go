// Package middleware provides composable HTTP middleware and a chain builder.
package middleware

import "net/http"

// Middleware wraps an http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// System accumulates middleware and applies them to a handler in
// registration order: the first registered middleware is outermost.
type System struct {
	chain []Middleware
}

// New creates an empty middleware system.
func New() *System {
	return &System{}
}

// Use appends middleware to the chain.
func (s *System) Use(mw Middleware) {
	s.chain = append(s.chain, mw)
}

// Apply wraps handler with the registered middleware.
func (s *System) Apply(handler http.Handler) http.Handler {
	for i := len(s.chain) - 1; i >= 0; i-- {
		handler = s.chain[i](handler)
	}
	return handler
}
