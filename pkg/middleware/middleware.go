// Package middleware provides composable HTTP middleware: request logging,
// CORS, and request body limits.
package middleware

import "net/http"

// Middleware wraps an http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// System accumulates middleware and applies them to a terminal handler.
type System interface {
	Use(mw Middleware)
	Wrap(handler http.Handler) http.Handler
}

type chain struct {
	stack []Middleware
}

// New creates an empty middleware system.
func New() System {
	return &chain{}
}

// Use appends middleware to the stack. Middleware run in registration order:
// the first registered is the outermost wrapper.
func (c *chain) Use(mw Middleware) {
	c.stack = append(c.stack, mw)
}

// Wrap applies the accumulated middleware around the terminal handler.
func (c *chain) Wrap(handler http.Handler) http.Handler {
	wrapped := handler
	for i := len(c.stack) - 1; i >= 0; i-- {
		wrapped = c.stack[i](wrapped)
	}
	return wrapped
}
