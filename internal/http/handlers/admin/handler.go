// Package admin serves the management API. Every route behind it requires a
// valid JWT and a role grant for the requested path and method.
package admin

import "github.com/inkfolio-shop/internal/provider"

// Handler is the entry point for admin endpoints.
type Handler struct {
	*provider.Container
}

// New creates the admin handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
