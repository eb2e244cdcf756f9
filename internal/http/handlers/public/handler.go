// Package public serves the storefront and visitor-facing API.
package public

import "github.com/inkfolio-shop/internal/provider"

// Handler is the entry point for public endpoints.
type Handler struct {
	*provider.Container
}

// New creates the public handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
