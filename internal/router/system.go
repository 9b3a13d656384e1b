package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/bookshelf/internal/handler"
	"github.com/deppfellow/bookshelf/static"
)

// registerSystemRoutes registers "system" endpoints that are not part of the book API.
//
// System routes are kept separate in a dedicated file. Routes include:
//  1. Health endpoint
//  2. Docs endpoint (OpenAPI UI)
//  3. Static files endpoint (to serve openapi.json and openapi.html assets)
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	// Health status endpoint (used by Kubernetes/monitors).
	r.GET("/status", h.Health.CheckHealth)

	// Serve the embedded docs assets at /static/*.
	// Used for openapi.json and openapi.html (and any future docs assets).
	r.StaticFS("/static", static.FS)

	// Docs UI endpoint (serves openapi.html).
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
