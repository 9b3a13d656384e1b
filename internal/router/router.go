// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/bookshelf/internal/handler"
	"github.com/deppfellow/bookshelf/internal/middleware"
	"github.com/deppfellow/bookshelf/internal/server"
)

// NewRouter builds the Echo instance with every middleware and route attached.
//
// Middleware order matters:
//   - CORS and secure headers first, so error responses carry them too
//   - RequestID before anything that logs
//   - New Relic before EnhanceTracing and ContextEnhancer, which read the transaction
//   - ContextEnhancer before the rate limiter and request logger, which use its logger
//   - Recover last, closest to the handlers
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.RateLimit.Limit(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)
	registerBookRoutes(router, h)

	return router
}
