package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/deppfellow/bookshelf/internal/errs"
	"github.com/deppfellow/bookshelf/internal/server"
)

// RateLimitedMessage is the client message for a rejected request.
const RateLimitedMessage = "Too many requests."

// RateLimitMiddleware limits requests per client IP using Echo's in-memory
// limiter store, and records every rejection.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Limit returns the limiter middleware, or a pass-through one when
// server.rate_limit.rate is zero.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	cfg := r.server.Config.Server.RateLimit
	if !cfg.Enabled() {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.Rate),
			Burst:     burst,
			ExpiresIn: cfg.ExpiresIn,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewInternalServerError().WithInternal(err)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c, identifier)
			return errs.NewTooManyRequestsError(RateLimitedMessage).WithInternal(err)
		},
	})
}

// RecordRateLimitHit logs a rejected request and emits a RateLimitHit
// custom event when New Relic is enabled.
func (r *RateLimitMiddleware) RecordRateLimitHit(c echo.Context, identifier string) {
	GetLogger(c).Warn().
		Str("identifier", identifier).
		Str("endpoint", c.Path()).
		Msg("rate limit hit")

	if app := r.server.NewRelic(); app != nil {
		app.RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint":   c.Path(),
			"identifier": identifier,
		})
	}
}
