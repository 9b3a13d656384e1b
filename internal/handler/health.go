package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/bookshelf/internal/middleware"
	"github.com/deppfellow/bookshelf/internal/server"
)

// StoreCheckName is the health check name of the backing file check.
const StoreCheckName = "store"

// StoreChecker is implemented by the book store to report whether its
// backing file is usable.
type StoreChecker interface {
	Check(ctx context.Context) error
}

// HealthHandler serves the /status endpoint used by uptime monitors and
// load balancers.
type HealthHandler struct {
	Handler
	store StoreChecker
}

// NewHealthHandler constructs a HealthHandler that checks store.
func NewHealthHandler(s *server.Server, store StoreChecker) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
		store:   store,
	}
}

// CheckHealth returns the service status and the result of each configured check.
//
// It returns:
//   - 200 OK if all checks pass (or checks are disabled)
//   - 503 Service Unavailable if any check fails
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]interface{})
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	isHealthy := true
	cfg := h.server.Config.Observability.HealthChecks

	if cfg.Enabled && h.wants(StoreCheckName) {
		ctx, cancel := context.WithTimeout(c.Request().Context(), cfg.Timeout)
		defer cancel()

		storeStart := time.Now()

		var err error
		if h.store == nil {
			err = fmt.Errorf("store not configured")
		} else {
			err = h.store.Check(ctx)
		}

		if err != nil {
			checks[StoreCheckName] = map[string]interface{}{
				"status":        "unhealthy",
				"response_time": time.Since(storeStart).String(),
				"error":         err.Error(),
			}

			isHealthy = false

			logger.Error().
				Err(err).
				Dur("response_time", time.Since(storeStart)).
				Msg("store health check failed")

			h.recordHealthCheckError(map[string]interface{}{
				"check_type":       StoreCheckName,
				"operation":        "health_check",
				"error_type":       "store_unhealthy",
				"response_time_ms": time.Since(storeStart).Milliseconds(),
				"error_message":    err.Error(),
			})
		} else {
			checks[StoreCheckName] = map[string]interface{}{
				"status":        "healthy",
				"response_time": time.Since(storeStart).String(),
			}

			logger.Debug().
				Dur("response_time", time.Since(storeStart)).
				Msg("store health check passed")
		}
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordHealthCheckError(map[string]interface{}{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")

		h.recordHealthCheckError(map[string]interface{}{
			"check_type":    "response",
			"operation":     "health_check",
			"error_type":    "json_response_error",
			"error_message": err.Error(),
		})

		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

func (h *HealthHandler) wants(name string) bool {
	for _, check := range h.server.Config.Observability.HealthChecks.Checks {
		if check == name {
			return true
		}
	}
	return false
}

func (h *HealthHandler) recordHealthCheckError(attributes map[string]interface{}) {
	if app := h.server.NewRelic(); app != nil {
		app.RecordCustomEvent("HealthCheckError", attributes)
	}
}
