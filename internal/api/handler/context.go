package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/v-pascoal/radar-hub/internal/api/metrics"
	"github.com/v-pascoal/radar-hub/internal/api/middleware"
	"github.com/v-pascoal/radar-hub/internal/core/domain"
)

// ctxActor extracts the stored user injected by the Auth middleware. Its
// absence means the route was mounted without authentication; reject with 401
// rather than letting a nil actor reach the services.
func ctxActor(c echo.Context) (*domain.User, error) {
	actor := middleware.Actor(c)
	if actor == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return actor, nil
}

// bindAndValidate decodes the JSON body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}

// observe starts a latency timer for a domain operation.
func observe(operation string) *prometheus.Timer {
	return prometheus.NewTimer(metrics.RequestDuration.WithLabelValues(operation))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
