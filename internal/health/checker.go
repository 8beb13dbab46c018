package health

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	StatusUp   = "up"
	StatusDown = "down"
)

// Pinger is satisfied by *pgxpool.Pool and the in-memory user store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CheckResult represents the health of a single dependency.
type CheckResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthResult is the top-level health response.
type HealthResult struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks,omitempty"`
}

// Checker verifies that the user store is reachable.
type Checker struct {
	name    string
	store   Pinger
	timeout time.Duration
	logger  *slog.Logger
	gauge   *prometheus.GaugeVec
}

// NewChecker creates a checker for the store reported under name and
// registers its gauge with reg.
func NewChecker(name string, store Pinger, logger *slog.Logger, reg prometheus.Registerer) *Checker {
	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "auth",
		Name:      "health_check_up",
		Help:      "Whether a dependency is reachable. 1 = up, 0 = down.",
	}, []string{"dependency"})
	reg.MustRegister(gauge)

	return &Checker{
		name:    name,
		store:   store,
		timeout: 2 * time.Second,
		logger:  logger.With("component", "health"),
		gauge:   gauge,
	}
}

// Liveness reports "up" whenever the process can answer.
func (c *Checker) Liveness(_ context.Context) HealthResult {
	return HealthResult{Status: StatusUp}
}

// Readiness pings the store; the service cannot authenticate anyone without it.
func (c *Checker) Readiness(ctx context.Context) HealthResult {
	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.store.Ping(checkCtx); err != nil {
		c.logger.Warn("store health check failed", "dependency", c.name, "error", err)
		c.gauge.WithLabelValues(c.name).Set(0)
		return HealthResult{
			Status: StatusDown,
			Checks: map[string]CheckResult{c.name: {Status: StatusDown, Error: err.Error()}},
		}
	}

	c.gauge.WithLabelValues(c.name).Set(1)
	return HealthResult{
		Status: StatusUp,
		Checks: map[string]CheckResult{c.name: {Status: StatusUp}},
	}
}
