package metrics

import (
	"net/http"

	"github.com/ErlanBelekov/auth-service/internal/health"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "auth"

var (
	// Authentication

	LoginAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Login attempts, by outcome.",
	}, []string{"outcome"})

	AccountsCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_created_total",
		Help:      "Account creation attempts, by outcome.",
	}, []string{"outcome"})

	PasswordHashDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "password_hash_duration_seconds",
		Help:      "Time spent hashing or verifying a password.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	})

	RegisteredUsers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "registered_users",
		Help:      "Number of user accounts in the store.",
	})

	// Guard

	GuardDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Access guard decisions, by result.",
	}, []string{"result"})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})

	HTTPRequestsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_in_flight",
		Help:      "Requests currently being served by the public API.",
	})
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		LoginAttemptsTotal,
		AccountsCreatedTotal,
		PasswordHashDuration,
		RegisteredUsers,
		GuardDecisionsTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
		HTTPRequestsInFlight,
	)
}

// NewServer serves /metrics plus liveness and readiness probes on a port
// separate from the public API.
func NewServer(addr string, checker *health.Checker) *http.Server {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, checker.Liveness(c.Request.Context()))
	})
	r.GET("/readyz", func(c *gin.Context) {
		res := checker.Readiness(c.Request.Context())
		status := http.StatusOK
		if res.Status != health.StatusUp {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, res)
	})

	return &http.Server{Addr: addr, Handler: r}
}
