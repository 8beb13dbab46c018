package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/auth-service/config"
	"github.com/ErlanBelekov/auth-service/internal/email"
	"github.com/ErlanBelekov/auth-service/internal/health"
	"github.com/ErlanBelekov/auth-service/internal/infrastructure/memory"
	"github.com/ErlanBelekov/auth-service/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/auth-service/internal/log"
	"github.com/ErlanBelekov/auth-service/internal/metrics"
	"github.com/ErlanBelekov/auth-service/internal/password"
	"github.com/ErlanBelekov/auth-service/internal/repository"
	"github.com/ErlanBelekov/auth-service/internal/token"
	httptransport "github.com/ErlanBelekov/auth-service/internal/transport/http"
	"github.com/ErlanBelekov/auth-service/internal/transport/http/handler"
	"github.com/ErlanBelekov/auth-service/internal/transport/http/middleware"
	"github.com/ErlanBelekov/auth-service/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// Users
	var (
		userRepo repository.UserRepository
		pinger   health.Pinger
	)
	switch cfg.Store {
	case "memory":
		logger.Warn("using in-memory user store, accounts are lost on restart")
		mem := memory.NewUserRepository()
		userRepo, pinger = mem, mem
	default:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			stop()
			log.Fatalf("db: %v", err)
		}
		defer pool.Close()

		if cfg.RunMigrations {
			if err := postgres.Migrate(ctx, pool); err != nil {
				stop()
				log.Fatalf("migrate: %v", err)
			}
		}
		userRepo, pinger = postgres.NewUserRepository(pool), pool
	}

	// Auth
	hasher := password.NewHasher(cfg.BcryptCost)
	issuer := token.NewIssuer([]byte(cfg.JWTSecret), cfg.JWTTTL)
	mailer := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)
	authUsecase, err := usecase.NewAuthUsecase(userRepo, hasher, issuer, mailer, logger)
	if err != nil {
		stop()
		log.Fatalf("auth usecase: %v", err)
	}
	authHandler := handler.NewAuthHandler(authUsecase, logger)
	guard := middleware.NewGuard(issuer, authUsecase, logger)

	metrics.Register(prometheus.DefaultRegisterer)
	checker := health.NewChecker(cfg.Store, pinger, logger, prometheus.DefaultRegisterer)
	if _, err := metrics.StartUserGauge(ctx, cfg.UserGaugeSchedule, userRepo, logger); err != nil {
		stop()
		log.Fatalf("user gauge: %v", err)
	}

	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httptransport.NewRouter(logger, authHandler, guard),
		ReadHeaderTimeout: 5 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port, "store", cfg.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
