package httptransport

import (
	"log/slog"

	"github.com/ErlanBelekov/auth-service/internal/transport/http/handler"
	"github.com/ErlanBelekov/auth-service/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(logger *slog.Logger, authHandler *handler.AuthHandler, guard *middleware.Guard) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.NewWithConfig(logger, sloggin.Config{
		WithRequestID: false,
	}))
	r.Use(middleware.Metrics())

	auth := r.Group("/auth")
	auth.POST("", authHandler.Create)
	auth.POST("/login", authHandler.Login)
	auth.POST("/register", authHandler.Register)

	// Protected routes
	protected := auth.Group("", guard.Handler())
	protected.GET("", authHandler.List)
	protected.GET("/check-token", authHandler.CheckToken)

	return r
}
