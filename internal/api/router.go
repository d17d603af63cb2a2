package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/adroid/pool-registry/internal/api/handler"
	"github.com/adroid/pool-registry/internal/api/middleware"
	"github.com/adroid/pool-registry/internal/core/domain"
	"github.com/adroid/pool-registry/internal/core/ports"
	"github.com/adroid/pool-registry/internal/core/service"
)

// Config carries the dependencies NewRouter wires together.
type Config struct {
	Users ports.UserRepository
	Pools ports.PoolRepository
	// Limiter is optional; nil disables login throttling.
	Limiter ports.LoginLimiter
	// Probes are pinged by the readiness endpoint, keyed by dependency name.
	Probes map[string]handler.Pinger

	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	Logger zerolog.Logger

	// Registerer and Gatherer enable HTTP metrics and GET /metrics. Both nil
	// leaves metrics off.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(cfg.Logger))
	if cfg.Registerer != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  "pool_registry",
			Registerer: cfg.Registerer,
		}))
	}

	// --- Dependencies ---
	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(cfg.Users, tokens, cfg.Limiter, cfg.BcryptCost, cfg.Logger)
	userService := service.NewUserService(cfg.Users, cfg.BcryptCost, cfg.Logger)
	poolService := service.NewPoolService(cfg.Pools, cfg.Logger)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	poolHandler := handler.NewPoolHandler(poolService)
	healthHandler := handler.NewHealthHandler(cfg.Probes)

	requireAuth := middleware.Auth(authService)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, requireAuth)

	// --- Pool routes ---
	pools := e.Group("/pools", requireAuth)
	pools.GET("", poolHandler.List)
	pools.GET("/search", poolHandler.Search)
	pools.GET("/:id", poolHandler.Get)
	pools.POST("", poolHandler.Create)
	pools.PUT("/:id", poolHandler.Update, adminOnly)
	pools.DELETE("/:id", poolHandler.Delete, adminOnly)

	// --- User administration ---
	e.POST("/users", userHandler.Create, requireAuth, adminOnly)

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	if cfg.Gatherer != nil {
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: cfg.Gatherer}))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
