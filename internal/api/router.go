package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openfield/auth-system/internal/api/handler"
	"github.com/openfield/auth-system/internal/api/middleware"
	"github.com/openfield/auth-system/internal/core/model"
	"github.com/openfield/auth-system/internal/core/ports"
	"github.com/openfield/auth-system/internal/core/service"
	mongodb "github.com/openfield/auth-system/internal/infrastructure/db/mongo"
	redisdb "github.com/openfield/auth-system/internal/infrastructure/db/redis"
	"github.com/openfield/auth-system/internal/infrastructure/http/handlers"
	"github.com/openfield/auth-system/internal/pkg/config"
)

// Dependencies carries everything the router needs that is built at startup:
// the assembled entity registry, the resolved settings, storage clients, and
// the audit dispatcher.
type Dependencies struct {
	DB         *mongo.Database
	Redis      *redis.Client
	Registry   *model.Registry
	Settings   *model.Settings
	Dispatcher ports.EventDispatcher
	Config     *config.Config
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Dependencies ---
	users := mongodb.NewUserRepository(deps.DB)
	groups := mongodb.NewGroupRepository(deps.DB)
	denylist := redisdb.NewDenylist(deps.Redis)

	authService := service.NewAuthService(
		deps.Registry, deps.Settings, users, groups, deps.Dispatcher,
		deps.Config.JWTSecret, deps.Config.Auth.TokenTTL, deps.Log,
	)
	accountService := service.NewAccountService(
		deps.Registry, users, denylist, deps.Dispatcher,
		deps.Config.Auth.TokenTTL, deps.Log,
	)

	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(authService, deps.Settings, deps.Registry)
	formHandler := handler.NewFormHandler(deps.Settings, deps.Registry)
	accountHandler := handler.NewAccountHandler(accountService)

	authMiddleware := middleware.Auth(deps.Config.JWTSecret, denylist)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/verify", authHandler.Verify)
	e.POST("/auth/reset", authHandler.RequestReset)
	e.POST("/auth/reset/confirm", authHandler.ResetPassword)

	// --- Form visibility ---
	e.GET("/v1/forms/:context", formHandler.Fields)

	// --- Profile (authenticated) ---
	profile := e.Group("/v1/profile", authMiddleware)
	profile.GET("", profileHandler.Get)
	profile.PUT("", profileHandler.Update)

	// --- Account state operations (admin only) ---
	accounts := e.Group("/v1/accounts", authMiddleware, middleware.RBAC("admin"))
	accounts.POST("/:id/disable", accountHandler.Disable)
	accounts.POST("/:id/block", accountHandler.Block)
	accounts.POST("/:id/allow", accountHandler.Allow)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Metrics ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
