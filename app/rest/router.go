package rest

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"console-core/app/config"
	"console-core/app/gateway"
	"console-core/app/guard"
	"console-core/app/port"
	"console-core/app/rest/handlers"
	custommw "console-core/app/rest/middleware"
	"console-core/app/session"
	"console-core/app/setup"
	"console-core/app/utils/validator"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	Logger       *slog.Logger
	Config       *config.Config
	Sessions     *session.Store
	Gateway      *gateway.AuthGateway
	Orchestrator *setup.Orchestrator
	Authority    *guard.Authority
	Store        port.KeyValueStore
	Validator    *validator.Validator
	EnableDebug  bool
}

// NewRouter creates and configures the Echo router.
func NewRouter(rc RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Debug = rc.EnableDebug

	authHandler := handlers.NewAuthHandler(rc.Gateway, rc.Sessions, rc.Validator, rc.Logger)
	setupHandler := handlers.NewSetupHandler(rc.Orchestrator, rc.Validator, rc.Logger)
	healthHandler := handlers.NewHealthHandler(rc.Store, rc.Logger)
	navHandler := handlers.NewNavigationHandler(rc.Orchestrator)

	guardMW := custommw.NewGuardMiddleware(rc.Authority, rc.Logger)
	rateLimiter := custommw.NewRateLimiter(rc.Config.LoginRatePerSecond, rc.Config.LoginRateBurst)

	// Global middleware
	e.Use(middleware.Recover())
	e.Use(custommw.RequestLogger(rc.Logger))
	e.Use(custommw.DefaultCORS())
	e.Use(custommw.SecurityHeaders())
	e.Use(rateLimiter.RateLimit())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/health/ready", healthHandler.ReadinessCheck)
	e.GET("/health/live", healthHandler.LivenessCheck)

	v1 := e.Group("/v1")

	// Authentication endpoints
	auth := v1.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/session", authHandler.SessionInfo)

	// Provisioning endpoints, authenticated sessions only
	setupGroup := v1.Group("/setup", guardMW.RequireAuth())
	setupGroup.POST("/run", setupHandler.RunSetup)
	setupGroup.POST("/ssh-keys/generate", setupHandler.GenerateSSHKey)
	setupGroup.POST("/ssh-keys", setupHandler.RegisterSSHKey)
	setupGroup.POST("/servers", setupHandler.RegisterServer)
	setupGroup.POST("/servers/test-connection", setupHandler.TestConnection)
	setupGroup.POST("/install", setupHandler.InstallAgent)
	setupGroup.POST("/instance", setupHandler.ConfigureInstance)
	setupGroup.GET("/status", setupHandler.Status)
	setupGroup.POST("/status/refresh", setupHandler.RefreshStatus)
	setupGroup.GET("/servers/:serverId/service-status", setupHandler.ServiceStatus)
	setupGroup.POST("/mark-complete", setupHandler.MarkComplete)
	setupGroup.POST("/reset", setupHandler.Reset)

	// Guarded navigation targets
	e.GET("/login", navHandler.LoginPage)
	tenant := e.Group("/:tenant", guardMW.RequireTenant())
	tenant.GET("/dashboard", navHandler.Dashboard,
		guardMW.RequireAuth(), guardMW.RequireSetupComplete())
	tenant.GET("/setup", navHandler.SetupPage, guardMW.RequireAuth())

	return e
}
