package di

import (
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"

	"console-core/app/config"
	"console-core/app/driver/backrest"
	"console-core/app/driver/kvstore"
	"console-core/app/gateway"
	"console-core/app/guard"
	"console-core/app/port"
	"console-core/app/rest"
	"console-core/app/session"
	"console-core/app/setup"
	"console-core/app/utils/validator"
)

// Container holds all dependencies for the application.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Drivers
	Store  port.KeyValueStore
	Client *backrest.Client

	// Core
	Sessions     *session.Store
	Resolver     *session.Resolver
	Cache        *setup.StatusCache
	Orchestrator *setup.Orchestrator
	Gateway      *gateway.AuthGateway
	Authority    *guard.Authority

	Validator *validator.Validator

	sqlite *kvstore.SQLite
}

// NewContainer creates and initializes a new dependency injection container.
// The durable store is opened, the persisted session is loaded, and the full
// core is wired.
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	container := &Container{
		Config:    cfg,
		Logger:    logger,
		Validator: validator.New(),
	}

	store, err := kvstore.NewSQLite(cfg.StoragePath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open key-value store: %w", err)
	}
	container.sqlite = store
	container.Store = store

	container.Sessions = session.NewStore(store, logger)
	container.Sessions.Initialize()

	container.Resolver = session.NewResolver(
		container.Sessions, cfg.TenantScheme, cfg.TenantPort, cfg.TenantBasePath)
	container.Client = backrest.NewClient(cfg, container.Resolver, logger)

	container.Cache = setup.NewStatusCache(store, logger)
	container.Orchestrator = setup.NewOrchestrator(container.Client, container.Cache, logger)

	container.Gateway = gateway.NewAuthGateway(
		container.Client,
		container.Sessions,
		container.Cache,
		container.Orchestrator,
		container.Validator,
		logger,
	)
	container.Authority = guard.NewAuthority(
		container.Sessions,
		container.Cache,
		container.Orchestrator,
		container.Gateway,
		logger,
	)

	logger.Info("container initialized",
		"storage_path", cfg.StoragePath,
		"tenant_bound", container.Sessions.TenantDomain() != "")

	return container, nil
}

// CreateRouter creates and returns a fully configured Echo router.
func (c *Container) CreateRouter() *echo.Echo {
	return rest.NewRouter(rest.RouterConfig{
		Logger:       c.Logger,
		Config:       c.Config,
		Sessions:     c.Sessions,
		Gateway:      c.Gateway,
		Orchestrator: c.Orchestrator,
		Authority:    c.Authority,
		Store:        c.Store,
		Validator:    c.Validator,
		EnableDebug:  c.Config.LogLevel == "debug",
	})
}

// Close closes all resources.
func (c *Container) Close() error {
	if c.sqlite != nil {
		if err := c.sqlite.Close(); err != nil {
			return err
		}
	}
	c.Logger.Info("container closed")
	return nil
}
