package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"console-core/app/domain"
	"console-core/app/setup"
	"console-core/app/utils/validator"
)

// SetupHandler exposes the provisioning workflow over HTTP. Step endpoints
// answer 200 with a StepResult whose success flag carries the outcome; only
// malformed requests produce error statuses, mirroring the orchestrator's
// fail-forward behavior.
type SetupHandler struct {
	orchestrator *setup.Orchestrator
	validate     *validator.Validator
	logger       *slog.Logger
}

// NewSetupHandler creates a new setup handler.
func NewSetupHandler(orchestrator *setup.Orchestrator, validate *validator.Validator, logger *slog.Logger) *SetupHandler {
	return &SetupHandler{
		orchestrator: orchestrator,
		validate:     validate,
		logger:       logger.With("component", "setup_handler"),
	}
}

// RunSetup executes the full provisioning workflow.
func (h *SetupHandler) RunSetup(c echo.Context) error {
	var data domain.SetupData
	if err := c.Bind(&data); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Validate(&data); err != nil {
		return validationResponse(c, err)
	}

	result := h.orchestrator.CompleteSetup(c.Request().Context(), data)
	return c.JSON(http.StatusOK, result)
}

// GenerateSSHKey asks the backend for a fresh key pair.
func (h *SetupHandler) GenerateSSHKey(c echo.Context) error {
	pair, err := h.orchestrator.GenerateSSHKey(c.Request().Context())
	if err != nil {
		return apiErrorResponse(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, pair)
}

// RegisterSSHKey runs the SSH key registration step on its own.
func (h *SetupHandler) RegisterSSHKey(c echo.Context) error {
	var cfg domain.SSHKeyConfig
	if err := c.Bind(&cfg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.JSON(http.StatusOK, h.orchestrator.RegisterSSHKey(c.Request().Context(), cfg))
}

// RegisterServer runs the server registration step on its own.
func (h *SetupHandler) RegisterServer(c echo.Context) error {
	var cfg domain.ServerConfig
	if err := c.Bind(&cfg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Validate(&cfg); err != nil {
		return validationResponse(c, err)
	}
	return c.JSON(http.StatusOK, h.orchestrator.RegisterServer(c.Request().Context(), cfg))
}

// TestConnection probes SSH reachability of the registered server.
func (h *SetupHandler) TestConnection(c echo.Context) error {
	return c.JSON(http.StatusOK, h.orchestrator.TestConnection(c.Request().Context()))
}

// InstallAgent runs the agent installation step on its own.
func (h *SetupHandler) InstallAgent(c echo.Context) error {
	var cfg domain.AgentConfig
	if err := c.Bind(&cfg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.JSON(http.StatusOK, h.orchestrator.InstallAgent(c.Request().Context(), cfg))
}

// ConfigureInstance runs the instance configuration step on its own.
func (h *SetupHandler) ConfigureInstance(c echo.Context) error {
	var cfg domain.AgentConfig
	if err := c.Bind(&cfg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.JSON(http.StatusOK, h.orchestrator.ConfigureInstance(c.Request().Context(), cfg))
}

// Status reports the tenant's setup status. skip_cache=true forces a backend
// round trip. A backend failure answers 502 with the degraded status so the
// client still learns the safe default.
func (h *SetupHandler) Status(c echo.Context) error {
	skipCache, _ := strconv.ParseBool(c.QueryParam("skip_cache"))

	status, err := h.orchestrator.CheckSetupStatus(c.Request().Context(), skipCache)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]any{
			"status": status,
			"error":  "setup status check failed",
		})
	}
	return c.JSON(http.StatusOK, status)
}

// RefreshStatus clears the cache and fetches a fresh status.
func (h *SetupHandler) RefreshStatus(c echo.Context) error {
	status, err := h.orchestrator.ForceCheckSetupStatus(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]any{
			"status": status,
			"error":  "setup status check failed",
		})
	}
	return c.JSON(http.StatusOK, status)
}

// ServiceStatus reports the live agent service state of a server.
func (h *SetupHandler) ServiceStatus(c echo.Context) error {
	serverID, err := strconv.ParseInt(c.Param("serverId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid server id")
	}
	return c.JSON(http.StatusOK, h.orchestrator.CheckServiceStatus(c.Request().Context(), serverID))
}

// MarkCompleteRequest identifies the instance to persist completion for.
type MarkCompleteRequest struct {
	InstanceID string `json:"instance_id" validate:"required"`
	ServerID   int64  `json:"server_id" validate:"required"`
}

// MarkComplete persists setup completion for a known instance.
func (h *SetupHandler) MarkComplete(c echo.Context) error {
	var req MarkCompleteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Validate(&req); err != nil {
		return validationResponse(c, err)
	}
	return c.JSON(http.StatusOK, h.orchestrator.MarkSetupComplete(c.Request().Context(), req.InstanceID, req.ServerID))
}

// Reset drops the orchestrator's captured step identifiers.
func (h *SetupHandler) Reset(c echo.Context) error {
	h.orchestrator.ResetState()
	return c.NoContent(http.StatusNoContent)
}
