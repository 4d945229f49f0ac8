package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"console-core/app/setup"
)

// NavigationHandler serves the guarded navigation targets. The console
// frontend owns the actual rendering; these endpoints exist so the route
// guards have navigations to admit or redirect, and they answer with a small
// view descriptor.
type NavigationHandler struct {
	orchestrator *setup.Orchestrator
}

// NewNavigationHandler creates a new navigation handler.
func NewNavigationHandler(orchestrator *setup.Orchestrator) *NavigationHandler {
	return &NavigationHandler{orchestrator: orchestrator}
}

// LoginPage is the unauthenticated landing view.
func (h *NavigationHandler) LoginPage(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"view":       "login",
		"return_url": c.QueryParam("returnUrl"),
	})
}

// Dashboard is the provisioning-dependent tenant view.
func (h *NavigationHandler) Dashboard(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"view":   "dashboard",
		"tenant": c.Param("tenant"),
	})
}

// SetupPage is the tenant's provisioning view.
func (h *NavigationHandler) SetupPage(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"view":   "setup",
		"tenant": c.Param("tenant"),
		"phase":  h.orchestrator.Phase(),
	})
}
