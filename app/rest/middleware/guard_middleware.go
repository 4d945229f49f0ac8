package middleware

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"console-core/app/guard"
)

// GuardMiddleware translates route authority decisions into HTTP responses.
// Allowed navigations pass through; denied ones are answered with a 302 to
// the decision's redirect target. The return URL survives a login redirect as
// the returnUrl query parameter.
type GuardMiddleware struct {
	authority *guard.Authority
	logger    *slog.Logger
}

// NewGuardMiddleware creates a new guard middleware.
func NewGuardMiddleware(authority *guard.Authority, logger *slog.Logger) *GuardMiddleware {
	return &GuardMiddleware{
		authority: authority,
		logger:    logger.With("component", "guard_middleware"),
	}
}

// RequireAuth applies the auth guard to the navigation.
func (m *GuardMiddleware) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			decision := m.authority.AuthGuard(c.Request().URL.RequestURI())
			if !decision.Allow {
				return m.redirect(c, decision)
			}
			return next(c)
		}
	}
}

// RequireTenant applies the tenant guard, reading the tenant segment from the
// :tenant route parameter.
func (m *GuardMiddleware) RequireTenant() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			decision := m.authority.TenantGuard(c.Param("tenant"), c.Request().URL.RequestURI())
			if !decision.Allow {
				return m.redirect(c, decision)
			}
			return next(c)
		}
	}
}

// RequireSetupComplete applies the setup guard to provisioning-dependent
// views.
func (m *GuardMiddleware) RequireSetupComplete() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			decision := m.authority.SetupRequiredGuard(c.Request().Context())
			if !decision.Allow {
				return m.redirect(c, decision)
			}
			return next(c)
		}
	}
}

func (m *GuardMiddleware) redirect(c echo.Context, decision guard.Decision) error {
	target := decision.RedirectPath
	if decision.ReturnURL != "" {
		target += "?returnUrl=" + url.QueryEscape(decision.ReturnURL)
	}
	m.logger.Info("navigation denied",
		"path", c.Request().URL.Path,
		"redirect", target)
	return c.Redirect(http.StatusFound, target)
}
