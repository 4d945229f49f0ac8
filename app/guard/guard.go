package guard

import (
	"context"
	"log/slog"
	"strings"

	"console-core/app/port"
	"console-core/app/session"
	"console-core/app/setup"
)

// Decision is the outcome of a route guard evaluation. A denied navigation
// always carries the redirect target; ReturnURL preserves the originally
// requested path across a login redirect.
type Decision struct {
	Allow        bool
	RedirectPath string
	ReturnURL    string
}

func allowed() Decision {
	return Decision{Allow: true}
}

func redirectLogin(returnURL string) Decision {
	return Decision{RedirectPath: "/login", ReturnURL: returnURL}
}

func redirectTo(path string) Decision {
	return Decision{RedirectPath: path}
}

// staticAssetSuffixes bypass guard evaluation entirely so resource loading is
// never caught in an auth redirect.
var staticAssetSuffixes = []string{".map", ".css", ".js"}

// SessionTerminator tears down the session when a guard finds it corrupt.
type SessionTerminator interface {
	Logout()
}

// Authority evaluates route-level authorization. Each guard is a pure
// decision function over session and setup state; translating a decision
// into an HTTP response is the transport layer's concern.
type Authority struct {
	sessions *session.Store
	cache    *setup.StatusCache
	checker  port.SetupStatusChecker
	auth     SessionTerminator
	logger   *slog.Logger
}

// NewAuthority creates a route authority.
func NewAuthority(
	sessions *session.Store,
	cache *setup.StatusCache,
	checker port.SetupStatusChecker,
	auth SessionTerminator,
	logger *slog.Logger,
) *Authority {
	return &Authority{
		sessions: sessions,
		cache:    cache,
		checker:  checker,
		auth:     auth,
		logger:   logger.With("component", "route_authority"),
	}
}

// AuthGuard admits authenticated sessions with a bound tenant. A session that
// is authenticated but has lost its tenant binding is corrupt: it is torn
// down and the navigation denied, so the broken state cannot persist across
// further requests.
func (a *Authority) AuthGuard(targetURL string) Decision {
	if a.sessions.IsAuthenticated() {
		if a.sessions.TenantDomain() != "" {
			return allowed()
		}
		a.logger.Error("authenticated session has no tenant domain, logging out")
		a.auth.Logout()
		return redirectLogin("")
	}

	a.logger.Info("unauthenticated navigation denied", "target", targetURL)
	return redirectLogin(targetURL)
}

// TenantGuard keeps navigations inside the session's own tenant scope.
// Static asset paths always pass. A mismatching tenant segment redirects to
// the session tenant's dashboard, except when the current URL already sits
// under the session tenant, which would otherwise loop the redirect forever.
func (a *Authority) TenantGuard(urlTenant, currentURL string) Decision {
	for _, suffix := range staticAssetSuffixes {
		if strings.Contains(currentURL, suffix) {
			return allowed()
		}
	}

	sessionTenant := a.sessions.TenantName()
	if sessionTenant == "" {
		if strings.Contains(currentURL, "/login") {
			return allowed()
		}
		a.logger.Warn("no session tenant bound, redirecting to login", "url", currentURL)
		return redirectLogin("")
	}

	if urlTenant != sessionTenant {
		if strings.Contains(currentURL, "/"+sessionTenant+"/") {
			// Already headed into the right tenant scope; a redirect here
			// would cycle.
			return allowed()
		}
		a.logger.Info("tenant mismatch, redirecting to own tenant",
			"url_tenant", urlTenant,
			"session_tenant", sessionTenant)
		return redirectTo("/" + sessionTenant + "/dashboard")
	}

	return allowed()
}

// SetupRequiredGuard gates provisioning-dependent views. An authoritative
// cache entry answers directly; otherwise the backend is asked, with the
// entry captured before the call serving as fallback if the backend is
// unreachable. When nothing reliable says setup is done, the safe default is
// the setup page, never the dashboard.
func (a *Authority) SetupRequiredGuard(ctx context.Context) Decision {
	tenantName := a.sessions.TenantName()
	if tenantName == "" {
		return redirectLogin("")
	}

	setupPath := "/" + tenantName + "/setup"

	cached := a.cache.Read()
	if a.cache.IsAuthoritative(cached) {
		a.logger.Debug("trusting authoritative cached setup status",
			"setup_needed", cached.SetupNeeded)
		if cached.SetupNeeded {
			return redirectTo(setupPath)
		}
		return allowed()
	}

	status, err := a.checker.CheckSetupStatus(ctx, true)
	if err != nil {
		if a.cache.IsUsableFallback(cached) && !cached.SetupNeeded {
			a.logger.Warn("backend setup check failed, using cached status as fallback")
			return allowed()
		}
		a.logger.Warn("no reliable setup status, directing to setup page", "error", err)
		return redirectTo(setupPath)
	}

	if status.SetupNeeded {
		return redirectTo(setupPath)
	}
	return allowed()
}
