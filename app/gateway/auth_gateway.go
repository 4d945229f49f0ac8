package gateway

import (
	"context"
	"log/slog"

	"console-core/app/domain"
	"console-core/app/port"
	"console-core/app/session"
	"console-core/app/setup"
	"console-core/app/utils/validator"
)

// AuthGateway owns the login, signup and logout flows. It is the only writer
// of session state on the way in and out of authentication: a login response
// either carries a complete token pair and is committed to the session as a
// whole, or the session is torn down. Callers never see a half-written
// session.
type AuthGateway struct {
	api      port.BackrestAPI
	sessions *session.Store
	cache    *setup.StatusCache
	checker  port.SetupStatusChecker
	validate *validator.Validator
	logger   *slog.Logger
}

// NewAuthGateway creates a new AuthGateway instance.
func NewAuthGateway(
	api port.BackrestAPI,
	sessions *session.Store,
	cache *setup.StatusCache,
	checker port.SetupStatusChecker,
	validate *validator.Validator,
	logger *slog.Logger,
) *AuthGateway {
	return &AuthGateway{
		api:      api,
		sessions: sessions,
		cache:    cache,
		checker:  checker,
		validate: validate,
		logger:   logger.With("component", "auth_gateway"),
	}
}

// Login exchanges credentials for a token pair and commits the result to the
// session. Any failure, transport or incomplete response alike, tears the
// session down and surfaces as ErrLoginFailed so the caller cannot observe a
// partially authenticated state. After a successful commit a setup status
// refresh is kicked off in the background; it is best-effort and the login
// result does not wait for it.
func (g *AuthGateway) Login(ctx context.Context, email, password string) (*domain.TokenResponse, error) {
	g.logger.Info("login attempt", "email", email)

	resp, err := g.api.ObtainToken(ctx, email, password)
	if err != nil {
		g.logger.Error("token request failed", "email", email, "error", err)
		g.sessions.Logout()
		return nil, domain.ErrLoginFailed
	}

	if !resp.Tokens().Complete() {
		g.logger.Error("token response incomplete", "email", email)
		g.sessions.Logout()
		return nil, domain.ErrLoginFailed
	}

	if resp.TenantDomain == "" {
		g.logger.Error("login response carried no tenant domain", "email", email)
	}

	g.sessions.Login(resp.Tokens(), resp.TenantDomain, resp.User)
	g.logger.Info("login succeeded",
		"email", email,
		"tenant_domain", resp.TenantDomain)

	// Warm the setup status cache so the first post-login navigation does
	// not pay for a backend round trip. Deliberately unordered relative to
	// any status check that navigation triggers itself.
	go func() {
		if _, err := g.checker.ForceCheckSetupStatus(context.Background()); err != nil {
			g.logger.Warn("post-login setup status refresh failed", "error", err)
		}
	}()

	return resp, nil
}

// Signup registers a new tenant. It has no session side effects; the caller
// logs in separately once the tenant exists.
func (g *AuthGateway) Signup(ctx context.Context, req *domain.SignupRequest) (*domain.SignupResponse, error) {
	if err := g.validate.Validate(req); err != nil {
		g.logger.Warn("signup validation failed", "error", err)
		return nil, err
	}

	g.logger.Info("signup attempt", "email", req.Email, "company", req.CompanyName)

	resp, err := g.api.SignupTenant(ctx, req)
	if err != nil {
		g.logger.Error("signup failed", "email", req.Email, "error", err)
		return nil, err
	}

	g.logger.Info("signup succeeded", "email", req.Email)
	return resp, nil
}

// Logout clears the session and the setup status cache. It never fails, it
// is also the recovery path for corrupt sessions.
func (g *AuthGateway) Logout() {
	g.logger.Info("logout", "username", g.sessions.Username())
	g.sessions.Logout()
	g.cache.Clear()
}
