package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"console-core/app/domain"
	"console-core/app/gateway"
	"console-core/app/session"
	"console-core/app/utils/validator"
)

// AuthHandler handles authentication HTTP requests.
type AuthHandler struct {
	gateway  *gateway.AuthGateway
	sessions *session.Store
	validate *validator.Validator
	logger   *slog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(gw *gateway.AuthGateway, sessions *session.Store, validate *validator.Validator, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		gateway:  gw,
		sessions: sessions,
		validate: validate,
		logger:   logger.With("component", "auth_handler"),
	}
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned on a successful login.
type LoginResponse struct {
	Access       string       `json:"access"`
	Refresh      string       `json:"refresh"`
	TenantDomain string       `json:"tenant_domain,omitempty"`
	TenantName   string       `json:"tenant_name,omitempty"`
	User         *domain.User `json:"user,omitempty"`
}

// SessionInfoResponse describes the current session.
type SessionInfoResponse struct {
	Authenticated bool         `json:"authenticated"`
	Username      string       `json:"username,omitempty"`
	TenantName    string       `json:"tenant_name,omitempty"`
	TenantDomain  string       `json:"tenant_domain,omitempty"`
	Role          string       `json:"role,omitempty"`
	User          *domain.User `json:"user,omitempty"`
	TokenExpiry   *time.Time   `json:"token_expires_at,omitempty"`
}

// Login exchanges credentials for a tenant-bound session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Validate(&req); err != nil {
		return validationResponse(c, err)
	}

	resp, err := h.gateway.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrLoginFailed) {
			return c.JSON(http.StatusUnauthorized, map[string]any{
				"error": "Login failed",
				"code":  "LOGIN_FAILED",
			})
		}
		h.logger.Error("login failed unexpectedly", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Access:       resp.Access,
		Refresh:      resp.Refresh,
		TenantDomain: resp.TenantDomain,
		TenantName:   domain.TenantNameFromDomain(resp.TenantDomain),
		User:         resp.User,
	})
}

// Signup registers a new tenant. The session is untouched; the client logs in
// afterwards.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req domain.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.gateway.Signup(c.Request().Context(), &req)
	if err != nil {
		var verr *validator.ValidationError
		if errors.As(err, &verr) {
			return validationResponse(c, err)
		}
		return apiErrorResponse(c, h.logger, err)
	}

	return c.JSON(http.StatusCreated, resp)
}

// Logout tears the session down. It always succeeds.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.gateway.Logout()
	return c.JSON(http.StatusOK, map[string]any{
		"message": "logged out",
	})
}

// SessionInfo reports the current session state, including the access token's
// expiry when the token is a readable JWT.
func (h *AuthHandler) SessionInfo(c echo.Context) error {
	if !h.sessions.IsAuthenticated() {
		return c.JSON(http.StatusUnauthorized, SessionInfoResponse{Authenticated: false})
	}

	info := SessionInfoResponse{
		Authenticated: true,
		Username:      h.sessions.Username(),
		TenantName:    h.sessions.TenantName(),
		TenantDomain:  h.sessions.TenantDomain(),
		Role:          h.sessions.Role(),
		User:          h.sessions.CurrentUser(),
	}
	if expiry, ok := session.TokenExpiry(h.sessions.AccessToken()); ok {
		info.TokenExpiry = &expiry
	}

	return c.JSON(http.StatusOK, info)
}
