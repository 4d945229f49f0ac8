package backrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"console-core/app/config"
	"console-core/app/domain"
	"console-core/app/session"
)

// publicPaths never receive the Authorization header.
var publicPaths = []string{
	"/api/token/",
	"/api/token/refresh/",
	"/api/tenants/signup/",
}

// Client talks to the console backend: token and signup calls go to the
// public origin, everything else to the per-tenant origin resolved from the
// session. Tenant calls fail closed when no tenant is bound.
type Client struct {
	httpClient   *http.Client
	publicAPIURL string
	resolver     *session.Resolver
	logger       *slog.Logger
}

// NewClient creates a backend client.
func NewClient(cfg *config.Config, resolver *session.Resolver, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
			Transport: &http.Transport{
				DisableKeepAlives: false,
			},
		},
		publicAPIURL: strings.TrimSuffix(cfg.PublicAPIURL, "/"),
		resolver:     resolver,
		logger:       logger.With("component", "backrest_client"),
	}
}

// APIError is a failed backend call: either an HTTP error response or a
// transport failure (StatusCode 0). Continue marks calls whose remote side
// effect has very likely happened despite the failed confirmation, so the
// caller should proceed rather than abort.
type APIError struct {
	StatusCode int    `json:"-"`
	Detail     string `json:"detail,omitempty"`
	Message    string `json:"message,omitempty"`
	Continue   bool   `json:"-"`
	cause      error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("transport error: %v", e.cause)
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Reason())
}

// Unwrap returns the transport cause, if any.
func (e *APIError) Unwrap() error {
	return e.cause
}

// Reason returns the most specific human-readable failure description the
// backend provided.
func (e *APIError) Reason() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Message != "" {
		return e.Message
	}
	if e.cause != nil {
		return e.cause.Error()
	}
	return "Unknown error"
}

// Public origin calls

// ObtainToken exchanges credentials for a token pair at POST /api/token/.
func (c *Client) ObtainToken(ctx context.Context, email, password string) (*domain.TokenResponse, error) {
	body := map[string]any{"email": email, "password": password}
	var resp domain.TokenResponse
	if err := c.do(ctx, http.MethodPost, c.publicAPIURL+"/token/", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SignupTenant creates a tenant at POST /api/tenants/signup/.
func (c *Client) SignupTenant(ctx context.Context, req *domain.SignupRequest) (*domain.SignupResponse, error) {
	var resp domain.SignupResponse
	if err := c.do(ctx, http.MethodPost, c.publicAPIURL+"/tenants/signup/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Tenant origin calls

// FetchSetupStatus reads the provisioning status of the current tenant.
func (c *Client) FetchSetupStatus(ctx context.Context) (*domain.SetupStatus, error) {
	var status domain.SetupStatus
	if err := c.doTenant(ctx, http.MethodGet, "backrest/status/", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GenerateSSHKey asks the backend for a fresh key pair.
func (c *Client) GenerateSSHKey(ctx context.Context) (*domain.SSHKeyPair, error) {
	var pair domain.SSHKeyPair
	if err := c.doTenant(ctx, http.MethodPost, "ssh/generate", map[string]any{}, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

// CreateSSHKey registers SSH key material.
func (c *Client) CreateSSHKey(ctx context.Context, payload map[string]any) (*domain.StepResult, error) {
	var result domain.StepResult
	if err := c.doTenant(ctx, http.MethodPost, "backrest/ssh-keys/", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateServer registers a remote server.
func (c *Client) CreateServer(ctx context.Context, payload map[string]any) (*domain.StepResult, error) {
	var result domain.StepResult
	if err := c.doTenant(ctx, http.MethodPost, "backrest/servers/", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TestConnection checks SSH reachability of a registered server.
func (c *Client) TestConnection(ctx context.Context, serverID int64) (*domain.StepResult, error) {
	path := fmt.Sprintf("backrest/servers/%d/test_connection/", serverID)
	var result domain.StepResult
	if err := c.doTenant(ctx, http.MethodPost, path, map[string]any{}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// InstallAgent installs the backup agent on a registered server.
func (c *Client) InstallAgent(ctx context.Context, serverID int64, payload map[string]any) (*domain.StepResult, error) {
	path := fmt.Sprintf("backrest/servers/%d/install_backrest_direct/", serverID)
	var result domain.StepResult
	if err := c.doTenant(ctx, http.MethodPost, path, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SetupInstance configures the installed agent instance.
func (c *Client) SetupInstance(ctx context.Context, serverID int64, payload map[string]any) (*domain.StepResult, error) {
	path := fmt.Sprintf("backrest/servers/%d/setup_instance/", serverID)
	var result domain.StepResult
	if err := c.doTenant(ctx, http.MethodPost, path, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CheckServiceStatus reads the live agent service state.
func (c *Client) CheckServiceStatus(ctx context.Context, serverID int64) (*domain.ServiceStatus, error) {
	path := fmt.Sprintf("backrest/servers/%d/check_service_status/", serverID)
	var status domain.ServiceStatus
	if err := c.doTenant(ctx, http.MethodGet, path, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// MarkInstanceComplete persists setup completion server-side.
func (c *Client) MarkInstanceComplete(ctx context.Context, instanceID string, payload map[string]any) (*domain.StepResult, error) {
	path := fmt.Sprintf("backrest/instances/%s/mark-complete/", instanceID)
	var result domain.StepResult
	if err := c.doTenant(ctx, http.MethodPost, path, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// doTenant resolves the tenant origin and issues a request against it.
func (c *Client) doTenant(ctx context.Context, method, path string, body, out any) error {
	origin, err := c.resolver.ResolveAPIOrigin()
	if err != nil {
		return err
	}
	return c.do(ctx, method, origin.BaseURL()+path, body, out)
}

// do issues a JSON request. The Authorization header is attached whenever a
// token exists and the target is not on the public-path allow-list.
func (c *Client) do(ctx context.Context, method, rawURL string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if !isPublicPath(rawURL) {
		if header, ok := c.resolver.ResolveAuthHeader(); ok {
			req.Header.Set("Authorization", header)
		} else {
			c.logger.Warn("no access token for authenticated request", "url", rawURL)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("request failed", "method", method, "url", rawURL, "error", err)
		return &APIError{cause: err, Continue: isContinuable(rawURL)}
	}
	defer resp.Body.Close()

	c.logger.Debug("request completed",
		"method", method,
		"url", rawURL,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{cause: err, Continue: isContinuable(rawURL)}
	}

	// 202 is a partial-success response, not an error
	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode, Continue: isContinuable(rawURL)}
		// Error bodies are best-effort JSON; keep whatever decodes
		_ = json.Unmarshal(raw, apiErr)
		return apiErr
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decoding response from %s: %w", rawURL, err)
		}
	}
	return nil
}

func isPublicPath(rawURL string) bool {
	for _, path := range publicPaths {
		if strings.Contains(rawURL, path) {
			return true
		}
	}
	return false
}

// isContinuable marks the endpoints whose failure should not interrupt a
// provisioning run because the installation has very likely succeeded.
func isContinuable(rawURL string) bool {
	return strings.Contains(rawURL, "setup_instance")
}
