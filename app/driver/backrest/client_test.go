package backrest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"console-core/app/config"
	"console-core/app/domain"
	"console-core/app/driver/kvstore"
	"console-core/app/session"
)

// newTestClient points both the public and tenant origins at the given test
// server. The session is bound to tenant domain "127.0.0.1" so the resolved
// tenant origin lands on the same listener.
func newTestClient(t *testing.T, server *httptest.Server, authenticated bool) (*Client, *session.Store) {
	t.Helper()

	parsed, err := url.Parse(server.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(parsed.Port())
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := session.NewStore(kvstore.NewMemory(), logger)
	if authenticated {
		sessions.Login(domain.TokenPair{Access: "tok-123", Refresh: "ref"}, parsed.Hostname(), nil)
	}

	cfg := &config.Config{
		PublicAPIURL:   server.URL + "/api",
		TenantScheme:   "http",
		TenantPort:     port,
		TenantBasePath: "/api/",
		HTTPTimeout:    5 * time.Second,
	}
	resolver := session.NewResolver(sessions, cfg.TenantScheme, cfg.TenantPort, cfg.TenantBasePath)
	return NewClient(cfg, resolver, logger), sessions
}

func TestClient_ObtainToken_NoAuthHeaderOnPublicPath(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/api/token/", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice@acme.com", body["email"])

		json.NewEncoder(w).Encode(domain.TokenResponse{
			Access:       "a",
			Refresh:      "r",
			TenantDomain: "acme.example.com",
			User:         &domain.User{Username: "alice"},
		})
	}))
	defer server.Close()

	client, _ := newTestClient(t, server, true)

	resp, err := client.ObtainToken(context.Background(), "alice@acme.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "a", resp.Access)
	assert.Equal(t, "acme.example.com", resp.TenantDomain)
	assert.Empty(t, gotAuth, "public token endpoint must not receive the bearer header")
}

func TestClient_TenantCallsCarryBearerHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(domain.SetupStatus{SetupNeeded: true, Step: "register_server"})
	}))
	defer server.Close()

	client, _ := newTestClient(t, server, true)

	status, err := client.FetchSetupStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, status.SetupNeeded)
	assert.Equal(t, "register_server", status.Step)
}

func TestClient_TenantCallFailsClosedWithoutTenant(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request may reach the backend without a tenant binding")
	}))
	defer server.Close()

	client, _ := newTestClient(t, server, false)

	_, err := client.FetchSetupStatus(context.Background())
	assert.ErrorIs(t, err, domain.ErrTenantMissing)
}

func TestClient_ErrorResponsesBecomeAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "hostname already registered"})
	}))
	defer server.Close()

	client, _ := newTestClient(t, server, true)

	_, err := client.CreateServer(context.Background(), map[string]any{"hostname": "10.0.0.5"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "hostname already registered", apiErr.Reason())
	assert.False(t, apiErr.Continue)
}

func TestClient_SetupInstanceFailuresAreContinuable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "ssh session dropped"})
	}))
	defer server.Close()

	client, _ := newTestClient(t, server, true)

	_, err := client.SetupInstance(context.Background(), 4, map[string]any{"instance_id": "instance-1"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.Continue, "setup_instance failures must be marked continuable")
	assert.Equal(t, "ssh session dropped", apiErr.Reason())
}

func TestClient_TransportErrorHasNoStatusCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client, _ := newTestClient(t, server, true)
	server.Close() // connection refused from here on

	_, err := client.FetchSetupStatus(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 0, apiErr.StatusCode)
	assert.NotEqual(t, "Unknown error", apiErr.Reason())
}

func TestClient_CreateSSHKeyCapturesID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/backrest/ssh-keys/", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"id": 42, "name": "Key-1"})
	}))
	defer server.Close()

	client, _ := newTestClient(t, server, true)

	result, err := client.CreateSSHKey(context.Background(), map[string]any{"name": "Key-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), result.ID)
}

func TestClient_CheckServiceStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/backrest/servers/9/check_service_status/", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		json.NewEncoder(w).Encode(domain.ServiceStatus{Status: "active", IsRunning: true})
	}))
	defer server.Close()

	client, _ := newTestClient(t, server, true)

	status, err := client.CheckServiceStatus(context.Background(), 9)
	require.NoError(t, err)
	assert.True(t, status.Running())
}

func TestClient_PartialSuccess202IsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]any{"status": "warning", "message": "configuration skipped"})
	}))
	defer server.Close()

	client, _ := newTestClient(t, server, true)

	result, err := client.InstallAgent(context.Background(), 3, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "warning", result.Status)
}
