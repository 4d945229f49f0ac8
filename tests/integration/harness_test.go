package integration_test

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"console-core/app/config"
	"console-core/app/di"
	"console-core/app/utils/logger"
)

const (
	testEmail    = "admin@acme.com"
	testPassword = "integration-secret"
	testAccess   = "integration-access-token"
	testRefresh  = "integration-refresh-token"
)

// fakeBackend emulates the console backend: the public token endpoint plus
// the tenant-scoped provisioning endpoints, with just enough state to drive
// a full run. It reports its own listen address as the tenant domain so
// tenant-origin calls loop back to it.
type fakeBackend struct {
	server *httptest.Server

	mu          sync.Mutex
	provisioned bool
	sshKeys     int
	servers     int
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/token/", b.handleToken)
	mux.HandleFunc("GET /api/backrest/status/", b.tenant(b.handleStatus))
	mux.HandleFunc("POST /api/backrest/ssh-keys/", b.tenant(b.handleCreateSSHKey))
	mux.HandleFunc("POST /api/backrest/servers/", b.tenant(b.handleCreateServer))
	mux.HandleFunc("POST /api/backrest/servers/{id}/test_connection/", b.tenant(b.stepOK))
	mux.HandleFunc("POST /api/backrest/servers/{id}/install_backrest_direct/", b.tenant(b.stepOK))
	mux.HandleFunc("POST /api/backrest/servers/{id}/setup_instance/", b.tenant(b.stepOK))
	mux.HandleFunc("GET /api/backrest/servers/{id}/check_service_status/", b.tenant(b.handleServiceStatus))
	mux.HandleFunc("POST /api/backrest/instances/{id}/mark-complete/", b.tenant(b.handleMarkComplete))

	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

// hostPort returns the backend's listen host and port.
func (b *fakeBackend) hostPort(t *testing.T) (string, int) {
	t.Helper()
	addr := strings.TrimPrefix(b.server.URL, "http://")
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return host, port
}

func (b *fakeBackend) isProvisioned() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.provisioned
}

// tenant wraps a handler with the bearer-token check every tenant-scoped
// endpoint enforces.
func (b *fakeBackend) tenant(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testAccess {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "invalid token"})
			return
		}
		next(w, r)
	}
}

func (b *fakeBackend) handleToken(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil ||
		creds.Email != testEmail || creds.Password != testPassword {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "invalid credentials"})
		return
	}

	host, _, _ := net.SplitHostPort(strings.TrimPrefix(b.server.URL, "http://"))
	writeJSON(w, http.StatusOK, map[string]any{
		"access":        testAccess,
		"refresh":       testRefresh,
		"tenant_domain": host,
		"user": map[string]any{
			"id":             1,
			"username":       "admin",
			"email":          testEmail,
			"role_in_tenant": "admin",
		},
	})
}

func (b *fakeBackend) handleStatus(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	needed := !b.provisioned
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"setupNeeded": needed})
}

func (b *fakeBackend) handleCreateSSHKey(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.sshKeys++
	id := b.sshKeys
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": id})
}

func (b *fakeBackend) handleCreateServer(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.servers++
	id := b.servers
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": id})
}

func (b *fakeBackend) stepOK(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": "success"})
}

func (b *fakeBackend) handleServiceStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "active", "is_running": true})
}

func (b *fakeBackend) handleMarkComplete(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.provisioned = true
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// testConfig builds a configuration pointing every origin at the fake
// backend, with durable storage under dir.
func testConfig(t *testing.T, backend *fakeBackend, dir string) *config.Config {
	t.Helper()
	_, port := backend.hostPort(t)
	return &config.Config{
		Port:               "9600",
		Host:               "127.0.0.1",
		LogLevel:           "error",
		PublicAPIURL:       backend.server.URL + "/api",
		TenantScheme:       "http",
		TenantPort:         port,
		TenantBasePath:     "/api/",
		HTTPTimeout:        5 * time.Second,
		StoragePath:        filepath.Join(dir, "console.db"),
		LoginRatePerSecond: 100,
		LoginRateBurst:     100,
	}
}

// harness is a fully wired console talking to a fake backend.
type harness struct {
	backend   *fakeBackend
	container *di.Container
	router    http.Handler
	storage   string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	backend := newFakeBackend(t)
	dir := t.TempDir()
	cfg := testConfig(t, backend, dir)

	log, err := logger.New(cfg.LogLevel)
	require.NoError(t, err)
	container, err := di.NewContainer(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	return &harness{
		backend:   backend,
		container: container,
		router:    container.CreateRouter(),
		storage:   dir,
	}
}

func (h *harness) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, testEmail, testPassword)
	rec := h.do(t, http.MethodPost, "/v1/auth/login", body)
	require.Equal(t, http.StatusOK, rec.Code, "login failed: %s", rec.Body.String())
	h.waitForCachedStatus(t)
}

// waitForCachedStatus waits for the post-login background status refresh so
// tests observe a deterministic cache.
func (h *harness) waitForCachedStatus(t *testing.T) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.container.Cache.Read() != nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("status cache never populated after login")
}
