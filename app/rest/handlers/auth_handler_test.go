package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"console-core/app/domain"
	"console-core/app/driver/kvstore"
	"console-core/app/gateway"
	"console-core/app/mocks"
	"console-core/app/session"
	"console-core/app/setup"
	"console-core/app/utils/validator"
)

type authHandlerFixture struct {
	handler  *AuthHandler
	api      *mocks.MockBackrestAPI
	checker  *mocks.MockSetupStatusChecker
	sessions *session.Store
}

func newAuthHandlerFixture(t *testing.T) *authHandlerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	kv := kvstore.NewMemory()
	sessions := session.NewStore(kv, logger)
	cache := setup.NewStatusCache(kv, logger)
	api := mocks.NewMockBackrestAPI(ctrl)
	checker := mocks.NewMockSetupStatusChecker(ctrl)
	validate := validator.New()
	gw := gateway.NewAuthGateway(api, sessions, cache, checker, validate, logger)
	return &authHandlerFixture{
		handler:  NewAuthHandler(gw, sessions, validate, logger),
		api:      api,
		checker:  checker,
		sessions: sessions,
	}
}

func postJSON(t *testing.T, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func getRequest(t *testing.T, path string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	f := newAuthHandlerFixture(t)

	f.api.EXPECT().ObtainToken(gomock.Any(), "alice@acme.com", "secret").Return(&domain.TokenResponse{
		Access:       "a",
		Refresh:      "r",
		TenantDomain: "acme.example.com",
		User:         &domain.User{Username: "alice", RoleInTenant: "admin"},
	}, nil)
	refreshed := make(chan struct{})
	f.checker.EXPECT().ForceCheckSetupStatus(gomock.Any()).DoAndReturn(
		func(context.Context) (*domain.SetupStatus, error) {
			defer close(refreshed)
			return &domain.SetupStatus{SetupNeeded: false}, nil
		})

	c, rec := postJSON(t, "/v1/auth/login", `{"email":"alice@acme.com","password":"secret"}`)
	require.NoError(t, f.handler.Login(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "acme", resp.TenantName)
	assert.Equal(t, "alice", resp.User.Username)

	assert.True(t, f.sessions.IsAuthenticated())

	select {
	case <-refreshed:
	case <-time.After(2 * time.Second):
		t.Fatal("deferred status refresh never ran")
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	f := newAuthHandlerFixture(t)

	f.api.EXPECT().ObtainToken(gomock.Any(), "alice@acme.com", "wrong").
		Return(nil, errors.New("401"))

	c, rec := postJSON(t, "/v1/auth/login", `{"email":"alice@acme.com","password":"wrong"}`)
	require.NoError(t, f.handler.Login(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "LOGIN_FAILED")
	assert.False(t, f.sessions.IsAuthenticated())
}

func TestAuthHandler_Login_ValidationFailure(t *testing.T) {
	f := newAuthHandlerFixture(t)

	c, rec := postJSON(t, "/v1/auth/login", `{"email":"not-an-email"}`)
	require.NoError(t, f.handler.Login(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
}

func TestAuthHandler_SessionInfo(t *testing.T) {
	f := newAuthHandlerFixture(t)

	c, rec := getRequest(t, "/v1/auth/session")
	require.NoError(t, f.handler.SessionInfo(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	f.sessions.Login(domain.TokenPair{Access: "a", Refresh: "r"}, "acme.example.com",
		&domain.User{Username: "alice", RoleInTenant: "admin"})

	c, rec = getRequest(t, "/v1/auth/session")
	require.NoError(t, f.handler.SessionInfo(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var info SessionInfoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.True(t, info.Authenticated)
	assert.Equal(t, "alice", info.Username)
	assert.Equal(t, "acme", info.TenantName)
	assert.Equal(t, "admin", info.Role)
	assert.Nil(t, info.TokenExpiry, "opaque tokens expose no expiry")
}

func TestAuthHandler_Logout(t *testing.T) {
	f := newAuthHandlerFixture(t)
	f.sessions.Login(domain.TokenPair{Access: "a", Refresh: "r"}, "acme.example.com", nil)

	c, rec := postJSON(t, "/v1/auth/logout", "")
	require.NoError(t, f.handler.Logout(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, f.sessions.IsAuthenticated())
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	f := newAuthHandlerFixture(t)

	f.api.EXPECT().SignupTenant(gomock.Any(), gomock.Any()).Return(&domain.SignupResponse{
		ID:     3,
		Name:   "Acme",
		Domain: "acme.example.com",
	}, nil)

	c, rec := postJSON(t, "/v1/auth/signup",
		`{"name":"Acme","last_name":"Smith","email":"owner@acme.com","password":"long-enough-pw"}`)
	require.NoError(t, f.handler.Signup(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.False(t, f.sessions.IsAuthenticated(), "signup must not create a session")
}

func TestAuthHandler_Signup_ValidationFailure(t *testing.T) {
	f := newAuthHandlerFixture(t)

	c, rec := postJSON(t, "/v1/auth/signup", `{"name":"Acme","email":"bad","password":"short"}`)
	require.NoError(t, f.handler.Signup(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
}
