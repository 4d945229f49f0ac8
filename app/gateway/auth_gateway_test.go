package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"console-core/app/domain"
	"console-core/app/driver/kvstore"
	"console-core/app/mocks"
	"console-core/app/session"
	"console-core/app/setup"
	"console-core/app/utils/validator"
)

type gatewayFixture struct {
	gateway  *AuthGateway
	api      *mocks.MockBackrestAPI
	checker  *mocks.MockSetupStatusChecker
	sessions *session.Store
	cache    *setup.StatusCache
}

func newGatewayFixture(t *testing.T) *gatewayFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	kv := kvstore.NewMemory()
	sessions := session.NewStore(kv, logger)
	cache := setup.NewStatusCache(kv, logger)
	api := mocks.NewMockBackrestAPI(ctrl)
	checker := mocks.NewMockSetupStatusChecker(ctrl)
	return &gatewayFixture{
		gateway:  NewAuthGateway(api, sessions, cache, checker, validator.New(), logger),
		api:      api,
		checker:  checker,
		sessions: sessions,
		cache:    cache,
	}
}

// expectStatusRefresh arms the deferred post-login refresh and returns a
// channel that closes once it ran.
func (f *gatewayFixture) expectStatusRefresh() <-chan struct{} {
	done := make(chan struct{})
	f.checker.EXPECT().ForceCheckSetupStatus(gomock.Any()).DoAndReturn(
		func(context.Context) (*domain.SetupStatus, error) {
			defer close(done)
			return &domain.SetupStatus{SetupNeeded: false}, nil
		})
	return done
}

func waitFor(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("deferred setup status refresh never ran")
	}
}

func TestLogin_Success(t *testing.T) {
	f := newGatewayFixture(t)
	ctx := context.Background()

	f.api.EXPECT().ObtainToken(ctx, "alice@acme.com", "secret").Return(&domain.TokenResponse{
		Access:       "access-token",
		Refresh:      "refresh-token",
		TenantDomain: "acme.example.com",
		User:         &domain.User{Username: "alice", Email: "alice@acme.com", RoleInTenant: "admin"},
	}, nil)
	done := f.expectStatusRefresh()

	resp, err := f.gateway.Login(ctx, "alice@acme.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "access-token", resp.Access)

	assert.True(t, f.sessions.IsAuthenticated())
	assert.Equal(t, "acme.example.com", f.sessions.TenantDomain())
	assert.Equal(t, "acme", f.sessions.TenantName())
	assert.Equal(t, "alice", f.sessions.Username())
	assert.Equal(t, "admin", f.sessions.Role())

	waitFor(t, done)
}

func TestLogin_MissingRefreshTokenFailsAndClearsSession(t *testing.T) {
	f := newGatewayFixture(t)
	ctx := context.Background()

	// A previous session must not survive a failed login.
	f.sessions.Login(domain.TokenPair{Access: "old", Refresh: "old"}, "acme.example.com", nil)

	f.api.EXPECT().ObtainToken(ctx, "alice@acme.com", "secret").Return(&domain.TokenResponse{
		Access: "access-token-only",
	}, nil)

	_, err := f.gateway.Login(ctx, "alice@acme.com", "secret")
	assert.ErrorIs(t, err, domain.ErrLoginFailed)
	assert.False(t, f.sessions.IsAuthenticated())
	assert.Empty(t, f.sessions.TenantDomain())
}

func TestLogin_TransportErrorFailsAndClearsSession(t *testing.T) {
	f := newGatewayFixture(t)
	ctx := context.Background()

	f.api.EXPECT().ObtainToken(ctx, "alice@acme.com", "secret").
		Return(nil, errors.New("connection refused"))

	_, err := f.gateway.Login(ctx, "alice@acme.com", "secret")
	assert.ErrorIs(t, err, domain.ErrLoginFailed)
	assert.False(t, f.sessions.IsAuthenticated())
}

func TestLogin_MissingTenantDomainClearsTenantContext(t *testing.T) {
	f := newGatewayFixture(t)
	ctx := context.Background()

	// Stale tenant context from an earlier login.
	f.sessions.Login(domain.TokenPair{Access: "old", Refresh: "old"}, "acme.example.com", nil)

	f.api.EXPECT().ObtainToken(ctx, "bob@other.com", "secret").Return(&domain.TokenResponse{
		Access:  "access-token",
		Refresh: "refresh-token",
	}, nil)
	done := f.expectStatusRefresh()

	resp, err := f.gateway.Login(ctx, "bob@other.com", "secret")
	require.NoError(t, err)
	assert.Empty(t, resp.TenantDomain)

	// Tokens are committed but the stale tenant binding is gone.
	assert.True(t, f.sessions.IsAuthenticated())
	assert.Empty(t, f.sessions.TenantDomain())
	assert.Empty(t, f.sessions.TenantName())

	waitFor(t, done)
}

func TestSignup_ValidationFailureSkipsBackend(t *testing.T) {
	f := newGatewayFixture(t)

	_, err := f.gateway.Signup(context.Background(), &domain.SignupRequest{
		Name:     "Acme",
		Email:    "not-an-email",
		Password: "short",
	})

	var verr *validator.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Errors, "email")
	assert.Contains(t, verr.Errors, "password")
}

func TestSignup_Success(t *testing.T) {
	f := newGatewayFixture(t)
	ctx := context.Background()

	req := &domain.SignupRequest{
		Name:     "Acme",
		LastName: "Smith",
		Email:    "owner@acme.com",
		Password: "long-enough-password",
	}
	f.api.EXPECT().SignupTenant(ctx, req).Return(&domain.SignupResponse{
		ID:     3,
		Name:   "Acme",
		Domain: "acme.example.com",
	}, nil)

	resp, err := f.gateway.Signup(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "acme.example.com", resp.Domain)

	// Signup must not touch session state.
	assert.False(t, f.sessions.IsAuthenticated())
}

func TestLogout_ClearsSessionAndStatusCache(t *testing.T) {
	f := newGatewayFixture(t)

	f.sessions.Login(domain.TokenPair{Access: "a", Refresh: "r"}, "acme.example.com",
		&domain.User{Username: "alice"})
	f.cache.Write(domain.SetupStatus{SetupNeeded: false})

	f.gateway.Logout()

	assert.False(t, f.sessions.IsAuthenticated())
	assert.Empty(t, f.sessions.TenantDomain())
	assert.Nil(t, f.cache.Read())
}
