package session

import (
	"encoding/json"
	"log/slog"
	"sync"

	"console-core/app/domain"
	"console-core/app/port"
)

// Storage keys. Fixed names shared with every past and future version of the
// console; renaming one silently drops persisted state.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyTenantDomain = "tenant_domain"
	KeyTenantName   = "tenant_name"
	KeyUserInfo     = "user_info"
	KeyUsername     = "username"
	KeyUserRole     = "user_role"
)

// Transition is emitted on login/logout state changes.
type Transition int

const (
	TransitionLoggedIn Transition = iota
	TransitionLoggedOut
)

// Store is the single source of truth for "am I logged in, as whom, for which
// tenant". In-memory fields take precedence over the backing store; every
// mutation persists field by field.
type Store struct {
	mu sync.RWMutex
	kv port.KeyValueStore

	accessToken  string
	refreshToken string
	tenantDomain string
	tenantName   string
	currentUser  *domain.User

	subscribers []func(Transition)
	logger      *slog.Logger
}

// NewStore creates a session store over the given key-value storage.
func NewStore(kv port.KeyValueStore, logger *slog.Logger) *Store {
	return &Store{
		kv:     kv,
		logger: logger.With("component", "session_store"),
	}
}

// Initialize loads persisted session state into memory. An empty store
// leaves every field absent with no side effects.
func (s *Store) Initialize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accessToken, _ = s.kv.Get(KeyAccessToken)
	s.refreshToken, _ = s.kv.Get(KeyRefreshToken)
	s.tenantDomain, _ = s.kv.Get(KeyTenantDomain)
	s.tenantName, _ = s.kv.Get(KeyTenantName)

	if raw, ok := s.kv.Get(KeyUserInfo); ok {
		var user domain.User
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			// Malformed persisted JSON is treated as absent
			s.logger.Error("discarding unreadable persisted user info", "error", err)
		} else {
			s.currentUser = &user
		}
	}

	if s.accessToken != "" {
		s.logger.Info("session restored", "tenant", s.tenantName, "user", s.currentUser.DisplayName())
	}
}

// Login atomically sets and persists the whole session. An empty tenant
// domain clears the tenant and user context instead, leaving the session
// unresolved; the caller decides how to surface that.
func (s *Store) Login(tokens domain.TokenPair, tenantDomain string, user *domain.User) {
	s.mu.Lock()

	s.accessToken = tokens.Access
	s.refreshToken = tokens.Refresh
	s.persist(KeyAccessToken, tokens.Access)
	s.persist(KeyRefreshToken, tokens.Refresh)

	if tenantDomain != "" {
		s.tenantDomain = tenantDomain
		s.tenantName = domain.TenantNameFromDomain(tenantDomain)
		s.persist(KeyTenantDomain, s.tenantDomain)
		s.persist(KeyTenantName, s.tenantName)
		s.setUserLocked(user)
	} else {
		s.tenantDomain = ""
		s.tenantName = ""
		s.discard(KeyTenantDomain)
		s.discard(KeyTenantName)
		s.setUserLocked(nil)
	}

	s.mu.Unlock()
	s.notify(TransitionLoggedIn)
}

// Logout clears every field from memory and persistence. It never fails: it
// is also the recovery path for corrupt sessions, so there is no state it is
// allowed to refuse to clear.
func (s *Store) Logout() {
	s.mu.Lock()

	s.accessToken = ""
	s.refreshToken = ""
	s.tenantDomain = ""
	s.tenantName = ""
	s.currentUser = nil

	for _, key := range []string{
		KeyAccessToken, KeyRefreshToken, KeyTenantDomain,
		KeyTenantName, KeyUserInfo, KeyUsername, KeyUserRole,
	} {
		s.discard(key)
	}

	s.mu.Unlock()
	s.notify(TransitionLoggedOut)
}

// IsAuthenticated reports whether an access token is present, memory first,
// persisted storage second.
func (s *Store) IsAuthenticated() bool {
	return s.AccessToken() != ""
}

// AccessToken returns the current access token, or empty when absent.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	token := s.accessToken
	s.mu.RUnlock()
	if token != "" {
		return token
	}
	stored, _ := s.kv.Get(KeyAccessToken)
	return stored
}

// RefreshToken returns the current refresh token, or empty when absent.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	token := s.refreshToken
	s.mu.RUnlock()
	if token != "" {
		return token
	}
	stored, _ := s.kv.Get(KeyRefreshToken)
	return stored
}

// TenantDomain returns the bound tenant domain, or empty when unresolved.
func (s *Store) TenantDomain() string {
	s.mu.RLock()
	tenantDomain := s.tenantDomain
	s.mu.RUnlock()
	if tenantDomain != "" {
		return tenantDomain
	}
	stored, _ := s.kv.Get(KeyTenantDomain)
	return stored
}

// TenantName returns the bound tenant name, or empty when unresolved.
func (s *Store) TenantName() string {
	s.mu.RLock()
	tenantName := s.tenantName
	s.mu.RUnlock()
	if tenantName != "" {
		return tenantName
	}
	stored, _ := s.kv.Get(KeyTenantName)
	return stored
}

// CurrentUser returns the logged-in user, memory first, storage second.
func (s *Store) CurrentUser() *domain.User {
	s.mu.RLock()
	user := s.currentUser
	s.mu.RUnlock()
	if user != nil {
		return user
	}

	raw, ok := s.kv.Get(KeyUserInfo)
	if !ok {
		return nil
	}
	var stored domain.User
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.logger.Error("unreadable persisted user info", "error", err)
		return nil
	}
	return &stored
}

// Username returns the separately persisted username convenience field.
func (s *Store) Username() string {
	username, _ := s.kv.Get(KeyUsername)
	return username
}

// Role returns the user's role in the tenant, falling back from the user
// object to the separately persisted role string.
func (s *Store) Role() string {
	if user := s.CurrentUser(); user != nil && user.RoleInTenant != "" {
		return user.RoleInTenant
	}
	role, _ := s.kv.Get(KeyUserRole)
	return role
}

// Subscribe registers a callback for login/logout transitions.
func (s *Store) Subscribe(fn func(Transition)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// setUserLocked persists the user object plus the username and role
// convenience keys. Caller holds the write lock.
func (s *Store) setUserLocked(user *domain.User) {
	s.currentUser = user
	if user == nil {
		s.discard(KeyUserInfo)
		s.discard(KeyUsername)
		s.discard(KeyUserRole)
		return
	}

	if raw, err := json.Marshal(user); err == nil {
		s.persist(KeyUserInfo, string(raw))
	} else {
		s.logger.Error("persisting user info", "error", err)
	}
	s.persist(KeyUsername, user.DisplayName())

	role := user.RoleInTenant
	if role == "" {
		role = "unknown"
	}
	s.persist(KeyUserRole, role)
}

func (s *Store) persist(key, value string) {
	if err := s.kv.Set(key, value); err != nil {
		s.logger.Error("persisting session field", "key", key, "error", err)
	}
}

func (s *Store) discard(key string) {
	if err := s.kv.Remove(key); err != nil {
		s.logger.Error("clearing session field", "key", key, "error", err)
	}
}

func (s *Store) notify(t Transition) {
	s.mu.RLock()
	subscribers := make([]func(Transition), len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.RUnlock()

	for _, fn := range subscribers {
		fn(t)
	}
}
