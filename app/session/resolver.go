package session

import (
	"console-core/app/domain"
)

// Resolver derives the tenant-scoped API origin from the session. It fails
// closed: resolving without a bound tenant is an error, never a fallback to
// the public origin, so requests cannot leak across tenants.
type Resolver struct {
	sessions *Store
	scheme   string
	port     int
	basePath string
}

// NewResolver creates a resolver bound to the given session store.
func NewResolver(sessions *Store, scheme string, port int, basePath string) *Resolver {
	return &Resolver{
		sessions: sessions,
		scheme:   scheme,
		port:     port,
		basePath: basePath,
	}
}

// ResolveAPIOrigin returns the per-tenant API origin, or ErrTenantMissing
// when the session has no tenant domain.
func (r *Resolver) ResolveAPIOrigin() (domain.APIOrigin, error) {
	tenantDomain := r.sessions.TenantDomain()
	if tenantDomain == "" {
		return domain.APIOrigin{}, domain.ErrTenantMissing
	}
	return domain.APIOrigin{
		Scheme:   r.scheme,
		Host:     tenantDomain,
		Port:     r.port,
		BasePath: r.basePath,
	}, nil
}

// ResolveAuthHeader returns the bearer Authorization header for the current
// session, or ok=false when no token is present. It never fails.
func (r *Resolver) ResolveAuthHeader() (value string, ok bool) {
	token := r.sessions.AccessToken()
	if token == "" {
		return "", false
	}
	return "Bearer " + token, true
}
