package domain

import (
	"fmt"
	"strings"
)

// User represents the authenticated tenant user as returned by the public
// token endpoint.
type User struct {
	ID           int64  `json:"id,omitempty"`
	Username     string `json:"username,omitempty"`
	Email        string `json:"email,omitempty"`
	RoleInTenant string `json:"role_in_tenant,omitempty"`
}

// DisplayName returns the username, falling back to the email address when
// the backend did not provide one.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

// TokenPair holds the access/refresh token pair issued at login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Complete reports whether both tokens are present. A response missing either
// token must be treated as a failed login.
func (t TokenPair) Complete() bool {
	return t.Access != "" && t.Refresh != ""
}

// TokenResponse is the payload of POST /api/token/ on the public origin.
type TokenResponse struct {
	Access       string `json:"access"`
	Refresh      string `json:"refresh"`
	TenantDomain string `json:"tenant_domain,omitempty"`
	User         *User  `json:"user,omitempty"`
}

// Tokens returns the token pair carried by the response.
func (r *TokenResponse) Tokens() TokenPair {
	return TokenPair{Access: r.Access, Refresh: r.Refresh}
}

// SignupRequest is the payload of POST /api/tenants/signup/ on the public
// origin. Signup never touches session state; a login follows separately.
type SignupRequest struct {
	Name        string `json:"name" validate:"required"`
	CompanyName string `json:"company_name,omitempty"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
}

// SignupResponse describes the tenant created by signup.
type SignupResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	SchemaName string `json:"schema_name"`
	Domain     string `json:"domain"`
}

// TenantNameFromDomain derives the tenant name from its routable domain: the
// name is always the first dot-label ("acme.example.com" -> "acme").
func TenantNameFromDomain(domain string) string {
	if domain == "" {
		return ""
	}
	return strings.SplitN(domain, ".", 2)[0]
}

// APIOrigin is a resolved tenant-scoped API origin.
type APIOrigin struct {
	Scheme   string
	Host     string
	Port     int
	BasePath string
}

// BaseURL renders the origin as a URL prefix, e.g. "http://acme.example.com:8000/api/".
func (o APIOrigin) BaseURL() string {
	return fmt.Sprintf("%s://%s:%d%s", o.Scheme, o.Host, o.Port, o.BasePath)
}
