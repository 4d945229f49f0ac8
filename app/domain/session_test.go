package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTenantNameFromDomain(t *testing.T) {
	tests := []struct {
		name   string
		domain string
		want   string
	}{
		{
			name:   "standard tenant domain",
			domain: "acme.example.com",
			want:   "acme",
		},
		{
			name:   "single label",
			domain: "acme",
			want:   "acme",
		},
		{
			name:   "empty domain",
			domain: "",
			want:   "",
		},
		{
			name:   "localhost style domain",
			domain: "acme.localhost",
			want:   "acme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TenantNameFromDomain(tt.domain))
		})
	}
}

func TestTokenPair_Complete(t *testing.T) {
	assert.True(t, TokenPair{Access: "a", Refresh: "r"}.Complete())
	assert.False(t, TokenPair{Access: "a"}.Complete())
	assert.False(t, TokenPair{Refresh: "r"}.Complete())
	assert.False(t, TokenPair{}.Complete())
}

func TestUser_DisplayName(t *testing.T) {
	u := &User{Username: "alice", Email: "alice@acme.com"}
	assert.Equal(t, "alice", u.DisplayName())

	u = &User{Email: "alice@acme.com"}
	assert.Equal(t, "alice@acme.com", u.DisplayName())

	var missing *User
	assert.Equal(t, "", missing.DisplayName())
}

func TestAPIOrigin_BaseURL(t *testing.T) {
	origin := APIOrigin{Scheme: "http", Host: "acme.example.com", Port: 8000, BasePath: "/api/"}
	assert.Equal(t, "http://acme.example.com:8000/api/", origin.BaseURL())
}
