package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/access-gate/internal/models"
)

func TestDecide(t *testing.T) {
	identity := &models.Identity{
		UID:      "550e8400-e29b-41d4-a716-446655440000",
		Username: "testuser",
		Email:    "test@example.com",
	}

	tests := []struct {
		name         string
		path         string
		identity     *models.Identity
		wantAllow    bool
		wantRedirect string
	}{
		{
			name:         "anonymous on protected path redirects to login",
			path:         "/apps/mindmap",
			identity:     nil,
			wantAllow:    false,
			wantRedirect: LoginPath,
		},
		{
			name:         "anonymous on api path redirects to login",
			path:         "/api/user/affiliate/transactions",
			identity:     nil,
			wantAllow:    false,
			wantRedirect: LoginPath,
		},
		{
			name:      "anonymous on login path is allowed",
			path:      LoginPath,
			identity:  nil,
			wantAllow: true,
		},
		{
			name:         "authenticated on login path redirects home",
			path:         LoginPath,
			identity:     identity,
			wantAllow:    false,
			wantRedirect: HomePath,
		},
		{
			name:      "authenticated on protected path is allowed",
			path:      "/apps/mindmap",
			identity:  identity,
			wantAllow: true,
		},
		{
			name:      "anonymous on health check is allowed",
			path:      "/healthz",
			identity:  nil,
			wantAllow: true,
		},
		{
			name:      "anonymous on static asset is allowed",
			path:      "/static/js/app.js",
			identity:  nil,
			wantAllow: true,
		},
		{
			name:      "anonymous on auth callback is allowed",
			path:      "/api/auth/callback/credentials",
			identity:  nil,
			wantAllow: true,
		},
		{
			name:      "anonymous on subscription status is allowed",
			path:      "/api/subscription",
			identity:  nil,
			wantAllow: true,
		},
		{
			name:      "anonymous on register is allowed",
			path:      "/register",
			identity:  nil,
			wantAllow: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.path, tt.identity)
			assert.Equal(t, tt.wantAllow, d.Allow)
			assert.Equal(t, tt.wantRedirect, d.RedirectTo)
		})
	}
}

func TestIsStaticExempt(t *testing.T) {
	assert.True(t, IsStaticExempt("/healthz"))
	assert.True(t, IsStaticExempt("/metrics"))
	assert.True(t, IsStaticExempt("/static/css/main.css"))
	assert.True(t, IsStaticExempt("/docs/index.html"))
	assert.False(t, IsStaticExempt("/api/subscription"))
	assert.False(t, IsStaticExempt("/login"))
	assert.False(t, IsStaticExempt("/apps/mindmap"))
}
