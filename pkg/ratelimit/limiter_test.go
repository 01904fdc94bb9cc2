package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richxcame/localeflow/pkg/config"
)

func testConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		WindowSeconds:  60,
		DefaultLimit:   100,
		DefaultBurst:   10,
		AnonymousLimit: 30,
		AnonymousBurst: 5,
		RedisPrefix:    "rl",
	}
}

func newTestLimiter(cfg config.RateLimitConfig) *Limiter {
	client, _ := redismock.NewClientMock()
	return NewLimiter(client, cfg)
}

func TestNewLimiter(t *testing.T) {
	limiter := newTestLimiter(testConfig())

	require.NotNil(t, limiter)
	assert.NotNil(t, limiter.script)
	assert.NotNil(t, limiter.now)
	assert.Equal(t, "rl", limiter.cfg.RedisPrefix)
}

func TestRuleFor(t *testing.T) {
	cfg := testConfig()
	cfg.EndpointOverrides = map[string]config.EndpointRateLimitConfig{
		"POST:/api/v1/projects": {
			AuthenticatedLimit: 20,
			AuthenticatedBurst: 2,
			AnonymousLimit:     5,
			WindowSeconds:      10,
		},
		"POST:/api/v1/auth/login": {
			AuthenticatedBurst: -1,
		},
	}
	limiter := newTestLimiter(cfg)

	tests := []struct {
		name     string
		endpoint string
		identity IdentityType
		want     Rule
	}{
		{
			name:     "authenticated defaults",
			endpoint: "GET:/api/v1/tm",
			identity: IdentityAuthenticated,
			want:     Rule{Limit: 100, Burst: 10, Window: time.Minute},
		},
		{
			name:     "anonymous defaults",
			endpoint: "GET:/api/v1/tm",
			identity: IdentityAnonymous,
			want:     Rule{Limit: 30, Burst: 5, Window: time.Minute},
		},
		{
			name:     "authenticated override",
			endpoint: "POST:/api/v1/projects",
			identity: IdentityAuthenticated,
			want:     Rule{Limit: 20, Burst: 2, Window: 10 * time.Second},
		},
		{
			name:     "anonymous override keeps default window burst",
			endpoint: "POST:/api/v1/projects",
			identity: IdentityAnonymous,
			want:     Rule{Limit: 5, Burst: 0, Window: 10 * time.Second},
		},
		{
			name:     "zero override limit falls back, negative burst clamped",
			endpoint: "POST:/api/v1/auth/login",
			identity: IdentityAuthenticated,
			want:     Rule{Limit: 100, Burst: 0, Window: time.Minute},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, limiter.RuleFor(tt.endpoint, tt.identity))
		})
	}
}

func TestAllow_DisabledAdmitsEverything(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	limiter := newTestLimiter(cfg)

	rule := Rule{Limit: 1, Burst: 0, Window: time.Minute}
	result, err := limiter.Allow(context.Background(), "GET:/api/v1/tm", "user-1", rule, IdentityAuthenticated)

	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 1, result.Remaining)
}

func TestAllow_NonPositiveLimitAdmits(t *testing.T) {
	limiter := newTestLimiter(testConfig())

	rule := Rule{Limit: 0, Window: time.Minute}
	result, err := limiter.Allow(context.Background(), "GET:/healthz", "anon", rule, IdentityAnonymous)

	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestAllow_FailsOpenOnRedisError(t *testing.T) {
	limiter := newTestLimiter(testConfig())
	limiter.WithNow(func() time.Time {
		return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	})

	rule := Rule{Limit: 10, Burst: 0, Window: time.Minute}
	// No expectations were set, so the script call errors out.
	result, err := limiter.Allow(context.Background(), "POST:/api/v1/projects", "user-1", rule, IdentityAuthenticated)

	require.Error(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, "user-1", result.IdentityKey)
	assert.Equal(t, "POST:/api/v1/projects", result.EndpointKey)
}
