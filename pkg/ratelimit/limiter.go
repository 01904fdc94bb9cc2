package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/richxcame/localeflow/pkg/config"
)

// IdentityType distinguishes authenticated users from anonymous callers
type IdentityType int

const (
	// IdentityAnonymous keys the limit on the client IP
	IdentityAnonymous IdentityType = iota
	// IdentityAuthenticated keys the limit on the user id
	IdentityAuthenticated
)

// Rule is the effective limit applied to one request
type Rule struct {
	Limit  int
	Burst  int
	Window time.Duration
}

// Result describes the outcome of a rate limit check
type Result struct {
	Allowed      bool
	Remaining    int
	RetryAfter   time.Duration
	Limit        int
	Window       time.Duration
	ResetAfter   time.Duration
	IdentityKey  string
	EndpointKey  string
	IdentityType IdentityType
}

// Sliding window limiter over a Redis sorted set. The script removes
// entries older than the window, counts what remains, and admits the
// request when count < limit + burst.
const slidingWindowScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)

if count < max then
  redis.call('ZADD', key, now, member)
  redis.call('PEXPIRE', key, math.ceil(window))
  return {1, max - count - 1, 0}
end

local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local retry = 0
if oldest[2] then
  retry = math.ceil(tonumber(oldest[2]) + window - now)
end
return {0, 0, retry}
`

// Limiter applies per-endpoint sliding window rate limits backed by Redis
type Limiter struct {
	client redis.Cmdable
	script *redis.Script
	now    func() time.Time
	cfg    config.RateLimitConfig
}

// NewLimiter creates a Limiter with the given Redis client and config
func NewLimiter(client redis.Cmdable, cfg config.RateLimitConfig) *Limiter {
	return &Limiter{
		client: client,
		script: redis.NewScript(slidingWindowScript),
		now:    time.Now,
		cfg:    cfg,
	}
}

// WithNow overrides the limiter clock (used in tests)
func (l *Limiter) WithNow(now func() time.Time) {
	l.now = now
}

// RuleFor resolves the effective rule for an endpoint and identity type.
// Endpoint overrides replace the defaults where set; a zero or negative
// override limit falls back to the configured default.
func (l *Limiter) RuleFor(endpoint string, identity IdentityType) Rule {
	rule := Rule{Window: l.cfg.Window()}

	if identity == IdentityAuthenticated {
		rule.Limit = l.cfg.DefaultLimit
		rule.Burst = l.cfg.DefaultBurst
	} else {
		rule.Limit = l.cfg.AnonymousLimit
		rule.Burst = l.cfg.AnonymousBurst
	}

	if override, ok := l.cfg.EndpointOverrides[endpoint]; ok {
		if identity == IdentityAuthenticated {
			if override.AuthenticatedLimit > 0 {
				rule.Limit = override.AuthenticatedLimit
			}
			rule.Burst = override.AuthenticatedBurst
		} else {
			if override.AnonymousLimit > 0 {
				rule.Limit = override.AnonymousLimit
			}
			rule.Burst = override.AnonymousBurst
		}
		if override.WindowSeconds > 0 {
			rule.Window = time.Duration(override.WindowSeconds) * time.Second
		}
	}

	if rule.Burst < 0 {
		rule.Burst = 0
	}

	return rule
}

// Allow checks and records one request for the given identity. Disabled
// limiters and non-positive limits admit everything.
func (l *Limiter) Allow(ctx context.Context, endpoint, identity string, rule Rule, identityType IdentityType) (Result, error) {
	result := Result{
		Allowed:      true,
		Remaining:    rule.Limit,
		Limit:        rule.Limit,
		Window:       rule.Window,
		IdentityKey:  identity,
		EndpointKey:  endpoint,
		IdentityType: identityType,
	}

	if !l.cfg.Enabled || rule.Limit <= 0 {
		return result, nil
	}

	window := rule.Window
	if window <= 0 {
		window = l.cfg.Window()
	}

	now := l.now()
	key := fmt.Sprintf("%s:%s:%s", l.cfg.RedisPrefix, endpoint, identity)
	member := formatFloat(float64(now.UnixNano()) / 1e6)

	raw, err := l.script.Run(ctx, l.client, []string{key},
		now.UnixMilli(),
		window.Milliseconds(),
		rule.Limit+rule.Burst,
		member,
	).Result()
	if err != nil {
		// Fail open: a Redis outage must not take the API down with it.
		return result, err
	}

	values, ok := raw.([]interface{})
	if !ok || len(values) < 3 {
		return result, fmt.Errorf("unexpected rate limit script reply: %v", raw)
	}

	result.Allowed = toInt(values[0]) == 1
	result.Remaining = toInt(values[1])
	retryMs := toFloat(values[2])
	if retryMs > 0 {
		result.RetryAfter = time.Duration(retryMs) * time.Millisecond
		result.ResetAfter = result.RetryAfter
	}

	return result, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 10, 64)
}

func toInt(v interface{}) int {
	switch val := v.(type) {
	case int64:
		return int(val)
	case int:
		return val
	case float64:
		return int(val)
	case string:
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return 0
}

func toFloat(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int64:
		return float64(val)
	case int:
		return float64(val)
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return 0
}
