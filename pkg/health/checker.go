package health

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Checker is a single dependency health check
type Checker func() error

// CheckerConfig holds shared checker options
type CheckerConfig struct {
	Timeout time.Duration
}

// DefaultCheckerConfig returns the default checker options
func DefaultCheckerConfig() CheckerConfig {
	return CheckerConfig{Timeout: 2 * time.Second}
}

// DatabaseChecker returns a health check function for a SQL database
func DatabaseChecker(db *sql.DB) Checker {
	return DatabaseCheckerWithConfig(db, DefaultCheckerConfig())
}

// DatabaseCheckerWithConfig returns a database health check with custom options
func DatabaseCheckerWithConfig(db *sql.DB, cfg CheckerConfig) Checker {
	return func() error {
		if db == nil {
			return errors.New("database connection is nil")
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()
		return db.PingContext(ctx)
	}
}

// RedisChecker returns a health check function for Redis
func RedisChecker(client *redis.Client) Checker {
	return RedisCheckerWithConfig(client, DefaultCheckerConfig())
}

// RedisCheckerWithConfig returns a Redis health check with custom options
func RedisCheckerWithConfig(client *redis.Client, cfg CheckerConfig) Checker {
	return func() error {
		if client == nil {
			return errors.New("redis client is nil")
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()
		return client.Ping(ctx).Err()
	}
}

// HTTPEndpointChecker returns a health check function for HTTP endpoints.
// Useful for checking external service dependencies.
func HTTPEndpointChecker(url string) Checker {
	return HTTPEndpointCheckerWithConfig(url, DefaultCheckerConfig())
}

// HTTPEndpointCheckerWithConfig returns an HTTP health check with custom options.
// Any status below 400 counts as healthy.
func HTTPEndpointCheckerWithConfig(url string, cfg CheckerConfig) Checker {
	client := &http.Client{
		Timeout: cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return func() error {
		resp, err := client.Get(url)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("unhealthy status code %d from %s", resp.StatusCode, url)
		}
		return nil
	}
}

// CompositeChecker combines several checks into one. The first failing
// check is reported as "<name>.<check>: <error>".
func CompositeChecker(name string, checkers map[string]Checker) Checker {
	return func() error {
		for checkName, check := range checkers {
			if err := check(); err != nil {
				return fmt.Errorf("%s.%s: %w", name, checkName, err)
			}
		}
		return nil
	}
}

// AsyncChecker runs a check in a goroutine and fails with a timeout error
// when it does not finish in time
func AsyncChecker(checker Checker, timeout time.Duration) Checker {
	return func() error {
		done := make(chan error, 1)
		go func() {
			done <- checker()
		}()
		select {
		case err := <-done:
			return err
		case <-time.After(timeout):
			return fmt.Errorf("health check timeout after %s", timeout)
		}
	}
}

// CachedChecker caches a check result for a TTL so hot health endpoints do
// not hammer dependencies
type CachedChecker struct {
	checker  Checker
	cacheTTL time.Duration

	mu        sync.Mutex
	lastCheck time.Time
	lastErr   error
}

// NewCachedChecker wraps a checker with result caching
func NewCachedChecker(checker Checker, ttl time.Duration) *CachedChecker {
	return &CachedChecker{checker: checker, cacheTTL: ttl}
}

// Check runs the underlying checker or returns the cached result
func (c *CachedChecker) Check() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.lastCheck.IsZero() && time.Since(c.lastCheck) < c.cacheTTL {
		return c.lastErr
	}

	c.lastErr = c.checker()
	c.lastCheck = time.Now()
	return c.lastErr
}
