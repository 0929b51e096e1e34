// Package util provides test utilities shared across packages.
package util

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

var (
	// Shared connection URL for all tests in local dev
	sharedRedisURL string
	redisOnce      sync.Once
	redisErr       error
)

// SetupTestRedis returns a Redis URL for integration tests.
// - CI: connects to an external Redis from CI_REDIS_URL
// - Local: uses a shared testcontainer (started once per package)
// Tests are skipped when neither is available.
func SetupTestRedis(t *testing.T) string {
	t.Helper()

	if url := os.Getenv("CI_REDIS_URL"); url != "" {
		t.Log("Using external Redis from CI_REDIS_URL")
		return url
	}

	redisOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		t.Log("Starting shared Redis testcontainer for all tests")
		container, err := tcredis.Run(ctx, "redis:7-alpine")
		if err != nil {
			redisErr = err
			return
		}
		sharedRedisURL, redisErr = container.ConnectionString(ctx)
	})
	if redisErr != nil {
		t.Skipf("Redis container unavailable: %v", redisErr)
	}
	return sharedRedisURL
}
