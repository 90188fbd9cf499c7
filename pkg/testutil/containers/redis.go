//go:build integration

package containers

import (
	"context"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

var (
	redisOnce sync.Once
	redisURL  string
	redisErr  error
)

// RedisContainer is a client for the shared Redis test instance.
type RedisContainer struct {
	URL    string
	Client *redis.Client
}

// NewRedisContainer starts one Redis container per test binary and returns a
// client to it that is closed on test cleanup.
func NewRedisContainer(t *testing.T) *RedisContainer {
	t.Helper()

	ctx := context.Background()
	redisOnce.Do(func() {
		var container *tcredis.RedisContainer
		container, redisErr = tcredis.Run(ctx, "redis:7-alpine")
		if redisErr != nil {
			return
		}
		redisURL, redisErr = container.ConnectionString(ctx)
	})
	if redisErr != nil {
		t.Fatalf("failed to start redis container: %v", redisErr)
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		t.Fatalf("failed to parse redis url %q: %v", redisURL, err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Fatalf("failed to ping redis: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return &RedisContainer{URL: redisURL, Client: client}
}

// FlushAll empties the database between tests.
func (r *RedisContainer) FlushAll(ctx context.Context) error {
	return r.Client.FlushAll(ctx).Err()
}
