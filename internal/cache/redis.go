// Package cache wraps the shared Redis client and the cache-aside
// helpers built on it. The client is optional: when Redis is down or
// unconfigured every helper degrades to a pass-through and the API
// keeps serving from the database.
package cache

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"commune/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

var client *redis.Client

// metricsHook counts failed commands in the Prometheus error counter.
// Cache misses (redis.Nil) are not errors.
type metricsHook struct{}

func (h metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (h metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// InitRedis connects the shared client to addr, which may be a plain
// host:port or a redis:// URL. A failed connection leaves the client
// nil and the process running without a cache.
func InitRedis(addr string) {
	opts, err := parseRedisAddr(addr)
	if err != nil {
		log.Printf("Redis disabled: invalid address %q: %v", addr, err)
		client = nil
		return
	}

	client = redis.NewClient(opts)
	client.AddHook(metricsHook{})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis disabled: ping failed: %v", err)
		client = nil
		return
	}
	log.Println("Redis connected")
}

func parseRedisAddr(addr string) (*redis.Options, error) {
	if strings.Contains(addr, "://") {
		return redis.ParseURL(addr)
	}
	return &redis.Options{Addr: addr}, nil
}

// GetClient returns the shared client, nil when Redis is unavailable.
func GetClient() *redis.Client {
	return client
}

// SetClient swaps the client, primarily for tests.
func SetClient(c *redis.Client) {
	client = c
}
