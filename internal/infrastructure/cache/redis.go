package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"catalog-backend/internal/config"

	"github.com/redis/go-redis/v9"
)

const (
	connectAttempts = 3
	connectBackoff  = 500 * time.Millisecond
	pingTimeout     = 2 * time.Second
)

// RedisClient owns the connection behind the catalog cache and the asynq
// health check.
type RedisClient struct {
	Client *redis.Client
	addr   string
}

func NewRedisClient(cfg config.RedisConfig) *RedisClient {
	return &RedisClient{
		addr: cfg.Host,
		Client: redis.NewClient(&redis.Options{
			Addr:         cfg.Host,
			Password:     cfg.Password,
			DB:           cfg.DB,
			PoolSize:     10,
			MinIdleConns: 2,
			MaxRetries:   2,
			DialTimeout:  3 * time.Second,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		}),
	}
}

// Connect pings Redis a few times before giving up. The caller decides
// whether a failure is fatal; the API falls back to an uncached catalog.
func (r *RedisClient) Connect(ctx context.Context) error {
	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		if err = r.HealthCheck(ctx); err == nil {
			log.Printf("[REDIS] Connected to %s", r.addr)
			return nil
		}
		log.Printf("[REDIS] Attempt %d/%d to %s failed: %v", attempt, connectAttempts, r.addr, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * connectBackoff):
		}
	}
	return err
}

func (r *RedisClient) HealthCheck(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client is not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := r.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", r.addr, err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Close()
}
