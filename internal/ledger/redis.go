// Package ledger tracks consumed password reset tokens.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dtroode/blog-server/internal/model"
)

const defaultKeyPrefix = "reset:used"

type redisAPI interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

var _ model.ResetLedger = (*Redis)(nil)

// Redis keeps consumed token IDs as expiring keys.
type Redis struct {
	client redisAPI
	prefix string
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// NewRedis creates a ledger over the given client.
func NewRedis(client redisAPI) *Redis {
	return &Redis{client: client, prefix: defaultKeyPrefix}
}

func (r *Redis) key(jti string) string {
	return r.prefix + ":" + jti
}

// Consume atomically marks jti as used. It reports false if jti was used before.
func (r *Redis) Consume(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, nil
	}

	ok, err := r.client.SetNX(ctx, r.key(jti), "used", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark reset token as used: %w", err)
	}
	return ok, nil
}

// Release removes the mark so that jti can be consumed again.
func (r *Redis) Release(ctx context.Context, jti string) error {
	if err := r.client.Del(ctx, r.key(jti)).Err(); err != nil {
		return fmt.Errorf("failed to release reset token: %w", err)
	}
	return nil
}

// Ping checks that Redis is reachable.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
