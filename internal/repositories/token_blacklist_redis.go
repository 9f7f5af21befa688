package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked_token:"

// RedisTokenBlacklist keeps revoked token IDs in Redis with a TTL equal to
// the token's remaining lifetime.
type RedisTokenBlacklist struct {
	rdb *redis.Client
}

// RedisConfig holds Redis connection details.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisTokenBlacklist creates a blacklist backed by a new Redis client.
func NewRedisTokenBlacklist(cfg RedisConfig) *RedisTokenBlacklist {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisTokenBlacklist{rdb: rdb}
}

// Ping checks the connection.
func (b *RedisTokenBlacklist) Ping(ctx context.Context) error {
	if err := b.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to reach redis: %w", err)
	}
	return nil
}

// Revoke blacklists tokenID until the given time.
func (b *RedisTokenBlacklist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if err := b.rdb.Set(ctx, revokedKeyPrefix+tokenID, until.Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token %s: %w", tokenID, err)
	}
	return nil
}

// IsRevoked reports whether tokenID is blacklisted.
func (b *RedisTokenBlacklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := b.rdb.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token %s: %w", tokenID, err)
	}
	return n > 0, nil
}

// Close closes the Redis client.
func (b *RedisTokenBlacklist) Close() error {
	return b.rdb.Close()
}
