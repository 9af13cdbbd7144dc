package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const lpTokenKeyPrefix = "lptoken:"

// RedisLPTokenCache implements LPTokenCache using Redis. Entries are written
// once with SETNX and no expiry, so replicas sharing the instance agree on a
// pool's LP token and resolve it at most once between them.
type RedisLPTokenCache struct {
	client *redis.Client
}

// NewRedisLPTokenCache connects to addr and pings it before returning.
func NewRedisLPTokenCache(addr, password string, db int) (*RedisLPTokenCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisLPTokenCache{client: client}, nil
}

// NewRedisLPTokenCacheFromClient wraps an existing client.
func NewRedisLPTokenCacheFromClient(client *redis.Client) *RedisLPTokenCache {
	return &RedisLPTokenCache{client: client}
}

func (c *RedisLPTokenCache) Close() error {
	return c.client.Close()
}

// Get reports a miss as ok=false with a nil error.
func (c *RedisLPTokenCache) Get(ctx context.Context, pair string) (string, bool, error) {
	lpToken, err := c.client.Get(ctx, LPTokenKey(pair)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return lpToken, true, nil
}

// Set stores lpToken unless the pool already has an entry.
func (c *RedisLPTokenCache) Set(ctx context.Context, pair, lpToken string) error {
	return c.client.SetNX(ctx, LPTokenKey(pair), lpToken, 0).Err()
}

// LPTokenKey is the Redis key of a pool's LP token. Hex addresses differ only
// in checksum casing, so the pool part is lower-cased.
func LPTokenKey(pair string) string {
	return lpTokenKeyPrefix + strings.ToLower(pair)
}
