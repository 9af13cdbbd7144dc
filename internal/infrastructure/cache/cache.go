package cache

import (
	"context"
	"strings"
	"sync"
)

// LPTokenCache memoizes the LP token address of each pool. Entries never
// expire: a pool's LP token cannot change once deployed.
type LPTokenCache interface {
	Get(ctx context.Context, pair string) (lpToken string, ok bool, err error)
	Set(ctx context.Context, pair, lpToken string) error
}

// InMemoryLPTokenCache implements LPTokenCache for a single process. Pools
// are keyed case-insensitively, like LPTokenKey.
type InMemoryLPTokenCache struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewInMemoryLPTokenCache creates a new in-memory cache
func NewInMemoryLPTokenCache() *InMemoryLPTokenCache {
	return &InMemoryLPTokenCache{
		entries: make(map[string]string),
	}
}

func (c *InMemoryLPTokenCache) Get(ctx context.Context, pair string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	lpToken, ok := c.entries[strings.ToLower(pair)]
	return lpToken, ok, nil
}

func (c *InMemoryLPTokenCache) Set(ctx context.Context, pair, lpToken string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[strings.ToLower(pair)] = lpToken
	return nil
}

// Len returns the number of cached pools.
func (c *InMemoryLPTokenCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
