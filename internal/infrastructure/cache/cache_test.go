package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

const (
	checksummedPair = "0xB4e16d0168e52d35CaCD2c6185b44281Ec28C9Dc"
	lowercasePair   = "0xb4e16d0168e52d35cacd2c6185b44281ec28c9dc"
)

func TestInMemoryLPTokenCache(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryLPTokenCache()

	if _, ok, err := c.Get(ctx, "0xpair"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Set(ctx, "0xpair", "0xlp"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	lp, ok, err := c.Get(ctx, "0xpair")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if lp != "0xlp" {
		t.Errorf("Get() = %s, want 0xlp", lp)
	}
}

func TestInMemoryLPTokenCacheIgnoresCase(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryLPTokenCache()

	if err := c.Set(ctx, checksummedPair, "0xlp"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	lp, ok, err := c.Get(ctx, lowercasePair)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if lp != "0xlp" {
		t.Errorf("Get() = %s, want 0xlp", lp)
	}

	if err := c.Set(ctx, lowercasePair, "0xlp"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestInMemoryLPTokenCacheConcurrent(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryLPTokenCache()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pair := fmt.Sprintf("pair-%d", i%10)
			_ = c.Set(ctx, pair, "lp-"+pair)
			_, _, _ = c.Get(ctx, pair)
		}(i)
	}
	wg.Wait()

	if c.Len() != 10 {
		t.Errorf("Len() = %d, want 10", c.Len())
	}
}

func TestLPTokenKey(t *testing.T) {
	tests := []struct {
		pair string
		want string
	}{
		{"0xB4e16d0168e52d35CaCD2c6185b44281Ec28C9Dc", "lptoken:0xb4e16d0168e52d35cacd2c6185b44281ec28c9dc"},
		{"0xb4e16d0168e52d35cacd2c6185b44281ec28c9dc", "lptoken:0xb4e16d0168e52d35cacd2c6185b44281ec28c9dc"},
		{"CDLZFC3SYJYDZT7K67VZ75HPJVIEUVNIXF47ZG2FB2RMQQVU2HHGCYSC", "lptoken:cdlzfc3syjydzt7k67vz75hpjvieuvnixf47zg2fb2rmqqvu2hhgcysc"},
	}

	for _, tt := range tests {
		if got := LPTokenKey(tt.pair); got != tt.want {
			t.Errorf("LPTokenKey(%s) = %s, want %s", tt.pair, got, tt.want)
		}
	}
}

func TestNewRedisLPTokenCacheUnreachable(t *testing.T) {
	// Port 1 on loopback refuses connections.
	c, err := NewRedisLPTokenCache("127.0.0.1:1", "", 0)
	if err == nil {
		c.Close()
		t.Fatal("expected connection error")
	}
}

func TestRedisLPTokenCache(t *testing.T) {
	ctx := context.Background()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	c := NewRedisLPTokenCacheFromClient(client)
	defer c.Close()

	if _, ok, err := c.Get(ctx, checksummedPair); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Set(ctx, checksummedPair, "0xlp1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	// The first resolution wins.
	if err := c.Set(ctx, lowercasePair, "0xlp2"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	lp, ok, err := c.Get(ctx, lowercasePair)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if lp != "0xlp1" {
		t.Errorf("Get() = %s, want 0xlp1", lp)
	}

	key := LPTokenKey(checksummedPair)
	if got, err := srv.Get(key); err != nil || got != "0xlp1" {
		t.Errorf("stored %s = %q (err %v), want 0xlp1", key, got, err)
	}
	if ttl := srv.TTL(key); ttl != 0 {
		t.Errorf("TTL(%s) = %s, want none", key, ttl)
	}
	if keys := srv.Keys(); len(keys) != 1 {
		t.Errorf("Keys() = %v, want one key", keys)
	}
}

func TestRedisLPTokenCacheError(t *testing.T) {
	srv := miniredis.RunT(t)
	c := NewRedisLPTokenCacheFromClient(redis.NewClient(&redis.Options{Addr: srv.Addr()}))
	defer c.Close()

	srv.SetError("LOADING dataset in memory")
	if _, ok, err := c.Get(context.Background(), checksummedPair); err == nil || ok {
		t.Errorf("expected error, got ok=%v err=%v", ok, err)
	}
}
