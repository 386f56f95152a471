// Package cache holds revoked access-token ids until the tokens expire.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/redis/go-redis/v9"
)

type Denylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, goerr.Wrap(err, "redis ping", goerr.V("addr", addr))
	}
	return client, nil
}

type RedisDenylist struct {
	client *redis.Client
}

func NewRedisDenylist(client *redis.Client) *RedisDenylist {
	return &RedisDenylist{client: client}
}

func (d *RedisDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, denylistKey(jti), "1", ttl).Err(); err != nil {
		return goerr.Wrap(err, "store revoked token", goerr.V("jti", jti))
	}
	return nil
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	_, err := d.client.Get(ctx, denylistKey(jti)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, goerr.Wrap(err, "load revoked token", goerr.V("jti", jti))
	}
	return true, nil
}

func denylistKey(jti string) string {
	return fmt.Sprintf("denylist:%s", jti)
}

// MemoryDenylist is used when no redis address is configured.
type MemoryDenylist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{entries: make(map[string]time.Time), now: time.Now}
}

func (d *MemoryDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for key, expiresAt := range d.entries {
		if !now.Before(expiresAt) {
			delete(d.entries, key)
		}
	}
	d.entries[jti] = now.Add(ttl)
	return nil
}

func (d *MemoryDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	expiresAt, ok := d.entries[jti]
	if !ok {
		return false, nil
	}
	if !d.now().Before(expiresAt) {
		delete(d.entries, jti)
		return false, nil
	}
	return true, nil
}
