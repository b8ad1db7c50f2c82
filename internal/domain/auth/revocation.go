package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type Revoker interface {
	RevocationChecker
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
}

const revokedKeyPrefix = "revoked_token:"

// RedisRevoker keeps revoked token ids in Redis until the token would have
// expired anyway.
type RedisRevoker struct {
	client redis.Cmdable
	cb     *gobreaker.CircuitBreaker
}

func NewRedisRevoker(client redis.Cmdable, cb *gobreaker.CircuitBreaker) *RedisRevoker {
	return &RedisRevoker{client: client, cb: cb}
}

func (r *RedisRevoker) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	_, err := r.cb.Execute(func() (any, error) {
		return nil, r.client.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err()
	})
	return err
}

// IsRevoked fails open while the breaker is open: a Redis outage must not
// lock every user out.
func (r *RedisRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	result, err := r.cb.Execute(func() (any, error) {
		n, err := r.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
		if err != nil {
			return false, err
		}
		return n > 0, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return false, nil
		}
		return false, err
	}
	return result.(bool), nil
}

// MemoryRevoker is used when no Redis address is configured. Revocations do
// not survive a restart and are not shared between instances.
type MemoryRevoker struct {
	mu      sync.Mutex
	now     func() time.Time
	revoked map[string]time.Time
}

func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{now: time.Now, revoked: map[string]time.Time{}}
}

func (m *MemoryRevoker) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, until := range m.revoked {
		if !now.Before(until) {
			delete(m.revoked, id)
		}
	}
	m.revoked[tokenID] = now.Add(ttl)
	return nil
}

func (m *MemoryRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	until, ok := m.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if !m.now().Before(until) {
		delete(m.revoked, tokenID)
		return false, nil
	}
	return true, nil
}
