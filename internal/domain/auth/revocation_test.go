package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leavemgmt/internal/platform/breaker"
)

func TestRedisRevoker(t *testing.T) {
	client, mock := redismock.NewClientMock()
	revoker := NewRedisRevoker(client, breaker.New("test-revocation", time.Second))
	ctx := context.Background()

	mock.ExpectSet("revoked_token:abc", "1", time.Hour).SetVal("OK")
	require.NoError(t, revoker.Revoke(ctx, "abc", time.Hour))

	mock.ExpectExists("revoked_token:abc").SetVal(1)
	revoked, err := revoker.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	mock.ExpectExists("revoked_token:other").SetVal(0)
	revoked, err = revoker.IsRevoked(ctx, "other")
	require.NoError(t, err)
	assert.False(t, revoked)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisRevokerSkipsExpiredTokens(t *testing.T) {
	client, mock := redismock.NewClientMock()
	revoker := NewRedisRevoker(client, breaker.New("test-revocation-expired", time.Second))

	require.NoError(t, revoker.Revoke(context.Background(), "abc", 0))
	require.NoError(t, revoker.Revoke(context.Background(), "abc", -time.Minute))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisRevokerFailsOpenWhenBreakerOpen(t *testing.T) {
	client, mock := redismock.NewClientMock()
	revoker := NewRedisRevoker(client, breaker.New("test-revocation-open", time.Minute))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		mock.ExpectExists("revoked_token:abc").SetErr(errors.New("connection refused"))
		_, err := revoker.IsRevoked(ctx, "abc")
		assert.Error(t, err)
	}

	revoked, err := revoker.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryRevoker(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	revoker := NewMemoryRevoker()
	revoker.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, revoker.Revoke(ctx, "abc", time.Minute))
	revoked, err := revoker.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, _ = revoker.IsRevoked(ctx, "other")
	assert.False(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, _ = revoker.IsRevoked(ctx, "abc")
	assert.False(t, revoked)
}
