package repo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeStore is an in-memory revocationStore. err, when set, fails every call.
type fakeStore struct {
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (s *fakeStore) Get(_ context.Context, key string) *redis.StringCmd {
	if s.err != nil {
		return redis.NewStringResult("", s.err)
	}
	v, ok := s.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (s *fakeStore) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if s.err != nil {
		return redis.NewStatusResult("", s.err)
	}
	s.values[key] = value.(string)
	s.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestRevokedKeyHidesToken(t *testing.T) {
	key := revokedKey("eyJhbGciOiJIUzI1NiJ9.secret")

	assert.True(t, strings.HasPrefix(key, revokedKeyPrefix))
	assert.NotContains(t, key, "secret")
	assert.Len(t, strings.TrimPrefix(key, revokedKeyPrefix), 64)
	assert.Equal(t, key, revokedKey("eyJhbGciOiJIUzI1NiJ9.secret"))
	assert.NotEqual(t, key, revokedKey("other"))
}

func TestRevokeThenIsRevoked(t *testing.T) {
	store := newFakeStore()
	r := newRevocationRepository(zaptest.NewLogger(t), store)
	ctx := context.Background()

	revoked, err := r.IsRevoked(ctx, "tok-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "tok-a", time.Now().Add(time.Hour)))

	revoked, err = r.IsRevoked(ctx, "tok-a")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = r.IsRevoked(ctx, "tok-b")
	require.NoError(t, err)
	assert.False(t, revoked)

	ttl := store.ttls[revokedKey("tok-a")]
	assert.LessOrEqual(t, ttl, time.Hour)
	assert.Greater(t, ttl, 59*time.Minute)
}

func TestRevokeTTL(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown expiry", func(t *testing.T) {
		store := newFakeStore()
		r := newRevocationRepository(zaptest.NewLogger(t), store)
		require.NoError(t, r.Revoke(ctx, "tok", time.Time{}))
		assert.Equal(t, defaultRevocationTTL, store.ttls[revokedKey("tok")])
	})

	t.Run("already expired", func(t *testing.T) {
		store := newFakeStore()
		r := newRevocationRepository(zaptest.NewLogger(t), store)
		require.NoError(t, r.Revoke(ctx, "tok", time.Now().Add(-time.Minute)))
		assert.Empty(t, store.values)
	})

	t.Run("empty token", func(t *testing.T) {
		store := newFakeStore()
		r := newRevocationRepository(zaptest.NewLogger(t), store)
		assert.Error(t, r.Revoke(ctx, "", time.Time{}))
		assert.Empty(t, store.values)
	})
}

func TestRevocationStoreErrors(t *testing.T) {
	down := errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")
	store := newFakeStore()
	store.err = down
	r := newRevocationRepository(zaptest.NewLogger(t), store)
	ctx := context.Background()

	revoked, err := r.IsRevoked(ctx, "tok")
	assert.False(t, revoked)
	assert.ErrorIs(t, err, down)

	assert.ErrorIs(t, r.Revoke(ctx, "tok", time.Time{}), down)
}

func TestRevocationAgainstUnreachableRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	r := newRevocationRepository(zaptest.NewLogger(t), client)

	revoked, err := r.IsRevoked(context.Background(), "tok")
	assert.False(t, revoked)
	require.Error(t, err)
	assert.NotErrorIs(t, err, redis.Nil)
}
