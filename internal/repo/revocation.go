package repo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const revokedKeyPrefix = "market-admin:auth:revoked:" // "1" per revoked token digest

// defaultRevocationTTL bounds entries for tokens with unknown expiry.
const defaultRevocationTTL = 24 * time.Hour

// revokedKey builds the Redis key for a token. Only the SHA-256 digest is
// stored so a dump of Redis does not leak usable tokens.
func revokedKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return revokedKeyPrefix + hex.EncodeToString(sum[:])
}

// revocationStore is the subset of the Redis client revocations use.
type revocationStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RevocationRepository keeps access tokens that were signed out before
// they expired.
type RevocationRepository struct {
	log    *zap.Logger
	client revocationStore
}

func newRevocationRepository(log *zap.Logger, client revocationStore) *RevocationRepository {
	return &RevocationRepository{
		log:    log.Named("revocations"),
		client: client,
	}
}

// Revoke marks token as revoked until expiresAt (or for a day when the
// expiry is unknown). Tokens that already expired are ignored.
func (r *RevocationRepository) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	if token == "" {
		return fmt.Errorf("empty token")
	}
	ttl := defaultRevocationTTL
	if !expiresAt.IsZero() {
		ttl = time.Until(expiresAt)
		if ttl <= 0 {
			return nil
		}
	}
	key := revokedKey(token)
	if err := r.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// IsRevoked reports whether token was revoked.
func (r *RevocationRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	key := revokedKey(token)
	err := r.client.Get(ctx, key).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, fmt.Errorf("get %s: %w", key, err)
	}
}
