package authkit

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var errRevocationRedisUnavailable = errors.New("revocation redis unavailable")

// revocationStore is the token blacklist. Keys are the sha256 of the raw
// bearer token, so the store never holds a usable credential. Redis key TTLs
// handle cleanup: a record never needs to outlive the token it revokes.
type revocationStore struct {
	redis  *redis.Client
	prefix string
	cfg    RevocationConfig
}

func newRevocationStore(redisClient *redis.Client, cfg RevocationConfig) *revocationStore {
	return &revocationStore{
		redis:  redisClient,
		prefix: cfg.RedisPrefix,
		cfg:    cfg,
	}
}

func (s *revocationStore) key(tokenHash [32]byte) string {
	return s.prefix + ":" + base64.RawURLEncoding.EncodeToString(tokenHash[:])
}

// Revoke describes the revoke operation and its observable behavior.
//
// Revoke may return an error when input validation, dependency calls, or security checks fail.
// Revoke does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *revocationStore) Revoke(ctx context.Context, tokenHash [32]byte, tokenExpiry time.Time) error {
	ttl := time.Until(tokenExpiry)
	if ttl <= 0 {
		// Already expired: nothing to blacklist.
		return nil
	}
	if ttl > s.cfg.TTL {
		ttl = s.cfg.TTL
	}

	if err := s.redis.Set(ctx, s.key(tokenHash), []byte{1}, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", errRevocationRedisUnavailable, err)
	}
	return nil
}

// IsRevoked describes the isrevoked operation and its observable behavior.
//
// IsRevoked may return an error when input validation, dependency calls, or security checks fail.
// IsRevoked does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *revocationStore) IsRevoked(ctx context.Context, tokenHash [32]byte) (bool, error) {
	n, err := s.redis.Exists(ctx, s.key(tokenHash)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", errRevocationRedisUnavailable, err)
	}
	return n > 0, nil
}
