package authkit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hearthside/authkit/internal"
)

func TestRevocationStoreRevokeAndCheck(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	store := newRevocationStore(rdb, DefaultConfig().Revocation)
	hash := internal.HashString("some-token")

	revoked, err := store.IsRevoked(ctx, hash)
	if err != nil {
		t.Fatalf("IsRevoked failed: %v", err)
	}
	if revoked {
		t.Fatal("expected fresh token to be unrevoked")
	}

	if err := store.Revoke(ctx, hash, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	revoked, err = store.IsRevoked(ctx, hash)
	if err != nil {
		t.Fatalf("IsRevoked failed: %v", err)
	}
	if !revoked {
		t.Fatal("expected token to be revoked")
	}
}

func TestRevocationStoreExpiredTokenIsNoOp(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	store := newRevocationStore(rdb, DefaultConfig().Revocation)
	hash := internal.HashString("stale-token")

	// A token past its own expiry needs no blacklist entry.
	if err := store.Revoke(ctx, hash, time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if len(mr.Keys()) != 0 {
		t.Fatal("expected no record for an already expired token")
	}
}

func TestRevocationStoreTTLNeverOutlivesToken(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	store := newRevocationStore(rdb, DefaultConfig().Revocation)
	hash := internal.HashString("short-lived-token")

	if err := store.Revoke(ctx, hash, time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	keys := mr.Keys()
	if len(keys) != 1 {
		t.Fatalf("expected one record, got %d", len(keys))
	}
	if ttl := mr.TTL(keys[0]); ttl > time.Minute {
		t.Fatalf("expected TTL capped at token expiry, got %v", ttl)
	}
}

func TestRevocationStoreTTLCappedByConfig(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	cfg := DefaultConfig().Revocation
	cfg.TTL = time.Hour
	store := newRevocationStore(rdb, cfg)
	hash := internal.HashString("long-lived-token")

	if err := store.Revoke(ctx, hash, time.Now().Add(100*time.Hour)); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	keys := mr.Keys()
	if len(keys) != 1 {
		t.Fatalf("expected one record, got %d", len(keys))
	}
	if ttl := mr.TTL(keys[0]); ttl > time.Hour {
		t.Fatalf("expected TTL capped by config, got %v", ttl)
	}
}

func TestRevocationStoreRedisUnavailable(t *testing.T) {
	mr, rdb := newTestRedis(t)
	store := newRevocationStore(rdb, DefaultConfig().Revocation)
	mr.Close()

	ctx := context.Background()
	hash := internal.HashString("some-token")

	if err := store.Revoke(ctx, hash, time.Now().Add(time.Hour)); !errors.Is(err, errRevocationRedisUnavailable) {
		t.Fatalf("expected errRevocationRedisUnavailable from Revoke, got %v", err)
	}
	if _, err := store.IsRevoked(ctx, hash); !errors.Is(err, errRevocationRedisUnavailable) {
		t.Fatalf("expected errRevocationRedisUnavailable from IsRevoked, got %v", err)
	}
}
