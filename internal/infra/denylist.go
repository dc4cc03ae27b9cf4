package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistPrefix = "denylist:"

// TokenDenylist records logged-out token ids in Redis until their natural
// expiry. The auth middleware consults it on every protected request.
type TokenDenylist struct {
	rdb *redis.Client
}

func NewTokenDenylist(rdb *redis.Client) *TokenDenylist {
	return &TokenDenylist{rdb: rdb}
}

// Revoke stores the token id with a TTL matching the token's remaining
// lifetime; after that the key expires on its own.
func (d *TokenDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired tokens need no entry
	}
	return d.rdb.Set(ctx, denylistPrefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether the token id has been logged out.
func (d *TokenDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.rdb.Exists(ctx, denylistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
