package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist revokes outstanding tokens of suspended accounts, backed by
// Redis. Entries carry a TTL matching the token lifetime, so they expire
// once every token issued before the suspension has expired anyway.
// Key format: denylist:<user_id>
type Denylist struct {
	client *redis.Client
}

// NewDenylist creates a Denylist wrapping the given Redis client.
func NewDenylist(client *redis.Client) *Denylist {
	return &Denylist{client: client}
}

// Add marks the account's tokens revoked for ttl.
func (d *Denylist) Add(ctx context.Context, userID string, ttl time.Duration) error {
	return d.client.Set(ctx, d.key(userID), "1", ttl).Err()
}

// Remove lifts the revocation, used when an account is allowed again.
func (d *Denylist) Remove(ctx context.Context, userID string) error {
	return d.client.Del(ctx, d.key(userID)).Err()
}

// Contains reports whether the account's tokens are currently revoked.
func (d *Denylist) Contains(ctx context.Context, userID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("denylist check: %w", err)
	}
	return n > 0, nil
}

func (d *Denylist) key(userID string) string {
	return "denylist:" + userID
}
