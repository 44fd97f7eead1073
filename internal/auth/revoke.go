package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist revokes individual session tokens before their natural expiry.
// Entries are keyed by token ID and live exactly as long as the token would
// have, so the set stays bounded without a sweeper.
type Denylist struct {
	client *redis.Client
	now    func() time.Time
}

// NewDenylist constructs a Denylist backed by the given Redis client.
func NewDenylist(client *redis.Client) *Denylist {
	return &Denylist{client: client, now: time.Now}
}

func (d *Denylist) key(tokenID string) string {
	return "revoked:" + tokenID
}

// Revoke marks the token ID as invalid until the given expiry.
func (d *Denylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if d.now != nil {
		ttl = expiresAt.Sub(d.now())
	}
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, d.key(tokenID), "1", ttl).Err()
}

// IsRevoked reports whether the token ID has been revoked. A store failure is
// returned to the caller, which must deny: uncertainty never grants access.
func (d *Denylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := d.client.Get(ctx, d.key(tokenID)).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
