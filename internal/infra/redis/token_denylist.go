package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"globetrotter/internal/domain"
)

// TokenDenylist marks revoked token ids with a key that expires together with
// the token, so the list never outgrows the set of live tokens.
type TokenDenylist struct {
	client *redis.Client
	now    func() time.Time
}

func NewTokenDenylist(client *redis.Client) *TokenDenylist {
	return &TokenDenylist{client: client, now: time.Now}
}

func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	if !until.After(d.now()) {
		return nil
	}
	err := d.client.SetArgs(ctx, revokedKey(tokenID), "1", redis.SetArgs{ExpireAt: until}).Err()
	if err != nil {
		return domain.Upstream("redis revoke token", err)
	}
	return nil
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		return false, domain.Upstream("redis check token", err)
	}
	return n > 0, nil
}

func revokedKey(tokenID string) string {
	return "token:revoked:" + tokenID
}
