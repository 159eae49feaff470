package memory

import (
	"context"
	"sync"
	"time"
)

// TokenDenylist keeps revoked token ids until their expiry passes.
type TokenDenylist struct {
	clock func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewTokenDenylist() *TokenDenylist {
	return &TokenDenylist{clock: time.Now, revoked: make(map[string]time.Time)}
}

func (d *TokenDenylist) Revoke(_ context.Context, tokenID string, until time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[tokenID] = until
	return nil
}

func (d *TokenDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	until, ok := d.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if !until.After(d.clock()) {
		delete(d.revoked, tokenID)
		return false, nil
	}
	return true, nil
}

// Reap drops entries whose tokens have expired anyway.
func (d *TokenDenylist) Reap(now time.Time) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	removed := 0
	for id, until := range d.revoked {
		if !until.After(now) {
			delete(d.revoked, id)
			removed++
		}
	}
	return removed
}
