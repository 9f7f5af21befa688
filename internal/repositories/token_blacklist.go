package repositories

import (
	"context"
	"sync"
	"time"
)

// TokenBlacklist records signed-out tokens by their ID until they expire.
type TokenBlacklist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// MockTokenBlacklist is an in-memory implementation of TokenBlacklist.
type MockTokenBlacklist struct {
	revoked map[string]time.Time
	mu      sync.Mutex
	now     func() time.Time
}

// NewMockTokenBlacklist creates a new instance of MockTokenBlacklist.
func NewMockTokenBlacklist() *MockTokenBlacklist {
	return &MockTokenBlacklist{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke blacklists tokenID until the given time.
func (b *MockTokenBlacklist) Revoke(_ context.Context, tokenID string, until time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !until.After(b.now()) {
		return nil
	}
	b.revoked[tokenID] = until
	return nil
}

// IsRevoked reports whether tokenID is blacklisted. Expired entries are dropped.
func (b *MockTokenBlacklist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	until, ok := b.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if !until.After(b.now()) {
		delete(b.revoked, tokenID)
		return false, nil
	}
	return true, nil
}
