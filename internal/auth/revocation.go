package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/cache"
)

// Revoker keeps a denylist of signed-out session ids. Entries expire when the
// session's refresh token would have.
type Revoker struct {
	cache      cache.Cache
	refreshTTL time.Duration
	now        func() time.Time
}

// NewRevoker returns a revoker backed by c. refreshTTL must match the one the
// JWTManager issues refresh tokens with.
func NewRevoker(c cache.Cache, refreshTTL time.Duration) *Revoker {
	return &Revoker{cache: c, refreshTTL: refreshTTL, now: time.Now}
}

func revokedKey(sessionID string) string { return "revoked_session:" + sessionID }

// Revoke signs out the session the claims belong to.
func (r *Revoker) Revoke(ctx context.Context, claims *Claims) error {
	ttl := claims.Remaining(r.now())
	if claims.IssuedAt != nil {
		ttl = claims.IssuedAt.Time.Add(r.refreshTTL).Sub(r.now())
	}
	if ttl <= 0 {
		return nil
	}
	if err := r.cache.Set(ctx, revokedKey(claims.ID), "1", ttl); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// IsRevoked reports whether the session was signed out.
func (r *Revoker) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	_, err := r.cache.Get(ctx, revokedKey(sessionID))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, cache.ErrMiss):
		return false, nil
	default:
		return false, fmt.Errorf("check session: %w", err)
	}
}
