package ratelimit

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const (
	keySyncRunLock    = "sync:run:lock"
	defaultSyncRunTTL = 30 * time.Minute
	minimumSyncRunTTL = time.Minute
)

// SyncGuard prevents overlapping full-sync runs across process instances.
// Without a redis client it degrades to a no-op and the in-process
// single-flight guard is the only protection.
type SyncGuard struct {
	locker *Locker
	ttl    time.Duration
}

func NewSyncGuard(client *redis.Client) *SyncGuard {
	return &SyncGuard{
		locker: NewLocker(client),
		ttl:    defaultSyncRunTTL,
	}
}

func (g *SyncGuard) Enabled() bool {
	return g != nil && g.locker != nil
}

// Acquire takes the cross-instance run lock, returning the release token.
// ok=false means another instance holds it.
func (g *SyncGuard) Acquire(ctx context.Context) (string, bool, error) {
	if !g.Enabled() {
		return "", true, nil
	}
	ttl := g.ttl
	if ttl < minimumSyncRunTTL {
		ttl = minimumSyncRunTTL
	}
	return g.locker.TryLock(ctx, keySyncRunLock, ttl)
}

func (g *SyncGuard) Release(ctx context.Context, token string) error {
	if !g.Enabled() {
		return nil
	}
	return g.locker.Release(ctx, keySyncRunLock, token)
}
