package services

import (
	"context"
	"time"
)

// FallbackPolicy governs the two-tier persistence pattern shared by the
// schedule and review services: prefer the remote backend, mirror
// successful writes into the local store, and fall back to the local store
// when the remote fails or a read comes back empty. Keeping the knobs in
// one place makes the fallback semantics testable instead of being inlined
// per operation.
type FallbackPolicy struct {
	// PreferRemote attempts the remote backend first when one is wired
	PreferRemote bool

	// MirrorOnWrite copies successful remote writes into the local store
	// (best-effort; mirror failures are logged, not surfaced)
	MirrorOnWrite bool

	// FallbackOnEmptyRead treats an empty remote result set as "no data
	// remotely" and reads the local store instead. Writes stay asymmetric:
	// a remote write failure never retries the remote.
	FallbackOnEmptyRead bool

	// RemoteTimeout bounds every remote call; on expiry the call counts as
	// a remote failure and the local tier takes over
	RemoteTimeout time.Duration
}

// DefaultFallbackPolicy returns the production policy
func DefaultFallbackPolicy() FallbackPolicy {
	return FallbackPolicy{
		PreferRemote:        true,
		MirrorOnWrite:       true,
		FallbackOnEmptyRead: true,
		RemoteTimeout:       5 * time.Second,
	}
}

// remoteContext derives the bounded context for one remote call
func (p FallbackPolicy) remoteContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.RemoteTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.RemoteTimeout)
}
