package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Group ties the store and the in-flight registry together for one or
// more domains. Concurrent callers hitting the same cold key share a
// single upstream call instead of racing to the provider.
type Group struct {
	store *Store
	sf    singleflight.Group
	log   zerolog.Logger
	now   func() time.Time
}

// NewGroup returns a Group backed by store.
func NewGroup(store *Store, log zerolog.Logger) *Group {
	return &Group{store: store, log: log, now: time.Now}
}

// Store exposes the underlying cache, mainly for tests and diagnostics.
func (g *Group) Store() *Store { return g.store }

type fetchResult struct {
	value any
	stale bool
}

// fetch is the untyped core of the facade. On a fresh hit it returns the
// cached value without touching the network. On a miss it runs fn through
// singleflight, stores the result with ttl, and falls back to a stale
// entry of any age if fn fails. Only when no entry has ever existed does
// the failure propagate.
//
// The flight itself runs on a context detached from the initiating
// caller: a caller abandoning its own request must not kill an upstream
// call that other waiters on the same key are sharing. The abandoning
// caller gets its ctx error back, the flight keeps going.
func (g *Group) fetch(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) (any, error)) (any, bool, error) {
	if e, ok := g.store.Get(key); ok && e.Fresh(g.now()) {
		return e.Value, false, nil
	}

	flightCtx := context.WithoutCancel(ctx)
	ch := g.sf.DoChan(key, func() (any, error) {
		// A concurrent caller may have refreshed the entry while we
		// waited on the flight lock.
		if e, ok := g.store.Get(key); ok && e.Fresh(g.now()) {
			return fetchResult{value: e.Value}, nil
		}
		value, err := fn(flightCtx)
		if err != nil {
			if e, ok := g.store.Get(key); ok {
				g.log.Warn().
					Str("key", key).
					Dur("age", e.Age(g.now())).
					Err(err).
					Msg("upstream failed, serving stale cache entry")
				return fetchResult{value: e.Value, stale: true}, nil
			}
			return nil, fmt.Errorf("%w: %w", ErrNoData, err)
		}
		g.store.Put(key, value, ttl)
		return fetchResult{value: value}, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, false, r.Err
		}
		res := r.Val.(fetchResult)
		return res.value, res.stale, nil
	}
}

// Fetch returns the value for key, refreshing it through fn when no fresh
// entry exists. Stale reports whether the returned value outlived its TTL
// and was served only because the refresh failed. fn receives a context
// that outlives ctx's cancellation, so coalesced callers are not poisoned
// when the caller that started the flight goes away.
func Fetch[T any](ctx context.Context, g *Group, key string, ttl time.Duration, fn func(ctx context.Context) (T, error)) (value T, stale bool, err error) {
	v, stale, err := g.fetch(ctx, key, ttl, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return value, false, err
	}
	return v.(T), stale, nil
}
