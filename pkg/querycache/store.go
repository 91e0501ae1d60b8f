package querycache

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// DefaultTTL is the freshness window after which a cached value is served
// stale and refreshed in the background on its next access.
const DefaultTTL = 5 * time.Minute

// FetchFunc resolves the value for a key, usually via the API client.
type FetchFunc func(ctx context.Context) (any, error)

// Result is the outcome of a read. Err is carried as a field rather than
// panicking so views can render an error state without crashing.
type Result struct {
	Data  any
	Err   error
	Stale bool
}

// flight is one in-progress fetch, shared by every reader of the same key
// that arrives while it runs.
type flight struct {
	done chan struct{}
	data any
	err  error
}

type entry struct {
	data      any
	hasData   bool
	fetchedAt time.Time
	flight    *flight
}

// Store is a keyed cache of list and detail reads with mutation-driven
// invalidation. It is an explicit object passed by reference to its callers;
// there is no package-level instance.
//
// Concurrent reads of the same key share one underlying fetch. Invalidation
// bumps a per-key generation so a fetch started before the invalidation can
// never repopulate the entry afterwards: its result is discarded and the next
// read fetches fresh.
type Store struct {
	mu      sync.Mutex
	entries map[Key]*entry
	gens    map[Key]uint64
	ttl     time.Duration
}

// New creates a store. A ttl of zero uses DefaultTTL.
func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		entries: map[Key]*entry{},
		gens:    map[Key]uint64{},
		ttl:     ttl,
	}
}

// Query resolves key through the cache. A fresh hit returns immediately; a
// stale hit returns the cached value and kicks a background refresh; a miss
// blocks on the fetch (joining an in-flight one when present). Fetch errors
// are not cached, so the next read retries.
func (s *Store) Query(ctx context.Context, key Key, fetch FetchFunc) Result {
	s.mu.Lock()

	e := s.entries[key]
	if e == nil {
		e = &entry{}
		s.entries[key] = e
	}

	if e.hasData {
		stale := time.Since(e.fetchedAt) >= s.ttl
		if stale && e.flight == nil {
			s.startFetchLocked(context.Background(), key, e, fetch)
		}
		res := Result{Data: e.data, Stale: stale}
		s.mu.Unlock()
		return res
	}

	if e.flight == nil {
		s.startFetchLocked(ctx, key, e, fetch)
	}
	f := e.flight
	s.mu.Unlock()

	select {
	case <-f.done:
	case <-ctx.Done():
		return Result{Err: errors.WithStack(ctx.Err())}
	}

	return Result{Data: f.data, Err: f.err}
}

// startFetchLocked launches a fetch for key under the current generation.
// Callers must hold s.mu.
func (s *Store) startFetchLocked(ctx context.Context, key Key, e *entry, fetch FetchFunc) {
	gen := s.gens[key]
	f := &flight{done: make(chan struct{})}
	e.flight = f

	go func() {
		data, err := fetch(ctx)
		f.data, f.err = data, err

		s.mu.Lock()
		cur := s.entries[key]
		if s.gens[key] == gen && cur != nil && cur.flight == f {
			cur.flight = nil
			if err == nil {
				cur.data = data
				cur.hasData = true
				cur.fetchedAt = time.Now()
			} else if !cur.hasData {
				delete(s.entries, key)
			}
		}
		s.mu.Unlock()

		close(f.done)
	}()
}

// InvalidateLists marks every list entry of kind stale, across all pages and
// search variants, forcing the next read of each to re-fetch.
func (s *Store) InvalidateLists(kind string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.entries {
		if key.Kind == kind && key.Op == OpList {
			s.invalidateLocked(key)
		}
	}
}

// InvalidateDetail marks the detail entry for (kind, id) stale.
func (s *Store) InvalidateDetail(kind, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidateLocked(DetailKey(kind, id))
}

func (s *Store) invalidateLocked(key Key) {
	s.gens[key]++
	delete(s.entries, key)
}

// Len reports the number of populated or in-flight entries. Test helper.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Get resolves key through the store with a typed fetch.
func Get[T any](ctx context.Context, s *Store, key Key, fetch func(ctx context.Context) (T, error)) (T, bool, error) {
	res := s.Query(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if res.Err != nil {
		var zero T
		return zero, false, res.Err
	}

	v, ok := res.Data.(T)
	if !ok {
		var zero T
		return zero, false, errors.Errorf("unexpected cached type %T for key %s", res.Data, key)
	}
	return v, res.Stale, nil
}
