package querycache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreQuery_CachesByKey(t *testing.T) {
	t.Parallel()

	s := New(0)
	ctx := context.Background()

	calls := 0
	fetch := func(context.Context) (any, error) {
		calls++
		return "page-one", nil
	}

	key := ListKey("users", 1, "")
	res := s.Query(ctx, key, fetch)
	require.NoError(t, res.Err)
	assert.Equal(t, "page-one", res.Data)

	res = s.Query(ctx, key, fetch)
	require.NoError(t, res.Err)
	assert.Equal(t, "page-one", res.Data)
	assert.Equal(t, 1, calls)
}

func TestStoreQuery_DistinctKeysFetchSeparately(t *testing.T) {
	t.Parallel()

	s := New(0)
	ctx := context.Background()

	calls := 0
	fetch := func(context.Context) (any, error) {
		calls++
		return calls, nil
	}

	r1 := s.Query(ctx, ListKey("users", 1, ""), fetch)
	r2 := s.Query(ctx, ListKey("users", 2, ""), fetch)
	r3 := s.Query(ctx, ListKey("users", 1, "eng"), fetch)
	r4 := s.Query(ctx, DetailKey("users", "u1"), fetch)

	require.NoError(t, r1.Err)
	assert.Equal(t, 4, calls)
	assert.NotEqual(t, r1.Data, r2.Data)
	assert.NotEqual(t, r1.Data, r3.Data)
	assert.NotEqual(t, r1.Data, r4.Data)
}

func TestStoreQuery_ConcurrentReadsShareOneFetch(t *testing.T) {
	t.Parallel()

	s := New(0)
	key := ListKey("roles", 1, "")

	var calls int32
	release := make(chan struct{})
	fetch := func(context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "shared", nil
	}

	var wg sync.WaitGroup
	results := make([]Result, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.Query(context.Background(), key, fetch)
		}(i)
	}

	// Let all readers join the flight before it resolves.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, res := range results {
		require.NoError(t, res.Err)
		assert.Equal(t, "shared", res.Data)
	}
}

func TestStoreQuery_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	s := New(0)
	ctx := context.Background()
	key := ListKey("users", 1, "")

	calls := 0
	fetch := func(context.Context) (any, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("boom")
		}
		return "recovered", nil
	}

	res := s.Query(ctx, key, fetch)
	require.Error(t, res.Err)

	res = s.Query(ctx, key, fetch)
	require.NoError(t, res.Err)
	assert.Equal(t, "recovered", res.Data)
	assert.Equal(t, 2, calls)
}

func TestStoreQuery_StaleHitReturnsCachedAndRefreshes(t *testing.T) {
	t.Parallel()

	s := New(10 * time.Millisecond)
	ctx := context.Background()
	key := ListKey("users", 1, "")

	calls := 0
	done := make(chan struct{}, 1)
	fetch := func(context.Context) (any, error) {
		calls++
		if calls > 1 {
			select {
			case done <- struct{}{}:
			default:
			}
			return "fresh", nil
		}
		return "old", nil
	}

	res := s.Query(ctx, key, fetch)
	require.NoError(t, res.Err)
	assert.False(t, res.Stale)

	time.Sleep(20 * time.Millisecond)

	// Stale access does not block on the refresh.
	res = s.Query(ctx, key, fetch)
	require.NoError(t, res.Err)
	assert.Equal(t, "old", res.Data)
	assert.True(t, res.Stale)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("background refresh never ran")
	}

	// The refreshed value lands on a later read.
	assert.Eventually(t, func() bool {
		return s.Query(ctx, key, fetch).Data == "fresh"
	}, time.Second, 5*time.Millisecond)
}

func TestStoreInvalidateLists_ForcesRefetchAcrossPagesAndSearches(t *testing.T) {
	t.Parallel()

	s := New(0)
	ctx := context.Background()

	calls := 0
	fetch := func(context.Context) (any, error) {
		calls++
		return calls, nil
	}

	keys := []Key{
		ListKey("users", 1, ""),
		ListKey("users", 2, ""),
		ListKey("users", 1, "eng"),
	}
	for _, key := range keys {
		s.Query(ctx, key, fetch)
	}
	detail := s.Query(ctx, DetailKey("users", "u1"), fetch)
	otherKind := s.Query(ctx, ListKey("roles", 1, ""), fetch)
	require.Equal(t, 5, calls)

	s.InvalidateLists("users")

	for _, key := range keys {
		s.Query(ctx, key, fetch)
	}
	assert.Equal(t, 8, calls)

	// Detail entries and other kinds are untouched.
	assert.Equal(t, detail.Data, s.Query(ctx, DetailKey("users", "u1"), fetch).Data)
	assert.Equal(t, otherKind.Data, s.Query(ctx, ListKey("roles", 1, ""), fetch).Data)
	assert.Equal(t, 8, calls)
}

func TestStoreInvalidateDetail_OnlyAffectsThatID(t *testing.T) {
	t.Parallel()

	s := New(0)
	ctx := context.Background()

	calls := 0
	fetch := func(context.Context) (any, error) {
		calls++
		return calls, nil
	}

	s.Query(ctx, DetailKey("roles", "r1"), fetch)
	kept := s.Query(ctx, DetailKey("roles", "r2"), fetch)

	s.InvalidateDetail("roles", "r1")

	s.Query(ctx, DetailKey("roles", "r1"), fetch)
	assert.Equal(t, 3, calls)
	assert.Equal(t, kept.Data, s.Query(ctx, DetailKey("roles", "r2"), fetch).Data)
}

func TestStoreQuery_FetchStartedBeforeInvalidationIsDiscarded(t *testing.T) {
	t.Parallel()

	s := New(0)
	key := ListKey("users", 1, "")

	release := make(chan struct{})
	started := make(chan struct{})
	slowFetch := func(context.Context) (any, error) {
		close(started)
		<-release
		return "pre-invalidation", nil
	}

	resCh := make(chan Result, 1)
	go func() {
		resCh <- s.Query(context.Background(), key, slowFetch)
	}()
	<-started

	// Invalidate while the fetch is mid-flight.
	s.InvalidateLists("users")
	close(release)

	// The original reader still gets the value it asked for.
	res := <-resCh
	require.NoError(t, res.Err)
	assert.Equal(t, "pre-invalidation", res.Data)

	// But a read after the invalidation must not see the stale result.
	fresh := s.Query(context.Background(), key, func(context.Context) (any, error) {
		return "post-invalidation", nil
	})
	require.NoError(t, fresh.Err)
	assert.Equal(t, "post-invalidation", fresh.Data)
}

func TestGet_TypedFetch(t *testing.T) {
	t.Parallel()

	s := New(0)
	ctx := context.Background()

	got, stale, err := Get(ctx, s, ListKey("users", 1, ""), func(context.Context) ([]string, error) {
		return []string{"a", "b"}, nil
	})
	require.NoError(t, err)
	assert.False(t, stale)
	assert.Equal(t, []string{"a", "b"}, got)

	// A different value type under the same key surfaces as an error rather
	// than a bad assertion.
	_, _, err = Get(ctx, s, ListKey("users", 1, ""), func(context.Context) (int, error) {
		return 0, nil
	})
	require.Error(t, err)
}
