package querycache

import "context"

// Mutation wraps one write against the upstream API together with the cache
// invalidation that must follow it. On success every list key of Kind is
// invalidated, plus the detail key for the affected id; subsequent reads
// re-fetch rather than serve stale data. There is no optimistic patching of
// cached lists and no automatic retry.
type Mutation[T any] struct {
	Store *Store
	Kind  string

	// Run performs the write itself.
	Run func(ctx context.Context) (T, error)

	// EntityID extracts the affected record's id from the result. Optional;
	// when nil or returning "", only list keys are invalidated.
	EntityID func(T) string

	OnSuccess func(T)
	OnError   func(error)
}

// Do executes the mutation. A failed mutation leaves the cache untouched and
// invokes OnError with the propagated error.
func (m *Mutation[T]) Do(ctx context.Context) (T, error) {
	v, err := m.Run(ctx)
	if err != nil {
		if m.OnError != nil {
			m.OnError(err)
		}
		return v, err
	}

	m.Store.InvalidateLists(m.Kind)
	if m.EntityID != nil {
		if id := m.EntityID(v); id != "" {
			m.Store.InvalidateDetail(m.Kind, id)
		}
	}

	if m.OnSuccess != nil {
		m.OnSuccess(v)
	}
	return v, nil
}
