package users

import (
	"context"

	"github.com/crewdesk/crewdesk/pkg/models"
	"github.com/crewdesk/crewdesk/pkg/querycache"
)

// Queries routes user reads through the cache store and wraps user writes in
// mutations that invalidate the affected keys on success.
type Queries struct {
	store  *querycache.Store
	client *Client
}

// NewQueries creates the cached query layer for users.
func NewQueries(store *querycache.Store, client *Client) *Queries {
	return &Queries{store: store, client: client}
}

// List reads one page of users through the cache.
func (q *Queries) List(ctx context.Context, page int, search string) (models.Page[models.User], bool, error) {
	return querycache.Get(ctx, q.store, ListKey(page, search), func(ctx context.Context) (models.Page[models.User], error) {
		return q.client.List(ctx, page, search)
	})
}

// Retrieve reads a single user through the cache.
func (q *Queries) Retrieve(ctx context.Context, id string) (*models.User, bool, error) {
	return querycache.Get(ctx, q.store, DetailKey(id), func(ctx context.Context) (*models.User, error) {
		return q.client.Retrieve(ctx, id)
	})
}

// Create creates a user and invalidates every users list key on success.
func (q *Queries) Create(ctx context.Context, payload CreateUserPayload, onSuccess func(*models.User), onError func(error)) (*models.User, error) {
	m := &querycache.Mutation[*models.User]{
		Store: q.store,
		Kind:  models.KindUsers,
		Run: func(ctx context.Context) (*models.User, error) {
			return q.client.Create(ctx, payload)
		},
		OnSuccess: onSuccess,
		OnError:   onError,
	}
	return m.Do(ctx)
}

// Update patches a user and invalidates the users list keys plus the user's
// detail key on success.
func (q *Queries) Update(ctx context.Context, id string, payload UpdateUserPayload, onSuccess func(*models.User), onError func(error)) (*models.User, error) {
	m := &querycache.Mutation[*models.User]{
		Store: q.store,
		Kind:  models.KindUsers,
		Run: func(ctx context.Context) (*models.User, error) {
			return q.client.Update(ctx, id, payload)
		},
		EntityID:  userID,
		OnSuccess: onSuccess,
		OnError:   onError,
	}
	return m.Do(ctx)
}

// Delete removes a user and invalidates the users list keys plus the user's
// detail key on success.
func (q *Queries) Delete(ctx context.Context, id string, onSuccess func(*models.User), onError func(error)) (*models.User, error) {
	m := &querycache.Mutation[*models.User]{
		Store: q.store,
		Kind:  models.KindUsers,
		Run: func(ctx context.Context) (*models.User, error) {
			return q.client.Delete(ctx, id)
		},
		EntityID:  userID,
		OnSuccess: onSuccess,
		OnError:   onError,
	}
	return m.Do(ctx)
}

func userID(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}
