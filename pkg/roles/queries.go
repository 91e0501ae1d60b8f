package roles

import (
	"context"

	"github.com/crewdesk/crewdesk/pkg/models"
	"github.com/crewdesk/crewdesk/pkg/querycache"
)

// Queries routes role reads through the cache store and wraps role writes in
// mutations that invalidate the affected keys on success.
type Queries struct {
	store  *querycache.Store
	client *Client
}

// NewQueries creates the cached query layer for roles.
func NewQueries(store *querycache.Store, client *Client) *Queries {
	return &Queries{store: store, client: client}
}

// List reads one page of roles through the cache.
func (q *Queries) List(ctx context.Context, page int, search string) (models.Page[models.Role], bool, error) {
	return querycache.Get(ctx, q.store, ListKey(page, search), func(ctx context.Context) (models.Page[models.Role], error) {
		return q.client.List(ctx, page, search)
	})
}

// Retrieve reads a single role through the cache.
func (q *Queries) Retrieve(ctx context.Context, id string) (*models.Role, bool, error) {
	return querycache.Get(ctx, q.store, DetailKey(id), func(ctx context.Context) (*models.Role, error) {
		return q.client.Retrieve(ctx, id)
	})
}

// Create creates a role and invalidates every roles list key on success.
func (q *Queries) Create(ctx context.Context, payload CreateRolePayload, onSuccess func(*models.Role), onError func(error)) (*models.Role, error) {
	m := &querycache.Mutation[*models.Role]{
		Store: q.store,
		Kind:  models.KindRoles,
		Run: func(ctx context.Context) (*models.Role, error) {
			return q.client.Create(ctx, payload)
		},
		OnSuccess: onSuccess,
		OnError:   onError,
	}
	return m.Do(ctx)
}

// Update patches a role and invalidates the roles list keys plus the role's
// detail key on success.
func (q *Queries) Update(ctx context.Context, id string, payload UpdateRolePayload, onSuccess func(*models.Role), onError func(error)) (*models.Role, error) {
	m := &querycache.Mutation[*models.Role]{
		Store: q.store,
		Kind:  models.KindRoles,
		Run: func(ctx context.Context) (*models.Role, error) {
			return q.client.Update(ctx, id, payload)
		},
		EntityID:  roleID,
		OnSuccess: onSuccess,
		OnError:   onError,
	}
	return m.Do(ctx)
}

// Delete removes a role and invalidates the roles list keys plus the role's
// detail key on success.
func (q *Queries) Delete(ctx context.Context, id string, onSuccess func(*models.Role), onError func(error)) (*models.Role, error) {
	m := &querycache.Mutation[*models.Role]{
		Store: q.store,
		Kind:  models.KindRoles,
		Run: func(ctx context.Context) (*models.Role, error) {
			return q.client.Delete(ctx, id)
		},
		EntityID:  roleID,
		OnSuccess: onSuccess,
		OnError:   onError,
	}
	return m.Do(ctx)
}

func roleID(r *models.Role) string {
	if r == nil {
		return ""
	}
	return r.ID
}
