package users

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/crewdesk/crewdesk/pkg/apiclient"
	"github.com/crewdesk/crewdesk/pkg/models"
)

// Client wraps the upstream /users endpoints. All operations funnel through
// the shared API client and propagate its error contract unchanged.
type Client struct {
	api *apiclient.Client
}

// NewClient creates a users API client.
func NewClient(api *apiclient.Client) *Client {
	return &Client{api: api}
}

// List fetches one page of users. Page defaults to 1; search is omitted from
// the query string when empty.
func (c *Client) List(ctx context.Context, page int, search string) (models.Page[models.User], error) {
	if page < 1 {
		page = 1
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if search != "" {
		q.Set("search", search)
	}

	var out models.Page[models.User]
	err := c.api.Do(ctx, http.MethodGet, "/users", q, nil, &out)
	return out, err
}

// Retrieve fetches a single user by id.
func (c *Client) Retrieve(ctx context.Context, id string) (*models.User, error) {
	out := &models.User{}
	if err := c.api.Do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create creates a user; the server assigns id and timestamps.
func (c *Client) Create(ctx context.Context, payload CreateUserPayload) (*models.User, error) {
	out := &models.User{}
	if err := c.api.Do(ctx, http.MethodPost, "/users", nil, payload, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update patches a user with only the changed fields; the server merges.
func (c *Client) Update(ctx context.Context, id string, payload UpdateUserPayload) (*models.User, error) {
	out := &models.User{}
	if err := c.api.Do(ctx, http.MethodPatch, "/users/"+url.PathEscape(id), nil, payload, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a user and returns the deleted record for confirmation
// messaging.
func (c *Client) Delete(ctx context.Context, id string) (*models.User, error) {
	out := &models.User{}
	if err := c.api.Do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}
