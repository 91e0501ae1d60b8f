package roles

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/crewdesk/crewdesk/pkg/apiclient"
	"github.com/crewdesk/crewdesk/pkg/models"
)

// Client wraps the upstream /roles endpoints.
type Client struct {
	api *apiclient.Client
}

// NewClient creates a roles API client.
func NewClient(api *apiclient.Client) *Client {
	return &Client{api: api}
}

// List fetches one page of roles. Page defaults to 1; search is omitted from
// the query string when empty.
func (c *Client) List(ctx context.Context, page int, search string) (models.Page[models.Role], error) {
	if page < 1 {
		page = 1
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if search != "" {
		q.Set("search", search)
	}

	var out models.Page[models.Role]
	err := c.api.Do(ctx, http.MethodGet, "/roles", q, nil, &out)
	return out, err
}

// Retrieve fetches a single role by id.
func (c *Client) Retrieve(ctx context.Context, id string) (*models.Role, error) {
	out := &models.Role{}
	if err := c.api.Do(ctx, http.MethodGet, "/roles/"+url.PathEscape(id), nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create creates a role. IsDefault defaults to false when omitted.
func (c *Client) Create(ctx context.Context, payload CreateRolePayload) (*models.Role, error) {
	out := &models.Role{}
	if err := c.api.Do(ctx, http.MethodPost, "/roles", nil, payload, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update patches a role with only the changed fields.
func (c *Client) Update(ctx context.Context, id string, payload UpdateRolePayload) (*models.Role, error) {
	out := &models.Role{}
	if err := c.api.Do(ctx, http.MethodPatch, "/roles/"+url.PathEscape(id), nil, payload, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a role and returns the deleted record. The server rejects
// deleting the default role; the console additionally guards this client-side
// before ever issuing the request.
func (c *Client) Delete(ctx context.Context, id string) (*models.Role, error) {
	out := &models.Role{}
	if err := c.api.Do(ctx, http.MethodDelete, "/roles/"+url.PathEscape(id), nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}
