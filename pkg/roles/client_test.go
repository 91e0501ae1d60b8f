package roles

import (
	"context"
	"net/http"
	"testing"

	"github.com/crewdesk/crewdesk/pkg/apiclient"
	"github.com/crewdesk/crewdesk/pkg/errcodes"
	"github.com/crewdesk/crewdesk/pkg/testutils"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *testutils.FakeAPI) {
	t.Helper()

	api := testutils.NewFakeAPI()
	srv := api.Start(t)
	return NewClient(apiclient.New(srv.URL, 0)), api
}

func TestClientList_SearchMatchesNameAndDescription(t *testing.T) {
	t.Parallel()

	c, api := newTestClient(t)
	api.SeedRole("Engineering", "", false)
	api.SeedRole("Support", "Handles engagements", false)
	api.SeedRole("Sales", "", false)

	// Case-insensitive match against name or description.
	got, err := c.List(context.Background(), 1, "ENG")
	require.NoError(t, err)

	require.Len(t, got.Data, 2)
	names := []string{got.Data[0].Name, got.Data[1].Name}
	assert.Contains(t, names, "Engineering")
	assert.Contains(t, names, "Support")
	assert.Nil(t, got.Prev)
	assert.Nil(t, got.Next)
	assert.Equal(t, 1, got.Pages)
}

func TestClientList_PaginationBoundaries(t *testing.T) {
	t.Parallel()

	c, api := newTestClient(t)
	api.PageSize = 2
	for _, name := range []string{"Admin", "Editor", "Viewer", "Support", "Sales"} {
		api.SeedRole(name, "", false)
	}

	first, err := c.List(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Nil(t, first.Prev)
	require.NotNil(t, first.Next)
	assert.Equal(t, 2, *first.Next)
	assert.Equal(t, 3, first.Pages)
	assert.Len(t, first.Data, 2)

	last, err := c.List(context.Background(), 3, "")
	require.NoError(t, err)
	require.NotNil(t, last.Prev)
	assert.Equal(t, 2, *last.Prev)
	assert.Nil(t, last.Next)
	assert.Len(t, last.Data, 1)
}

func TestClientCreate_IsDefaultDefaultsFalse(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t)

	role, err := c.Create(context.Background(), CreateRolePayload{Name: "Editor"})
	require.NoError(t, err)
	assert.False(t, role.IsDefault)
	assert.Nil(t, role.Description)
}

func TestClientDelete_DefaultRoleRejectedByServer(t *testing.T) {
	t.Parallel()

	c, api := newTestClient(t)
	role := api.SeedRole("Member", "", true)

	_, err := c.Delete(context.Background(), role.ID)
	require.Error(t, err)

	var e *errcodes.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "validation_error", e.Code)
	assert.Equal(t, "Cannot delete the default role", e.Message)
}

func TestClientRetrieve_NotFound(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t)

	_, err := c.Retrieve(context.Background(), "missing")
	assert.True(t, errors.Is(err, &errcodes.Error{
		HTTPCode: http.StatusNotFound,
		Message:  "Role not found",
		Code:     "not_found",
	}))
}
