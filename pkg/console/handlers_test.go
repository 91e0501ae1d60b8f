package console

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/crewdesk/crewdesk/pkg/apiclient"
	"github.com/crewdesk/crewdesk/pkg/binder"
	"github.com/crewdesk/crewdesk/pkg/errcodes"
	"github.com/crewdesk/crewdesk/pkg/querycache"
	"github.com/crewdesk/crewdesk/pkg/roles"
	"github.com/crewdesk/crewdesk/pkg/testutils"
	"github.com/crewdesk/crewdesk/pkg/users"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// browser drives the console like a cookie-holding client would.
type browser struct {
	t       *testing.T
	e       *echo.Echo
	cookies map[string]*http.Cookie
}

func newTestConsole(t *testing.T) (*testutils.FakeAPI, *browser) {
	t.Helper()

	api := testutils.NewFakeAPI()
	srv := api.Start(t)

	client := apiclient.New(srv.URL, 5*time.Second)
	store := querycache.New(time.Minute)
	sessions := NewSessionStore(time.Hour)

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	RegisterRoutes(e, users.NewQueries(store, users.NewClient(client)), roles.NewQueries(store, roles.NewClient(client)), sessions)

	return api, &browser{t: t, e: e, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, cookie := range b.cookies {
		req.AddCookie(cookie)
	}

	rr := httptest.NewRecorder()
	b.e.ServeHTTP(rr, req)

	for _, cookie := range rr.Result().Cookies() {
		b.cookies[cookie.Name] = cookie
	}
	return rr
}

// get fetches a page and asserts it rendered.
func (b *browser) get(target string) string {
	b.t.Helper()
	rr := b.do(http.MethodGet, target, nil)
	require.Equal(b.t, http.StatusOK, rr.Code, rr.Body.String())
	return rr.Body.String()
}

// follow performs a request that should redirect back to the console.
func (b *browser) follow(method, target string, form url.Values) {
	b.t.Helper()
	rr := b.do(method, target, form)
	require.Equal(b.t, http.StatusSeeOther, rr.Code, rr.Body.String())
}

func TestIndex(t *testing.T) {
	t.Parallel()

	api, b := newTestConsole(t)
	admin := api.SeedRole("Admin", "Full access", true)
	member := api.SeedRole("Member", "", false)
	api.SeedUser("Ada", "Lovelace", admin.ID)
	api.SeedUser("Grace", "Hopper", member.ID)

	t.Run("renders the users tab by default", func(tt *testing.T) {
		body := b.get("/")
		assert.Contains(tt, body, "Ada Lovelace")
		assert.Contains(tt, body, "Grace Hopper")
		// role column shows names resolved from the roles list
		assert.Contains(tt, body, "Admin")
		assert.Contains(tt, body, "Member")
		// initials avatar when there's no photo
		assert.Contains(tt, body, ">AL</span>")
	})

	t.Run("search narrows the list", func(tt *testing.T) {
		body := b.get("/?tab=users&q=hopper")
		assert.Contains(tt, body, "Grace Hopper")
		assert.NotContains(tt, body, "Ada Lovelace")
	})

	t.Run("roles tab shows the default badge", func(tt *testing.T) {
		body := b.get("/?tab=roles")
		assert.Contains(tt, body, "Admin")
		assert.Contains(tt, body, `<span class="badge">Default</span>`)
		assert.Contains(tt, body, "Full access")
	})

	t.Run("malformed URL state falls back to defaults", func(tt *testing.T) {
		// bookmarked links with garbage view state still render
		body := b.get("/?page=abc")
		assert.Contains(tt, body, "Ada Lovelace")
		assert.Contains(tt, body, "Grace Hopper")

		body = b.get("/?tab=bogus&page=-1")
		assert.Contains(tt, body, `<span class="tab active">Users</span>`)
		assert.Contains(tt, body, "Ada Lovelace")

		// a parseable search survives the fallback
		body = b.get("/?tab=users&q=hopper&page=abc")
		assert.Contains(tt, body, "Grace Hopper")
		assert.NotContains(tt, body, "Ada Lovelace")
	})

	t.Run("zero results and fetch errors render differently", func(tt *testing.T) {
		body := b.get("/?tab=users&q=nobody")
		assert.Contains(tt, body, "No users match")
		assert.NotContains(tt, body, `<div class="error-state">`)

		api.FailNext = 500
		api.FailMessage = "upstream exploded"
		body = b.get("/?tab=users&q=stillnobody")
		assert.Contains(tt, body, `<div class="error-state">`)
		assert.Contains(tt, body, "upstream exploded")
		assert.NotContains(tt, body, "No users match")
	})
}

func TestPagination(t *testing.T) {
	t.Parallel()

	api, b := newTestConsole(t)
	role := api.SeedRole("Member", "", true)
	api.PageSize = 2
	for _, name := range []string{"Ada", "Grace", "Katherine", "Margaret", "Radia"} {
		api.SeedUser(name, "Example", role.ID)
	}

	body := b.get("/?tab=users")
	assert.Contains(t, body, "Page 1 of 3")
	assert.Contains(t, body, `<span class="btn disabled">Previous</span>`)
	assert.Contains(t, body, `page=2`)

	body = b.get("/?tab=users&page=3")
	assert.Contains(t, body, "Page 3 of 3")
	assert.Contains(t, body, `<span class="btn disabled">Next</span>`)
}

func TestCreateUserFlow(t *testing.T) {
	t.Parallel()

	api, b := newTestConsole(t)
	role := api.SeedRole("Member", "", true)

	b.follow(http.MethodGet, "/users/new", nil)
	body := b.get("/")
	assert.Contains(t, body, "New user")
	assert.Contains(t, body, `name="first"`)

	listFetches := api.RequestCount("GET /users")

	form := url.Values{}
	form.Set("first", "Ada")
	form.Set("last", "Lovelace")
	form.Set("roleId", role.ID)
	b.follow(http.MethodPost, "/users", form)

	body = b.get("/")
	assert.Contains(t, body, "User created")
	assert.Contains(t, body, "Ada Lovelace")
	// dialog closed on success
	assert.NotContains(t, body, `<form action="/users?`)
	// the row came from a refetch, not from patching the cached page
	assert.Equal(t, 1, api.RequestCount("POST /users"))
	assert.Greater(t, api.RequestCount("GET /users"), listFetches)
}

func TestCreateUserValidationFailure(t *testing.T) {
	t.Parallel()

	api, b := newTestConsole(t)
	api.SeedRole("Member", "", true)

	b.follow(http.MethodGet, "/users/new", nil)

	form := url.Values{}
	form.Set("first", "Ada")
	form.Set("last", "Lovelace")
	form.Set("roleId", "role_missing")
	b.follow(http.MethodPost, "/users", form)

	body := b.get("/")
	assert.Contains(t, body, "Invalid role ID")
	// dialog stays open with the typed values intact
	assert.Contains(t, body, "New user")
	assert.Contains(t, body, `value="Ada"`)
	assert.Equal(t, 1, api.RequestCount("POST /users"))
}

func TestEditUserFlow(t *testing.T) {
	t.Parallel()

	api, b := newTestConsole(t)
	role := api.SeedRole("Member", "", true)
	user := api.SeedUser("Grace", "Hopper", role.ID)

	b.follow(http.MethodGet, "/users/"+user.ID+"/edit", nil)
	body := b.get("/")
	assert.Contains(t, body, "Edit user")
	assert.Contains(t, body, `value="Grace"`)

	form := url.Values{}
	form.Set("first", "Grace")
	form.Set("last", "Murray Hopper")
	form.Set("roleId", role.ID)
	b.follow(http.MethodPost, "/users/"+user.ID, form)

	body = b.get("/")
	assert.Contains(t, body, "User updated")
	assert.Contains(t, body, "Grace Murray Hopper")
}

func TestDeleteUserFlow(t *testing.T) {
	t.Parallel()

	api, b := newTestConsole(t)
	role := api.SeedRole("Member", "", true)
	user := api.SeedUser("Grace", "Hopper", role.ID)

	b.follow(http.MethodGet, "/users/"+user.ID+"/delete", nil)
	body := b.get("/")
	assert.Contains(t, body, "Delete user")
	assert.Contains(t, body, "permanently remove Grace Hopper")

	b.follow(http.MethodPost, "/users/"+user.ID+"/delete", nil)

	body = b.get("/")
	assert.Contains(t, body, "User deleted")
	assert.Contains(t, body, "No users yet")
}

func TestDefaultRoleDeleteGuard(t *testing.T) {
	t.Parallel()

	api, b := newTestConsole(t)
	admin := api.SeedRole("Admin", "", true)

	b.follow(http.MethodGet, "/roles/"+admin.ID+"/delete?tab=roles", nil)
	body := b.get("/?tab=roles")
	assert.Contains(t, body, "The default role can't be deleted")
	assert.Contains(t, body, `value="Delete" class="btn" disabled`)

	// submitting anyway never reaches the API
	b.follow(http.MethodPost, "/roles/"+admin.ID+"/delete?tab=roles", nil)
	body = b.get("/?tab=roles")
	assert.Contains(t, body, "Cannot delete the default role")
	assert.Equal(t, 0, api.RequestCount("DELETE /roles/"))
	assert.Contains(t, body, "Admin")
}

func TestRoleCreateAndEdit(t *testing.T) {
	t.Parallel()

	api, b := newTestConsole(t)
	member := api.SeedRole("Member", "", true)

	b.follow(http.MethodGet, "/roles/new?tab=roles", nil)

	form := url.Values{}
	form.Set("name", "Editor")
	form.Set("description", "Can edit content")
	b.follow(http.MethodPost, "/roles?tab=roles", form)

	body := b.get("/?tab=roles")
	assert.Contains(t, body, "Role created")
	assert.Contains(t, body, "Editor")
	assert.Contains(t, body, "Can edit content")

	// promote Editor to default via the edit dialog
	matches := regexp.MustCompile(`/roles/(r\d+)/edit`).FindAllStringSubmatch(body, -1)
	editorID := ""
	for _, m := range matches {
		if m[1] != member.ID {
			editorID = m[1]
		}
	}
	require.NotEmpty(t, editorID)

	b.follow(http.MethodGet, "/roles/"+editorID+"/edit?tab=roles", nil)
	form = url.Values{}
	form.Set("name", "Editor")
	form.Set("description", "Can edit content")
	form.Set("isDefault", "on")
	b.follow(http.MethodPost, "/roles/"+editorID+"?tab=roles", form)

	body = b.get("/?tab=roles")
	assert.Contains(t, body, "Role updated")
}

func TestCloseDialog(t *testing.T) {
	t.Parallel()

	api, b := newTestConsole(t)
	api.SeedRole("Member", "", true)

	b.follow(http.MethodGet, "/users/new", nil)
	body := b.get("/")
	assert.Contains(t, body, "New user")

	b.follow(http.MethodGet, "/dialogs/close", nil)
	body = b.get("/")
	assert.NotContains(t, body, "New user</h2>")
}
