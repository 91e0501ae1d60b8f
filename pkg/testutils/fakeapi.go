package testutils

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/crewdesk/crewdesk/pkg/models"
	"github.com/labstack/echo/v4"
)

// DefaultPageSize is the fake API's server-side page size.
const DefaultPageSize = 10

// FakeAPI is an in-memory stand-in for the upstream users/roles REST API. It
// implements the wire contract the console depends on: 1-based pagination
// with prev/next/pages, case-insensitive search, 404s for missing ids,
// server-side rejection of default-role deletion, and {"message": ...} error
// bodies on non-2xx responses.
type FakeAPI struct {
	mu       sync.Mutex
	users    map[string]*models.User
	roles    map[string]*models.Role
	nextID   int
	requests []string

	// PageSize overrides DefaultPageSize when positive.
	PageSize int

	// FailNext, when non-zero, makes the next request fail with this status
	// and FailMessage before resetting.
	FailNext    int
	FailMessage string
}

// NewFakeAPI creates an empty fake API.
func NewFakeAPI() *FakeAPI {
	return &FakeAPI{
		users: map[string]*models.User{},
		roles: map[string]*models.Role{},
	}
}

// Start registers the fake routes on a fresh Echo instance and serves it
// from an httptest server torn down with the test.
func (f *FakeAPI) Start(t *testing.T) *httptest.Server {
	t.Helper()

	e := echo.New()

	e.GET("/users", f.listUsers)
	e.GET("/users/:id", f.retrieveUser)
	e.POST("/users", f.createUser)
	e.PATCH("/users/:id", f.updateUser)
	e.DELETE("/users/:id", f.deleteUser)

	e.GET("/roles", f.listRoles)
	e.GET("/roles/:id", f.retrieveRole)
	e.POST("/roles", f.createRole)
	e.PATCH("/roles/:id", f.updateRole)
	e.DELETE("/roles/:id", f.deleteRole)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

// SeedRole inserts a role directly into the fake store.
func (f *FakeAPI) SeedRole(name, description string, isDefault bool) *models.Role {
	f.mu.Lock()
	defer f.mu.Unlock()

	role := &models.Role{
		ID:        f.newIDLocked("r"),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
		Name:      name,
		IsDefault: isDefault,
	}
	if description != "" {
		role.Description = &description
	}
	f.roles[role.ID] = role
	return role
}

// SeedUser inserts a user directly into the fake store.
func (f *FakeAPI) SeedUser(first, last, roleID string) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()

	user := &models.User{
		ID:        f.newIDLocked("u"),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
		First:     first,
		Last:      last,
		RoleID:    roleID,
	}
	f.users[user.ID] = user
	return user
}

// Requests returns the "METHOD /path" log of every request served so far.
func (f *FakeAPI) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.requests...)
}

// RequestCount returns how many served requests match the given prefix,
// e.g. "DELETE /roles".
func (f *FakeAPI) RequestCount(prefix string) int {
	count := 0
	for _, r := range f.Requests() {
		if strings.HasPrefix(r, prefix) {
			count++
		}
	}
	return count
}

func (f *FakeAPI) newIDLocked(prefix string) string {
	f.nextID++
	return prefix + strconv.Itoa(f.nextID)
}

func (f *FakeAPI) pageSize() int {
	if f.PageSize > 0 {
		return f.PageSize
	}
	return DefaultPageSize
}

// record logs the request and applies a pending forced failure.
func (f *FakeAPI) record(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, c.Request().Method+" "+c.Request().URL.RequestURI())

	if f.FailNext != 0 {
		status := f.FailNext
		msg := f.FailMessage
		f.FailNext = 0
		f.FailMessage = ""
		if msg == "" {
			msg = http.StatusText(status)
		}
		return echo.NewHTTPError(status, msg)
	}
	return nil
}

func fail(c echo.Context, status int, format string, args ...any) error {
	return c.JSON(status, map[string]string{"message": fmt.Sprintf(format, args...)})
}

func page[T any](items []T, pageNum, size int) models.Page[T] {
	if pageNum < 1 {
		pageNum = 1
	}

	pages := (len(items) + size - 1) / size
	if pages == 0 {
		pages = 1
	}

	start := (pageNum - 1) * size
	if start > len(items) {
		start = len(items)
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}

	p := models.Page[T]{Data: items[start:end], Pages: pages}
	if pageNum > 1 {
		prev := pageNum - 1
		p.Prev = &prev
	}
	if pageNum < pages {
		next := pageNum + 1
		p.Next = &next
	}
	return p
}

func matches(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), strings.ToLower(search)) {
			return true
		}
	}
	return false
}

func (f *FakeAPI) listUsers(c echo.Context) error {
	if err := f.record(c); err != nil {
		return err
	}

	pageNum, _ := strconv.Atoi(c.QueryParam("page"))
	search := c.QueryParam("search")

	f.mu.Lock()
	users := []models.User{}
	for _, u := range f.users {
		if matches(search, u.First, u.Last) {
			users = append(users, *u)
		}
	}
	f.mu.Unlock()

	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	return c.JSON(http.StatusOK, page(users, pageNum, f.pageSize()))
}

func (f *FakeAPI) retrieveUser(c echo.Context) error {
	if err := f.record(c); err != nil {
		return err
	}

	f.mu.Lock()
	user, ok := f.users[c.Param("id")]
	f.mu.Unlock()
	if !ok {
		return fail(c, http.StatusNotFound, "User not found")
	}
	return c.JSON(http.StatusOK, user)
}

type userPayload struct {
	First  *string `json:"first"`
	Last   *string `json:"last"`
	RoleID *string `json:"roleId"`
}

func (f *FakeAPI) createUser(c echo.Context) error {
	if err := f.record(c); err != nil {
		return err
	}

	payload := userPayload{}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Malformed payload")
	}
	if payload.First == nil || *payload.First == "" {
		return fail(c, http.StatusUnprocessableEntity, "first is required")
	}
	if payload.Last == nil || *payload.Last == "" {
		return fail(c, http.StatusUnprocessableEntity, "last is required")
	}
	if payload.RoleID == nil || *payload.RoleID == "" {
		return fail(c, http.StatusUnprocessableEntity, "roleId is required")
	}

	f.mu.Lock()
	if _, ok := f.roles[*payload.RoleID]; !ok {
		f.mu.Unlock()
		return fail(c, http.StatusUnprocessableEntity, "Invalid role ID")
	}
	user := &models.User{
		ID:        f.newIDLocked("u"),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
		First:     *payload.First,
		Last:      *payload.Last,
		RoleID:    *payload.RoleID,
	}
	f.users[user.ID] = user
	f.mu.Unlock()

	return c.JSON(http.StatusCreated, user)
}

func (f *FakeAPI) updateUser(c echo.Context) error {
	if err := f.record(c); err != nil {
		return err
	}

	payload := userPayload{}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Malformed payload")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[c.Param("id")]
	if !ok {
		return fail(c, http.StatusNotFound, "User not found")
	}
	if payload.RoleID != nil {
		if _, ok := f.roles[*payload.RoleID]; !ok {
			return fail(c, http.StatusUnprocessableEntity, "Invalid role ID")
		}
		user.RoleID = *payload.RoleID
	}
	if payload.First != nil {
		user.First = *payload.First
	}
	if payload.Last != nil {
		user.Last = *payload.Last
	}
	user.UpdatedAt = time.Now().UTC()

	return c.JSON(http.StatusOK, user)
}

func (f *FakeAPI) deleteUser(c echo.Context) error {
	if err := f.record(c); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[c.Param("id")]
	if !ok {
		return fail(c, http.StatusNotFound, "User not found")
	}
	delete(f.users, user.ID)

	return c.JSON(http.StatusOK, user)
}

func (f *FakeAPI) listRoles(c echo.Context) error {
	if err := f.record(c); err != nil {
		return err
	}

	pageNum, _ := strconv.Atoi(c.QueryParam("page"))
	search := c.QueryParam("search")

	f.mu.Lock()
	roles := []models.Role{}
	for _, r := range f.roles {
		description := ""
		if r.Description != nil {
			description = *r.Description
		}
		if matches(search, r.Name, description) {
			roles = append(roles, *r)
		}
	}
	f.mu.Unlock()

	sort.Slice(roles, func(i, j int) bool { return roles[i].ID < roles[j].ID })

	return c.JSON(http.StatusOK, page(roles, pageNum, f.pageSize()))
}

func (f *FakeAPI) retrieveRole(c echo.Context) error {
	if err := f.record(c); err != nil {
		return err
	}

	f.mu.Lock()
	role, ok := f.roles[c.Param("id")]
	f.mu.Unlock()
	if !ok {
		return fail(c, http.StatusNotFound, "Role not found")
	}
	return c.JSON(http.StatusOK, role)
}

type rolePayload struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsDefault   *bool   `json:"isDefault"`
}

func (f *FakeAPI) createRole(c echo.Context) error {
	if err := f.record(c); err != nil {
		return err
	}

	payload := rolePayload{}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Malformed payload")
	}
	if payload.Name == nil || *payload.Name == "" {
		return fail(c, http.StatusUnprocessableEntity, "name is required")
	}

	f.mu.Lock()
	role := &models.Role{
		ID:        f.newIDLocked("r"),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
		Name:      *payload.Name,
	}
	if payload.Description != nil && *payload.Description != "" {
		role.Description = payload.Description
	}
	if payload.IsDefault != nil {
		role.IsDefault = *payload.IsDefault
	}
	f.roles[role.ID] = role
	f.mu.Unlock()

	return c.JSON(http.StatusCreated, role)
}

func (f *FakeAPI) updateRole(c echo.Context) error {
	if err := f.record(c); err != nil {
		return err
	}

	payload := rolePayload{}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Malformed payload")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	role, ok := f.roles[c.Param("id")]
	if !ok {
		return fail(c, http.StatusNotFound, "Role not found")
	}
	if payload.Name != nil {
		role.Name = *payload.Name
	}
	if payload.Description != nil {
		role.Description = payload.Description
	}
	if payload.IsDefault != nil {
		role.IsDefault = *payload.IsDefault
	}
	role.UpdatedAt = time.Now().UTC()

	return c.JSON(http.StatusOK, role)
}

func (f *FakeAPI) deleteRole(c echo.Context) error {
	if err := f.record(c); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	role, ok := f.roles[c.Param("id")]
	if !ok {
		return fail(c, http.StatusNotFound, "Role not found")
	}
	if role.IsDefault {
		return fail(c, http.StatusUnprocessableEntity, "Cannot delete the default role")
	}
	delete(f.roles, role.ID)

	return c.JSON(http.StatusOK, role)
}
