package console

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/crewdesk/crewdesk/pkg/dialogs"
	"github.com/crewdesk/crewdesk/pkg/errcodes"
	"github.com/crewdesk/crewdesk/pkg/models"
	"github.com/crewdesk/crewdesk/pkg/roles"
	"github.com/crewdesk/crewdesk/pkg/users"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	users    *users.Queries
	roles    *roles.Queries
	sessions *SessionStore
}

func newHandler(userQueries *users.Queries, roleQueries *roles.Queries, sessions *SessionStore) *handler {
	return &handler{
		users:    userQueries,
		roles:    roleQueries,
		sessions: sessions,
	}
}

// returnParams reads the view state carried on dialog and mutation URLs so
// the browser lands back on the same tab, search, and page afterwards.
func returnParams(c echo.Context) (string, string, int) {
	tab := c.QueryParam("tab")
	if tab != models.KindRoles {
		tab = models.KindUsers
	}
	q := strings.TrimSpace(c.QueryParam("q"))
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}
	return tab, q, page
}

func returnQuery(tab, q string, page int) string {
	values := url.Values{}
	values.Set("tab", tab)
	if q != "" {
		values.Set("q", q)
	}
	if page > 1 {
		values.Set("page", strconv.Itoa(page))
	}
	return values.Encode()
}

// errMessage extracts the user-facing message from an API error.
func errMessage(err error) string {
	var cerr *errcodes.Error
	if errors.As(err, &cerr) {
		return cerr.Message
	}
	return err.Error()
}

// Index renders the console: tab bar, search, the active tab's table with
// pagination, and whichever dialog is open.
func (h *handler) Index(c echo.Context) error {
	ctx := c.Request().Context()
	s := h.sessions.Load(c)

	// Bookmarked and hand-edited URLs still render: malformed or out-of-range
	// view state falls back to the defaults instead of erroring.
	params := indexParams{}
	if err := c.Bind(&params); err != nil {
		tab, q, page := returnParams(c)
		params = indexParams{Tab: tab, Q: q, Page: page}
	}

	inflight := s.Inflight(params.Tab)
	rq := returnQuery(params.Tab, params.Q, params.Page)

	var content strings.Builder
	content.WriteString(toastBanner(s.PopToasts()))
	content.WriteString(tabBar(params.Tab))
	content.WriteString(searchFormHTML(params.Tab, params.Q))
	content.WriteString(newButton(params.Tab, params.Q, params.Page, inflight))

	// The role list backs both the roles tab and the user table's role
	// column and selector. If it fails on the users tab, raw role IDs are
	// shown instead.
	rolePage, _, roleErr := h.roles.List(ctx, 1, "")

	switch params.Tab {
	case models.KindRoles:
		if params.Q != "" || params.Page != 1 {
			rolePage, _, roleErr = h.roles.List(ctx, params.Page, params.Q)
		}
		if roleErr != nil {
			content.WriteString(errorState(errMessage(roleErr)))
			break
		}
		if len(rolePage.Data) == 0 {
			content.WriteString(emptyState(params.Tab, params.Q))
			break
		}
		content.WriteString(roleTable(rolePage, params.Q, params.Page, inflight))
		content.WriteString(pagination(params.Tab, params.Q, params.Page, rolePage.Pages, rolePage.HasPrev(), rolePage.HasNext()))
	default:
		userPage, _, err := h.users.List(ctx, params.Page, params.Q)
		if err != nil {
			content.WriteString(errorState(errMessage(err)))
			break
		}
		if len(userPage.Data) == 0 {
			content.WriteString(emptyState(params.Tab, params.Q))
			break
		}
		roleNames := map[string]string{}
		if roleErr == nil {
			for _, r := range rolePage.Data {
				roleNames[r.ID] = r.Name
			}
		}
		content.WriteString(userTable(userPage, roleNames, params.Q, params.Page, inflight))
		content.WriteString(pagination(params.Tab, params.Q, params.Page, userPage.Pages, userPage.HasPrev(), userPage.HasNext()))
	}

	if params.Tab == models.KindRoles {
		content.WriteString(roleDialogHTML(s.RoleDialog(), s.RoleDraft(), rq, inflight))
	} else {
		var available []models.Role
		if roleErr == nil {
			available = rolePage.Data
		}
		content.WriteString(userDialogHTML(s.UserDialog(), s.UserDraft(), available, rq, inflight))
	}

	return c.HTML(http.StatusOK, renderPage(content.String()))
}

// CloseDialogs closes any open dialog and returns to the list.
func (h *handler) CloseDialogs(c echo.Context) error {
	s := h.sessions.Load(c)
	s.CloseDialogs()
	tab, q, page := returnParams(c)
	return c.Redirect(http.StatusSeeOther, indexURL(tab, q, page))
}

// NewUserDialog opens the create user dialog with a fresh draft.
func (h *handler) NewUserDialog(c echo.Context) error {
	s := h.sessions.Load(c)
	s.DispatchUserDraft(users.DraftAction{Type: users.Reset})
	s.DispatchUserDialog(dialogs.Action[models.User]{Type: dialogs.OpenCreate})
	tab, q, page := returnParams(c)
	return c.Redirect(http.StatusSeeOther, indexURL(tab, q, page))
}

// EditUserDialog opens the edit dialog seeded with the user's current values.
// The snapshot is captured once; cache refreshes don't re-bind an open form.
func (h *handler) EditUserDialog(c echo.Context) error {
	ctx := c.Request().Context()
	s := h.sessions.Load(c)
	tab, q, page := returnParams(c)

	user, _, err := h.users.Retrieve(ctx, c.Param("id"))
	if err != nil {
		s.PushToast(Toast{Title: "Couldn't load user", Description: errMessage(err), Level: ToastError})
		return c.Redirect(http.StatusSeeOther, indexURL(tab, q, page))
	}

	s.DispatchUserDialog(dialogs.Action[models.User]{Type: dialogs.OpenEdit, Entity: user})
	s.DispatchUserDraft(users.DraftAction{Type: users.FillFrom, From: user})
	return c.Redirect(http.StatusSeeOther, indexURL(tab, q, page))
}

// DeleteUserDialog opens the delete confirmation for a user.
func (h *handler) DeleteUserDialog(c echo.Context) error {
	ctx := c.Request().Context()
	s := h.sessions.Load(c)
	tab, q, page := returnParams(c)

	user, _, err := h.users.Retrieve(ctx, c.Param("id"))
	if err != nil {
		s.PushToast(Toast{Title: "Couldn't load user", Description: errMessage(err), Level: ToastError})
		return c.Redirect(http.StatusSeeOther, indexURL(tab, q, page))
	}

	s.DispatchUserDialog(dialogs.Action[models.User]{Type: dialogs.OpenDelete, Entity: user})
	return c.Redirect(http.StatusSeeOther, indexURL(tab, q, page))
}

// applyUserForm folds the posted fields into the session draft so nothing
// typed is lost when a submit fails.
func (h *handler) applyUserForm(s *Session, c echo.Context) {
	s.DispatchUserDraft(users.DraftAction{Type: users.SetField, Field: users.FieldFirst, Value: strings.TrimSpace(c.FormValue("first"))})
	s.DispatchUserDraft(users.DraftAction{Type: users.SetField, Field: users.FieldLast, Value: strings.TrimSpace(c.FormValue("last"))})
	s.DispatchUserDraft(users.DraftAction{Type: users.SetField, Field: users.FieldRoleID, Value: c.FormValue("roleId")})
}

// CreateUser submits the create dialog. On success the dialog closes and the
// list pages refetch; on failure the dialog stays open with the draft intact.
func (h *handler) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()
	s := h.sessions.Load(c)
	tab, q, page := returnParams(c)

	h.applyUserForm(s, c)

	payload := users.UserFormPayload{}
	if err := c.Bind(&payload); err != nil {
		s.PushToast(Toast{Title: "Couldn't create user", Description: errMessage(err), Level: ToastError})
		return c.Redirect(http.StatusSeeOther, indexURL(tab, q, page))
	}

	s.SetInflight(models.KindUsers, true)
	defer s.SetInflight(models.KindUsers, false)

	_, _ = h.users.Create(ctx, s.UserDraft().CreatePayload(), func(user *models.User) {
		s.CloseDialogs()
		s.DispatchUserDraft(users.DraftAction{Type: users.Reset})
		s.PushToast(Toast{Title: "User created", Description: user.FullName(), Level: ToastSuccess})
	}, func(err error) {
		s.PushToast(Toast{Title: "Couldn't create user", Description: errMessage(err), Level: ToastError})
	})
	return c.Redirect(http.StatusSeeOther, indexURL(tab, q, page))
}

// UpdateUser submits the edit dialog as a partial update of only the changed
// fields against the snapshot captured when the dialog opened.
func (h *handler) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	s := h.sessions.Load(c)
	tab, q, page := returnParams(c)

	state := s.UserDialog()
	if state.Kind != dialogs.Edit || state.Entity == nil {
		s.PushToast(Toast{Title: "No user selected", Level: ToastError})
		return c.Redirect(http.StatusSeeOther, indexURL(tab, q, page))
	}

	h.applyUserForm(s, c)

	payload := users.UserFormPayload{}
	if err := c.Bind(&payload); err != nil {
		s.PushToast(Toast{Title: "Couldn't update user", Description: errMessage(err), Level: ToastError})
		return c.Redirect(http.StatusSeeOther, indexURL(tab, q, page))
	}

	s.SetInflight(models.KindUsers, true)
	defer s.SetInflight(models.KindUsers, false)

	_, _ = h.users.Update(ctx, state.Entity.ID, s.UserDraft().UpdatePayload(state.Entity), func(user *models.User) {
		s.CloseDialogs()
		s.DispatchUserDraft(users.DraftAction{Type: users.Reset})
		s.PushToast(Toast{Title: "User updated", Description: user.FullName(), Level: ToastSuccess})
	}, func(err error) {
		s.PushToast(Toast{Title: "Couldn't update user", Description: errMessage(err), Level: ToastError})
	})
	return c.Redirect(http.StatusSeeOther, indexURL(tab, q, page))
}

// DeleteUser submits the delete confirmation.
func (h *handler) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	s := h.sessions.Load(c)
	tab, q, page := returnParams(c)

	state := s.UserDialog()
	if state.Kind != dialogs.Delete || state.Entity == nil {
		s.PushToast(Toast{Title: "No user selected", Level: ToastError})
		return c.Redirect(http.StatusSeeOther, indexURL(tab, q, page))
	}

	s.SetInflight(models.KindUsers, true)
	defer s.SetInflight(models.KindUsers, false)

	_, _ = h.users.Delete(ctx, state.Entity.ID, func(user *models.User) {
		s.CloseDialogs()
		s.PushToast(Toast{Title: "User deleted", Description: user.FullName(), Level: ToastSuccess})
	}, func(err error) {
		s.PushToast(Toast{Title: "Couldn't delete user", Description: errMessage(err), Level: ToastError})
	})
	return c.Redirect(http.StatusSeeOther, indexURL(tab, q, page))
}

// NewRoleDialog opens the create role dialog with a fresh draft.
func (h *handler) NewRoleDialog(c echo.Context) error {
	s := h.sessions.Load(c)
	s.DispatchRoleDraft(roles.DraftAction{Type: roles.Reset})
	s.DispatchRoleDialog(dialogs.Action[models.Role]{Type: dialogs.OpenCreate})
	tab, q, page := returnParams(c)
	return c.Redirect(http.StatusSeeOther, indexURL(tab, q, page))
}

// EditRoleDialog opens the edit dialog seeded with the role's current values.
func (h *handler) EditRoleDialog(c echo.Context) error {
	ctx := c.Request().Context()
	s := h.sessions.Load(c)
	tab, q, page := returnParams(c)

	role, _, err := h.roles.Retrieve(ctx, c.Param("id"))
	if err != nil {
		s.PushToast(Toast{Title: "Couldn't load role", Description: errMessage(err), Level: ToastError})
		return c.Redirect(http.StatusSeeOther, indexURL(tab, q, page))
	}

	s.DispatchRoleDialog(dialogs.Action[models.Role]{Type: dialogs.OpenEdit, Entity: role})
	s.DispatchRoleDraft(roles.DraftAction{Type: roles.FillFrom, From: role})
	return c.Redirect(http.StatusSeeOther, indexURL(tab, q, page))
}

// DeleteRoleDialog opens the delete confirmation for a role. The dialog still
// opens for the default role; its confirm button renders inert.
func (h *handler) DeleteRoleDialog(c echo.Context) error {
	ctx := c.Request().Context()
	s := h.sessions.Load(c)
	tab, q, page := returnParams(c)

	role, _, err := h.roles.Retrieve(ctx, c.Param("id"))
	if err != nil {
		s.PushToast(Toast{Title: "Couldn't load role", Description: errMessage(err), Level: ToastError})
		return c.Redirect(http.StatusSeeOther, indexURL(tab, q, page))
	}

	s.DispatchRoleDialog(dialogs.Action[models.Role]{Type: dialogs.OpenDelete, Entity: role})
	return c.Redirect(http.StatusSeeOther, indexURL(tab, q, page))
}

func (h *handler) applyRoleForm(s *Session, c echo.Context) {
	s.DispatchRoleDraft(roles.DraftAction{Type: roles.SetField, Field: roles.FieldName, Value: strings.TrimSpace(c.FormValue("name"))})
	s.DispatchRoleDraft(roles.DraftAction{Type: roles.SetField, Field: roles.FieldDescription, Value: strings.TrimSpace(c.FormValue("description"))})
	s.DispatchRoleDraft(roles.DraftAction{Type: roles.SetField, Field: roles.FieldIsDefault, Value: c.FormValue("isDefault")})
}

// CreateRole submits the create role dialog.
func (h *handler) CreateRole(c echo.Context) error {
	ctx := c.Request().Context()
	s := h.sessions.Load(c)
	tab, q, page := returnParams(c)

	h.applyRoleForm(s, c)

	payload := roles.RoleFormPayload{}
	if err := c.Bind(&payload); err != nil {
		s.PushToast(Toast{Title: "Couldn't create role", Description: errMessage(err), Level: ToastError})
		return c.Redirect(http.StatusSeeOther, indexURL(tab, q, page))
	}

	s.SetInflight(models.KindRoles, true)
	defer s.SetInflight(models.KindRoles, false)

	_, _ = h.roles.Create(ctx, s.RoleDraft().CreatePayload(), func(role *models.Role) {
		s.CloseDialogs()
		s.DispatchRoleDraft(roles.DraftAction{Type: roles.Reset})
		s.PushToast(Toast{Title: "Role created", Description: role.Name, Level: ToastSuccess})
	}, func(err error) {
		s.PushToast(Toast{Title: "Couldn't create role", Description: errMessage(err), Level: ToastError})
	})
	return c.Redirect(http.StatusSeeOther, indexURL(tab, q, page))
}

// UpdateRole submits the edit role dialog.
func (h *handler) UpdateRole(c echo.Context) error {
	ctx := c.Request().Context()
	s := h.sessions.Load(c)
	tab, q, page := returnParams(c)

	state := s.RoleDialog()
	if state.Kind != dialogs.Edit || state.Entity == nil {
		s.PushToast(Toast{Title: "No role selected", Level: ToastError})
		return c.Redirect(http.StatusSeeOther, indexURL(tab, q, page))
	}

	h.applyRoleForm(s, c)

	payload := roles.RoleFormPayload{}
	if err := c.Bind(&payload); err != nil {
		s.PushToast(Toast{Title: "Couldn't update role", Description: errMessage(err), Level: ToastError})
		return c.Redirect(http.StatusSeeOther, indexURL(tab, q, page))
	}

	s.SetInflight(models.KindRoles, true)
	defer s.SetInflight(models.KindRoles, false)

	_, _ = h.roles.Update(ctx, state.Entity.ID, s.RoleDraft().UpdatePayload(state.Entity), func(role *models.Role) {
		s.CloseDialogs()
		s.DispatchRoleDraft(roles.DraftAction{Type: roles.Reset})
		s.PushToast(Toast{Title: "Role updated", Description: role.Name, Level: ToastSuccess})
	}, func(err error) {
		s.PushToast(Toast{Title: "Couldn't update role", Description: errMessage(err), Level: ToastError})
	})
	return c.Redirect(http.StatusSeeOther, indexURL(tab, q, page))
}

// DeleteRole submits the role delete confirmation. The default role is
// rejected here before any request goes out, mirroring the inert button.
func (h *handler) DeleteRole(c echo.Context) error {
	ctx := c.Request().Context()
	s := h.sessions.Load(c)
	tab, q, page := returnParams(c)

	state := s.RoleDialog()
	if state.Kind != dialogs.Delete || state.Entity == nil {
		s.PushToast(Toast{Title: "No role selected", Level: ToastError})
		return c.Redirect(http.StatusSeeOther, indexURL(tab, q, page))
	}

	if state.Entity.IsDefault {
		s.PushToast(Toast{Title: "Couldn't delete role", Description: "Cannot delete the default role", Level: ToastError})
		return c.Redirect(http.StatusSeeOther, indexURL(tab, q, page))
	}

	s.SetInflight(models.KindRoles, true)
	defer s.SetInflight(models.KindRoles, false)

	_, _ = h.roles.Delete(ctx, state.Entity.ID, func(role *models.Role) {
		s.CloseDialogs()
		s.PushToast(Toast{Title: "Role deleted", Description: role.Name, Level: ToastSuccess})
	}, func(err error) {
		s.PushToast(Toast{Title: "Couldn't delete role", Description: errMessage(err), Level: ToastError})
	})
	return c.Redirect(http.StatusSeeOther, indexURL(tab, q, page))
}
