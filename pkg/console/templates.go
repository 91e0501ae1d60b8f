package console

import (
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"

	"github.com/crewdesk/crewdesk/pkg/dialogs"
	"github.com/crewdesk/crewdesk/pkg/models"
	"github.com/crewdesk/crewdesk/pkg/roles"
	"github.com/crewdesk/crewdesk/pkg/users"
)

const baseTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>CrewDesk</title>
  <style>
    body { font-family: sans-serif; margin: 16px; max-width: 960px; }
    a { color: #000; }
    table { width: 100%%; border-collapse: collapse; }
    th, td { text-align: left; padding: 10px 8px; border-bottom: 1px solid #ccc; }
    .tabs { margin-bottom: 16px; }
    .tab { display: inline-block; padding: 8px 16px; border: 1px solid #ccc; text-decoration: none; }
    .tab.active { font-weight: bold; border-color: #000; }
    .btn { display: inline-block; padding: 8px 12px; margin: 2px; border: 1px solid #000; background: #eee; text-decoration: none; cursor: pointer; }
    .btn[disabled], .btn.disabled { color: #999; border-color: #999; cursor: default; pointer-events: none; }
    .avatar { display: inline-block; width: 32px; height: 32px; line-height: 32px; border-radius: 50%%; background: #ddd; text-align: center; font-size: 0.8em; vertical-align: middle; margin-right: 8px; }
    .avatar img { width: 32px; height: 32px; border-radius: 50%%; vertical-align: middle; }
    .badge { display: inline-block; padding: 2px 8px; border: 1px solid #666; border-radius: 8px; font-size: 0.8em; color: #666; margin-left: 6px; }
    .toast { padding: 12px; margin-bottom: 12px; border: 1px solid; }
    .toast.success { border-color: #2a2; background: #efe; }
    .toast.error { border-color: #a22; background: #fee; }
    .dialog { border: 2px solid #000; padding: 16px; margin: 16px 0; background: #fafafa; }
    .dialog label { display: block; margin: 8px 0 4px; font-weight: bold; }
    .dialog input[type=text] { width: 100%%; padding: 8px; box-sizing: border-box; }
    .empty { padding: 32px; text-align: center; color: #666; }
    .error-state { padding: 32px; text-align: center; color: #a22; border: 1px solid #a22; }
    .nav { margin: 16px 0; }
  </style>
</head>
<body>
  <h1>CrewDesk</h1>
  %s
</body>
</html>`

// renderPage wraps content in the base template.
func renderPage(content string) string {
	return fmt.Sprintf(baseTemplate, content)
}

// indexURL builds the console URL for a tab, preserving search and page.
func indexURL(tab, q string, page int) string {
	values := url.Values{}
	values.Set("tab", tab)
	if q != "" {
		values.Set("q", q)
	}
	if page > 1 {
		values.Set("page", strconv.Itoa(page))
	}
	return "/?" + values.Encode()
}

// tabBar renders the users/roles tab switcher. Switching tabs resets the
// search and page.
func tabBar(tab string) string {
	var parts []string
	for _, t := range []string{models.KindUsers, models.KindRoles} {
		label := strings.ToUpper(t[:1]) + t[1:]
		if t == tab {
			parts = append(parts, fmt.Sprintf(`<span class="tab active">%s</span>`, label))
		} else {
			parts = append(parts, fmt.Sprintf(`<a href="/?tab=%s" class="tab">%s</a>`, t, label))
		}
	}
	return fmt.Sprintf(`<div class="tabs">%s</div>`, strings.Join(parts, ""))
}

// searchFormHTML renders the search box for the active tab. Submitting resets
// to the first page.
func searchFormHTML(tab, q string) string {
	return fmt.Sprintf(`<form action="/" method="get" style="margin: 12px 0;">
  <input type="hidden" name="tab" value="%s">
  <input type="text" name="q" value="%s" placeholder="Search %s">
  <input type="submit" value="Search" class="btn">
</form>`, html.EscapeString(tab), html.EscapeString(q), html.EscapeString(tab))
}

// toastBanner renders queued toasts.
func toastBanner(toasts []Toast) string {
	var b strings.Builder
	for _, t := range toasts {
		b.WriteString(fmt.Sprintf(`<div class="toast %s"><b>%s</b>`, t.Level, html.EscapeString(t.Title)))
		if t.Description != "" {
			b.WriteString(" " + html.EscapeString(t.Description))
		}
		b.WriteString("</div>")
	}
	return b.String()
}

// pagination renders prev/next buttons, disabled at the boundaries.
func pagination(tab, q string, page, pages int, hasPrev, hasNext bool) string {
	if pages <= 1 {
		return ""
	}

	var parts []string
	if hasPrev {
		parts = append(parts, fmt.Sprintf(`<a href="%s" class="btn">Previous</a>`, html.EscapeString(indexURL(tab, q, page-1))))
	} else {
		parts = append(parts, `<span class="btn disabled">Previous</span>`)
	}

	parts = append(parts, fmt.Sprintf("Page %d of %d", page, pages))

	if hasNext {
		parts = append(parts, fmt.Sprintf(`<a href="%s" class="btn">Next</a>`, html.EscapeString(indexURL(tab, q, page+1))))
	} else {
		parts = append(parts, `<span class="btn disabled">Next</span>`)
	}

	return fmt.Sprintf(`<div class="nav">%s</div>`, strings.Join(parts, " "))
}

// avatarHTML renders the user's photo, falling back to their initials.
func avatarHTML(u models.User) string {
	if u.Photo != nil && *u.Photo != "" {
		return fmt.Sprintf(`<span class="avatar"><img src="%s" alt=""></span>`, html.EscapeString(*u.Photo))
	}
	return fmt.Sprintf(`<span class="avatar">%s</span>`, html.EscapeString(u.Initials()))
}

// rowActions renders the edit and delete buttons for one row. The buttons are
// disabled while a mutation for the tab is in flight.
func rowActions(tab, id, q string, page int, inflight bool) string {
	if inflight {
		return `<span class="btn disabled">Edit</span> <span class="btn disabled">Delete</span>`
	}
	values := url.Values{}
	values.Set("tab", tab)
	if q != "" {
		values.Set("q", q)
	}
	if page > 1 {
		values.Set("page", strconv.Itoa(page))
	}
	query := values.Encode()
	return fmt.Sprintf(`<a href="/%s/%s/edit?%s" class="btn">Edit</a> <a href="/%s/%s/delete?%s" class="btn">Delete</a>`,
		tab, url.PathEscape(id), query, tab, url.PathEscape(id), query)
}

// userTable renders the users table. roleNames maps role IDs to display
// names; unknown IDs fall back to the raw ID.
func userTable(page models.Page[models.User], roleNames map[string]string, q string, pageNum int, inflight bool) string {
	var b strings.Builder
	b.WriteString(`<table><tr><th></th><th>Name</th><th>Role</th><th></th></tr>`)
	for _, u := range page.Data {
		roleName := roleNames[u.RoleID]
		if roleName == "" {
			roleName = u.RoleID
		}
		b.WriteString(fmt.Sprintf(`<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
			avatarHTML(u),
			html.EscapeString(u.FullName()),
			html.EscapeString(roleName),
			rowActions(models.KindUsers, u.ID, q, pageNum, inflight)))
	}
	b.WriteString(`</table>`)
	return b.String()
}

// roleTable renders the roles table with the default badge.
func roleTable(page models.Page[models.Role], q string, pageNum int, inflight bool) string {
	var b strings.Builder
	b.WriteString(`<table><tr><th>Name</th><th>Description</th><th></th></tr>`)
	for _, r := range page.Data {
		name := html.EscapeString(r.Name)
		if r.IsDefault {
			name += `<span class="badge">Default</span>`
		}
		description := ""
		if r.Description != nil {
			description = html.EscapeString(*r.Description)
		}
		b.WriteString(fmt.Sprintf(`<tr><td>%s</td><td>%s</td><td>%s</td></tr>`,
			name, description, rowActions(models.KindRoles, r.ID, q, pageNum, inflight)))
	}
	b.WriteString(`</table>`)
	return b.String()
}

// emptyState renders the no-results message, distinct from the fetch error
// state below.
func emptyState(tab, q string) string {
	if q != "" {
		return fmt.Sprintf(`<div class="empty">No %s match %q.</div>`, tab, html.EscapeString(q))
	}
	return fmt.Sprintf(`<div class="empty">No %s yet.</div>`, tab)
}

// errorState renders a failed page load.
func errorState(msg string) string {
	return fmt.Sprintf(`<div class="error-state"><b>Couldn't load this page.</b> %s</div>`, html.EscapeString(msg))
}

// newButton renders the create button for the active tab, disabled while a
// mutation is in flight.
func newButton(tab, q string, page int, inflight bool) string {
	label := "New user"
	if tab == models.KindRoles {
		label = "New role"
	}
	if inflight {
		return fmt.Sprintf(`<span class="btn disabled">%s</span>`, label)
	}
	values := url.Values{}
	values.Set("tab", tab)
	if q != "" {
		values.Set("q", q)
	}
	if page > 1 {
		values.Set("page", strconv.Itoa(page))
	}
	return fmt.Sprintf(`<a href="/%s/new?%s" class="btn">%s</a>`, tab, values.Encode(), label)
}

// dialogShell wraps dialog content with a title and a cancel link.
func dialogShell(title, returnQuery, inner string) string {
	return fmt.Sprintf(`<div class="dialog">
  <h2>%s</h2>
  %s
  <a href="/dialogs/close?%s" class="btn">Cancel</a>
</div>`, html.EscapeString(title), inner, returnQuery)
}

// roleOptions renders the role selector options for the user form.
func roleOptions(available []models.Role, selected string) string {
	var b strings.Builder
	b.WriteString(`<option value=""></option>`)
	for _, r := range available {
		sel := ""
		if r.ID == selected {
			sel = " selected"
		}
		b.WriteString(fmt.Sprintf(`<option value="%s"%s>%s</option>`,
			html.EscapeString(r.ID), sel, html.EscapeString(r.Name)))
	}
	return b.String()
}

// userDialogHTML renders the open user dialog, if any.
func userDialogHTML(state dialogs.State[models.User], draft users.UserDraft, available []models.Role, returnQuery string, inflight bool) string {
	submit := `<input type="submit" value="Save" class="btn">`
	if inflight {
		submit = `<input type="submit" value="Save" class="btn" disabled>`
	}

	form := func(action, title string) string {
		inner := fmt.Sprintf(`<form action="%s?%s" method="post">
  <label>First name</label>
  <input type="text" name="first" value="%s">
  <label>Last name</label>
  <input type="text" name="last" value="%s">
  <label>Role</label>
  <select name="roleId">%s</select>
  <div style="margin-top: 12px;">%s</div>
</form>`, html.EscapeString(action), returnQuery,
			html.EscapeString(draft.First), html.EscapeString(draft.Last),
			roleOptions(available, draft.RoleID), submit)
		return dialogShell(title, returnQuery, inner)
	}

	switch state.Kind {
	case dialogs.Create:
		return form("/users", "New user")
	case dialogs.Edit:
		if state.Entity == nil {
			return ""
		}
		return form("/users/"+url.PathEscape(state.Entity.ID), "Edit user")
	case dialogs.Delete:
		if state.Entity == nil {
			return ""
		}
		confirm := fmt.Sprintf(`<input type="submit" value="Delete %s" class="btn">`, html.EscapeString(state.Entity.FullName()))
		if inflight {
			confirm = `<input type="submit" value="Deleting..." class="btn" disabled>`
		}
		inner := fmt.Sprintf(`<p>This will permanently remove %s.</p>
<form action="/users/%s/delete?%s" method="post">%s</form>`,
			html.EscapeString(state.Entity.FullName()), url.PathEscape(state.Entity.ID), returnQuery, confirm)
		return dialogShell("Delete user", returnQuery, inner)
	}
	return ""
}

// roleDialogHTML renders the open role dialog, if any. The delete confirm
// button stays visible but inert for the default role.
func roleDialogHTML(state dialogs.State[models.Role], draft roles.RoleDraft, returnQuery string, inflight bool) string {
	submit := `<input type="submit" value="Save" class="btn">`
	if inflight {
		submit = `<input type="submit" value="Save" class="btn" disabled>`
	}

	form := func(action, title string) string {
		checked := ""
		if draft.IsDefault {
			checked = " checked"
		}
		inner := fmt.Sprintf(`<form action="%s?%s" method="post">
  <label>Name</label>
  <input type="text" name="name" value="%s">
  <label>Description</label>
  <input type="text" name="description" value="%s">
  <label><input type="checkbox" name="isDefault"%s> Default role for new users</label>
  <div style="margin-top: 12px;">%s</div>
</form>`, html.EscapeString(action), returnQuery,
			html.EscapeString(draft.Name), html.EscapeString(draft.Description), checked, submit)
		return dialogShell(title, returnQuery, inner)
	}

	switch state.Kind {
	case dialogs.Create:
		return form("/roles", "New role")
	case dialogs.Edit:
		if state.Entity == nil {
			return ""
		}
		return form("/roles/"+url.PathEscape(state.Entity.ID), "Edit role")
	case dialogs.Delete:
		if state.Entity == nil {
			return ""
		}
		confirm := fmt.Sprintf(`<input type="submit" value="Delete %s" class="btn">`, html.EscapeString(state.Entity.Name))
		note := ""
		if state.Entity.IsDefault {
			confirm = `<input type="submit" value="Delete" class="btn" disabled>`
			note = `<p><b>The default role can't be deleted.</b></p>`
		} else if inflight {
			confirm = `<input type="submit" value="Deleting..." class="btn" disabled>`
		}
		inner := fmt.Sprintf(`<p>This will permanently remove the %s role.</p>
%s<form action="/roles/%s/delete?%s" method="post">%s</form>`,
			html.EscapeString(state.Entity.Name), note, url.PathEscape(state.Entity.ID), returnQuery, confirm)
		return dialogShell("Delete role", returnQuery, inner)
	}
	return ""
}
