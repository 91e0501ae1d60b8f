package console

import (
	"github.com/crewdesk/crewdesk/pkg/roles"
	"github.com/crewdesk/crewdesk/pkg/users"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all console routes.
func RegisterRoutes(e *echo.Echo, userQueries *users.Queries, roleQueries *roles.Queries, sessions *SessionStore) {
	h := newHandler(userQueries, roleQueries, sessions)

	e.GET("/", h.Index)
	e.GET("/dialogs/close", h.CloseDialogs)

	e.GET("/users/new", h.NewUserDialog)
	e.GET("/users/:id/edit", h.EditUserDialog)
	e.GET("/users/:id/delete", h.DeleteUserDialog)
	e.POST("/users", h.CreateUser)
	e.POST("/users/:id", h.UpdateUser)
	e.POST("/users/:id/delete", h.DeleteUser)

	e.GET("/roles/new", h.NewRoleDialog)
	e.GET("/roles/:id/edit", h.EditRoleDialog)
	e.GET("/roles/:id/delete", h.DeleteRoleDialog)
	e.POST("/roles", h.CreateRole)
	e.POST("/roles/:id", h.UpdateRole)
	e.POST("/roles/:id/delete", h.DeleteRole)
}
