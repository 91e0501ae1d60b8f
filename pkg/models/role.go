package models

import "time"

// Kind names the two entity collections managed by the console. Cache keys
// and mutation invalidation are scoped by kind.
const (
	KindUsers = "users"
	KindRoles = "roles"
)

type Role struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	IsDefault   bool      `json:"isDefault"`
}
