package models

import (
	"strings"
	"time"
)

type User struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	First     string    `json:"first"`
	Last      string    `json:"last"`
	RoleID    string    `json:"roleId"`
	Photo     *string   `json:"photo,omitempty"`
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.First + " " + u.Last)
}

// Initials returns the avatar fallback when no photo URL is set.
func (u *User) Initials() string {
	initials := ""
	if u.First != "" {
		initials += strings.ToUpper(u.First[:1])
	}
	if u.Last != "" {
		initials += strings.ToUpper(u.Last[:1])
	}
	return initials
}
