package roles

// CreateRolePayload represents the request body for creating a role.
type CreateRolePayload struct {
	Name        string  `json:"name" validate:"required,min=1,max=50"`
	Description *string `json:"description,omitempty"`
	IsDefault   bool    `json:"isDefault"`
}

// UpdateRolePayload represents the request body for updating a role. Only
// set fields are sent; the server merges.
type UpdateRolePayload struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
	Description *string `json:"description,omitempty"`
	IsDefault   *bool   `json:"isDefault,omitempty"`
}

// RoleFormPayload represents the create/edit role form posted by the
// console. The checkbox arrives as "on" when checked and is absent
// otherwise.
type RoleFormPayload struct {
	Name        string `form:"name" validate:"required,min=1,max=50"`
	Description string `form:"description"`
	IsDefault   string `form:"isDefault"`
}
