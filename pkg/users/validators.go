package users

// CreateUserPayload represents the request body for creating a user.
type CreateUserPayload struct {
	First  string `json:"first" validate:"required,min=1,max=100"`
	Last   string `json:"last" validate:"required,min=1,max=100"`
	RoleID string `json:"roleId" validate:"required"`
}

// UpdateUserPayload represents the request body for updating a user. Only
// set fields are sent; the server merges.
type UpdateUserPayload struct {
	First  *string `json:"first,omitempty" validate:"omitempty,min=1,max=100"`
	Last   *string `json:"last,omitempty" validate:"omitempty,min=1,max=100"`
	RoleID *string `json:"roleId,omitempty"`
}

// UserFormPayload represents the create/edit user form posted by the
// console.
type UserFormPayload struct {
	First  string `form:"first" validate:"required,min=1,max=100"`
	Last   string `form:"last" validate:"required,min=1,max=100"`
	RoleID string `form:"roleId" validate:"required"`
}
