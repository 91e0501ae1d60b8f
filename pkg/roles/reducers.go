package roles

import "github.com/crewdesk/crewdesk/pkg/models"

// Draft field names accepted by SetField.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldIsDefault   = "isDefault"
)

// RoleDraft is the in-progress form state for the create and edit dialogs.
type RoleDraft struct {
	Name        string
	Description string
	IsDefault   bool
}

// EmptyRoleDraft is the template for a fresh create form.
var EmptyRoleDraft = RoleDraft{}

type DraftActionType string

const (
	SetField DraftActionType = "set_field"
	FillFrom DraftActionType = "fill_from"
	Reset    DraftActionType = "reset"
)

// DraftAction is one edit to a draft. SetField carries Field and Value;
// the isDefault field treats "on", "true" and "1" as checked.
type DraftAction struct {
	Type  DraftActionType
	Field string
	Value string
	From  *models.Role
}

// ReduceDraft is the pure form reducer for roles. It performs no I/O.
func ReduceDraft(draft RoleDraft, action DraftAction) RoleDraft {
	switch action.Type {
	case SetField:
		switch action.Field {
		case FieldName:
			draft.Name = action.Value
		case FieldDescription:
			draft.Description = action.Value
		case FieldIsDefault:
			draft.IsDefault = action.Value == "on" || action.Value == "true" || action.Value == "1"
		}
		return draft
	case FillFrom:
		if action.From == nil {
			return draft
		}
		filled := RoleDraft{
			Name:      action.From.Name,
			IsDefault: action.From.IsDefault,
		}
		if action.From.Description != nil {
			filled.Description = *action.From.Description
		}
		return filled
	case Reset:
		return EmptyRoleDraft
	}
	return draft
}

// CreatePayload converts the draft into a create request body.
func (d RoleDraft) CreatePayload() CreateRolePayload {
	payload := CreateRolePayload{
		Name:      d.Name,
		IsDefault: d.IsDefault,
	}
	if d.Description != "" {
		description := d.Description
		payload.Description = &description
	}
	return payload
}

// UpdatePayload converts the draft into a partial update against the
// original snapshot, containing only the changed fields.
func (d RoleDraft) UpdatePayload(orig *models.Role) UpdateRolePayload {
	payload := UpdateRolePayload{}
	if orig == nil {
		return payload
	}
	if d.Name != orig.Name {
		name := d.Name
		payload.Name = &name
	}
	origDescription := ""
	if orig.Description != nil {
		origDescription = *orig.Description
	}
	if d.Description != origDescription {
		description := d.Description
		payload.Description = &description
	}
	if d.IsDefault != orig.IsDefault {
		isDefault := d.IsDefault
		payload.IsDefault = &isDefault
	}
	return payload
}
