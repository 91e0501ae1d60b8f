package users

import "github.com/crewdesk/crewdesk/pkg/models"

// Draft field names accepted by SetField.
const (
	FieldFirst  = "first"
	FieldLast   = "last"
	FieldRoleID = "roleId"
)

// UserDraft is the in-progress form state for the create and edit dialogs.
// Drafts are seeded from the empty template or from the dialog's captured
// entity, and discarded on cancel or successful submit.
type UserDraft struct {
	First  string
	Last   string
	RoleID string
}

// EmptyUserDraft is the template for a fresh create form.
var EmptyUserDraft = UserDraft{}

type DraftActionType string

const (
	SetField DraftActionType = "set_field"
	FillFrom DraftActionType = "fill_from"
	Reset    DraftActionType = "reset"
)

// DraftAction is one edit to a draft. Field and Value apply to SetField;
// From applies to FillFrom.
type DraftAction struct {
	Type  DraftActionType
	Field string
	Value string
	From  *models.User
}

// ReduceDraft is the pure form reducer. It performs no I/O; network effects
// happen only at submit time via the API client. Unknown actions and fields
// leave the draft unchanged.
func ReduceDraft(draft UserDraft, action DraftAction) UserDraft {
	switch action.Type {
	case SetField:
		switch action.Field {
		case FieldFirst:
			draft.First = action.Value
		case FieldLast:
			draft.Last = action.Value
		case FieldRoleID:
			draft.RoleID = action.Value
		}
		return draft
	case FillFrom:
		if action.From == nil {
			return draft
		}
		return UserDraft{
			First:  action.From.First,
			Last:   action.From.Last,
			RoleID: action.From.RoleID,
		}
	case Reset:
		return EmptyUserDraft
	}
	return draft
}

// CreatePayload converts the draft into a create request body.
func (d UserDraft) CreatePayload() CreateUserPayload {
	return CreateUserPayload{
		First:  d.First,
		Last:   d.Last,
		RoleID: d.RoleID,
	}
}

// UpdatePayload converts the draft into a partial update against the
// original snapshot, containing only the changed fields.
func (d UserDraft) UpdatePayload(orig *models.User) UpdateUserPayload {
	payload := UpdateUserPayload{}
	if orig == nil {
		return payload
	}
	if d.First != orig.First {
		first := d.First
		payload.First = &first
	}
	if d.Last != orig.Last {
		last := d.Last
		payload.Last = &last
	}
	if d.RoleID != orig.RoleID {
		roleID := d.RoleID
		payload.RoleID = &roleID
	}
	return payload
}
