package dialogs

// Kind tags which dialog, if any, is open. At most one dialog is open at any
// time.
type Kind string

const (
	Closed Kind = "closed"
	Create Kind = "create"
	Edit   Kind = "edit"
	Delete Kind = "delete"
)

// State is the single-active-dialog state for one entity collection. Edit
// and Delete carry the snapshot captured when the dialog opened; it is not
// re-bound to cache updates while open.
type State[T any] struct {
	Kind   Kind
	Entity *T
}

// Initial returns the closed state.
func Initial[T any]() State[T] {
	return State[T]{Kind: Closed}
}

// IsOpen reports whether any dialog is showing.
func (s State[T]) IsOpen() bool {
	return s.Kind != Closed && s.Kind != ""
}

type ActionType string

const (
	OpenCreate ActionType = "open_create"
	OpenEdit   ActionType = "open_edit"
	OpenDelete ActionType = "open_delete"
	Close      ActionType = "close"
)

// Action is one dialog transition request. Entity is required for OpenEdit
// and OpenDelete and ignored otherwise.
type Action[T any] struct {
	Type   ActionType
	Entity *T
}

// Reduce is the pure transition function. Every Open* action is valid from
// any state, Close always yields Closed, and unknown actions leave the state
// unchanged.
func Reduce[T any](state State[T], action Action[T]) State[T] {
	switch action.Type {
	case OpenCreate:
		return State[T]{Kind: Create}
	case OpenEdit:
		return State[T]{Kind: Edit, Entity: action.Entity}
	case OpenDelete:
		return State[T]{Kind: Delete, Entity: action.Entity}
	case Close:
		return State[T]{Kind: Closed}
	}
	return state
}
