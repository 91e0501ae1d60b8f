package console

import (
	"net/http"
	"sync"
	"time"

	"github.com/crewdesk/crewdesk/pkg/dialogs"
	"github.com/crewdesk/crewdesk/pkg/models"
	"github.com/crewdesk/crewdesk/pkg/roles"
	"github.com/crewdesk/crewdesk/pkg/users"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const sessionCookieName = "crewdesk_session"

// Toast levels.
const (
	ToastSuccess = "success"
	ToastError   = "error"
)

// Toast is a one-shot notification rendered on the next page load.
type Toast struct {
	Title       string
	Description string
	Level       string
}

// Session holds the per-browser UI state that outlives a single request:
// which dialog is open, the form drafts being edited, pending toasts, and
// which mutations are still in flight.
type Session struct {
	mu        sync.Mutex
	id        string
	expiresAt time.Time

	userDialog dialogs.State[models.User]
	roleDialog dialogs.State[models.Role]
	userDraft  users.UserDraft
	roleDraft  roles.RoleDraft
	inflight   map[string]bool
	toasts     []Toast
}

// UserDialog returns the current user dialog state.
func (s *Session) UserDialog() dialogs.State[models.User] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userDialog
}

// RoleDialog returns the current role dialog state.
func (s *Session) RoleDialog() dialogs.State[models.Role] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roleDialog
}

// DispatchUserDialog applies an action to the user dialog state machine.
func (s *Session) DispatchUserDialog(action dialogs.Action[models.User]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userDialog = dialogs.Reduce(s.userDialog, action)
}

// DispatchRoleDialog applies an action to the role dialog state machine.
func (s *Session) DispatchRoleDialog(action dialogs.Action[models.Role]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roleDialog = dialogs.Reduce(s.roleDialog, action)
}

// CloseDialogs closes both dialogs. Closing is always safe regardless of the
// current state.
func (s *Session) CloseDialogs() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userDialog = dialogs.Reduce(s.userDialog, dialogs.Action[models.User]{Type: dialogs.Close})
	s.roleDialog = dialogs.Reduce(s.roleDialog, dialogs.Action[models.Role]{Type: dialogs.Close})
}

// UserDraft returns the current user form draft.
func (s *Session) UserDraft() users.UserDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userDraft
}

// DispatchUserDraft applies an action to the user form draft.
func (s *Session) DispatchUserDraft(action users.DraftAction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userDraft = users.ReduceDraft(s.userDraft, action)
}

// RoleDraft returns the current role form draft.
func (s *Session) RoleDraft() roles.RoleDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roleDraft
}

// DispatchRoleDraft applies an action to the role form draft.
func (s *Session) DispatchRoleDraft(action roles.DraftAction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roleDraft = roles.ReduceDraft(s.roleDraft, action)
}

// PushToast queues a toast for the next render.
func (s *Session) PushToast(toast Toast) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toasts = append(s.toasts, toast)
}

// PopToasts drains the queued toasts.
func (s *Session) PopToasts() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	toasts := s.toasts
	s.toasts = nil
	return toasts
}

// SetInflight marks an operation as started or finished.
func (s *Session) SetInflight(op string, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v {
		s.inflight[op] = true
	} else {
		delete(s.inflight, op)
	}
}

// Inflight reports whether an operation is still running.
func (s *Session) Inflight(op string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight[op]
}

// SessionStore keeps sessions in memory, keyed by a random cookie value.
// Sessions expire after the configured TTL and are swept lazily.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewSessionStore initializes a new SessionStore.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &SessionStore{
		sessions: map[string]*Session{},
		ttl:      ttl,
	}
}

// Load returns the session for the request, creating one and setting the
// cookie if needed.
func (st *SessionStore) Load(c echo.Context) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := time.Now()
	for id, s := range st.sessions {
		if now.After(s.expiresAt) {
			delete(st.sessions, id)
		}
	}

	if cookie, err := c.Cookie(sessionCookieName); err == nil {
		if s, ok := st.sessions[cookie.Value]; ok {
			s.expiresAt = now.Add(st.ttl)
			return s
		}
	}

	s := &Session{
		id:        uuid.NewString(),
		expiresAt: now.Add(st.ttl),
		inflight:  map[string]bool{},
	}
	st.sessions[s.id] = s

	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    s.id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return s
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
