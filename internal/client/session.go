package client

import (
	"context"
	"errors"
	"sync"

	"github.com/usamakj/auth-app-be/internal/models"
)

// State is the session manager's authentication state.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateAuthenticated
	StateAnonymous
	StateError
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// SessionStore is the durable storage behind the session manager.
type SessionStore interface {
	Save(token string, user models.User) error
	Load() (token string, user models.User, ok bool, err error)
	Clear() error
}

// SessionManager drives the client's authentication lifecycle: restoring a
// stored session on start, persisting it on login/register, and tearing it
// down on logout or when the server rejects the token.
//
// Concurrent login/register attempts are not de-duplicated; the last response
// to resolve wins.
type SessionManager struct {
	mu    sync.Mutex
	api   Client
	store SessionStore

	state  State
	user   models.User
	token  string
	errMsg string
}

// NewSessionManager creates a manager in the uninitialized state.
func NewSessionManager(api Client, store SessionStore) *SessionManager {
	return &SessionManager{api: api, store: store, state: StateUninitialized}
}

// Initialize restores a stored session, if any. The restore is optimistic:
// no server round-trip is made, so an expired token is only discovered on the
// first authenticated request.
func (m *SessionManager) Initialize() error {
	m.mu.Lock()
	m.state = StateLoading
	m.mu.Unlock()

	token, user, ok, err := m.store.Load()

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.state = StateAnonymous
		return err
	}
	if !ok {
		m.state = StateAnonymous
		return nil
	}

	m.token = token
	m.user = user
	m.state = StateAuthenticated
	m.api.SetAuthToken(token)
	return nil
}

// Login authenticates and persists the session. A failed attempt moves the
// manager to the error state with the server's message.
func (m *SessionManager) Login(ctx context.Context, identifier, password string) error {
	m.setLoading()

	session, err := m.api.Login(ctx, identifier, password)
	if err != nil {
		m.fail(err)
		return err
	}
	return m.adopt(session)
}

// Register creates an account and persists the resulting session. A failed
// attempt moves the manager to the error state with the server's message.
func (m *SessionManager) Register(ctx context.Context, username, email, password, firstName, lastName string) error {
	m.setLoading()

	session, err := m.api.Register(ctx, username, email, password, firstName, lastName)
	if err != nil {
		m.fail(err)
		return err
	}
	return m.adopt(session)
}

// Logout destroys the session and clears durable storage.
func (m *SessionManager) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resetLocked()
}

// ClearError returns from the error state to anonymous with no message.
func (m *SessionManager) ClearError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errMsg = ""
	if m.state == StateError {
		m.state = StateAnonymous
	}
}

// Profile fetches the authenticated user's account, refreshing the cached
// snapshot on success.
func (m *SessionManager) Profile(ctx context.Context) (models.User, error) {
	user, err := m.api.Profile(ctx)
	if err != nil {
		m.interceptUnauthorized(err)
		return models.User{}, err
	}

	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
	return user, nil
}

// CreateComment posts a comment with the current session.
func (m *SessionManager) CreateComment(ctx context.Context, content string) (models.Comment, error) {
	comment, err := m.api.CreateComment(ctx, content)
	if err != nil {
		m.interceptUnauthorized(err)
		return models.Comment{}, err
	}
	return comment, nil
}

// DeleteComment soft-deletes one of the session user's own comments.
func (m *SessionManager) DeleteComment(ctx context.Context, commentID string) error {
	if err := m.api.DeleteComment(ctx, commentID); err != nil {
		m.interceptUnauthorized(err)
		return err
	}
	return nil
}

// State returns the current authentication state.
func (m *SessionManager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// User returns the session's cached user snapshot.
func (m *SessionManager) User() models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// Token returns the session's bearer token, or "" when anonymous.
func (m *SessionManager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// ErrorMessage returns the message recorded by the last failed attempt.
func (m *SessionManager) ErrorMessage() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errMsg
}

// IsAuthenticated reports whether a session is active.
func (m *SessionManager) IsAuthenticated() bool {
	return m.State() == StateAuthenticated
}

func (m *SessionManager) setLoading() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateLoading
	m.errMsg = ""
}

func (m *SessionManager) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateError
	m.errMsg = err.Error()
}

func (m *SessionManager) adopt(session Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = session.Token
	m.user = session.User
	m.state = StateAuthenticated
	m.errMsg = ""
	m.api.SetAuthToken(session.Token)
	return m.store.Save(session.Token, session.User)
}

// interceptUnauthorized implements the global 401 handler: any rejected token
// destroys the session and forces re-authentication.
func (m *SessionManager) interceptUnauthorized(err error) {
	if !errors.Is(err, ErrUnauthorized) {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = m.resetLocked()
}

func (m *SessionManager) resetLocked() error {
	m.token = ""
	m.user = models.User{}
	m.state = StateAnonymous
	m.errMsg = ""
	m.api.SetAuthToken("")
	return m.store.Clear()
}
