package client

import (
	"sync"

	"civictrack/models"
)

// Keys of the flat session store kept by the browser.
const (
	KeyToken        = "token"
	KeyLoggedInUser = "loggedInUser"
	KeyUserEmail    = "userEmail"
	KeyUserRole     = "userRole"
)

// SessionState is a consistent snapshot of a Session.
type SessionState struct {
	Loading bool
	Token   string
	User    Principal
}

func (s SessionState) Authenticated() bool { return s.Token != "" }

// Session holds the credential and principal. Every write replaces both
// together so a reader never sees a token without its role.
type Session struct {
	mu    sync.RWMutex
	state SessionState
}

func NewSession() *Session { return &Session{} }

// Set stores a freshly issued credential.
func (s *Session) Set(token string, user Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Token = token
	s.state.User = user
}

// Clear drops the credential and principal.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Token = ""
	s.state.User = Principal{}
}

// Revalidate replaces the principal only while token is still the stored
// credential. It reports whether the write happened.
func (s *Session) Revalidate(token string, user Principal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token == "" || s.state.Token != token {
		return false
	}
	s.state.User = user
	return true
}

// ClearIf signs out only while token is still the stored credential.
func (s *Session) ClearIf(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token == "" || s.state.Token != token {
		return false
	}
	s.state.Token = ""
	s.state.User = Principal{}
	return true
}

// SetLoading marks whether the stored credential is being revalidated.
func (s *Session) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = loading
}

func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// Flatten returns the four-key form of the session, or an empty map when
// signed out.
func (s *Session) Flatten() map[string]string {
	st := s.State()
	if !st.Authenticated() {
		return map[string]string{}
	}
	return map[string]string{
		KeyToken:        st.Token,
		KeyLoggedInUser: st.User.Name,
		KeyUserEmail:    st.User.Email,
		KeyUserRole:     string(st.User.Role),
	}
}

// SessionFromFlat restores a session from the four-key store. A store with
// a token but no recognised role yields a signed-out session.
func SessionFromFlat(kv map[string]string) *Session {
	s := NewSession()
	token := kv[KeyToken]
	role, ok := models.ParseRole(kv[KeyUserRole])
	if token == "" || !ok {
		return s
	}
	s.Set(token, Principal{Name: kv[KeyLoggedInUser], Email: kv[KeyUserEmail], Role: role})
	return s
}
