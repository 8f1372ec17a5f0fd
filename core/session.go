package core

import "github.com/wansing/blog/auth"

// Session keys. The session payload consists of exactly these fields.
const (
	KeyAuthorized    = "authorized"
	KeyAdministrator = "administrator"
	KeyUserID        = "userID"
	KeyErrors        = "errors"
)

// Session is the request-scoped copy of the session payload. The HTTP layer loads it from the session store before
// calling the core and stores it back afterwards.
type Session struct {
	Authorized    bool
	Administrator bool
	UserID        int // zero if nobody is logged in
	Errors        []string
}

// NewSession returns an anonymous session with an empty error list.
func NewSession() *Session {
	return &Session{
		Errors: []string{},
	}
}

// EnsureErrorList makes sure that s.Errors is not nil. It must run before any other logic.
func EnsureErrorList(s *Session) {
	if s.Errors == nil {
		s.Errors = []string{}
	}
}

// AddError appends user-facing messages. The core never removes messages, the rendering layer does.
func (s *Session) AddError(messages ...string) {
	EnsureErrorList(s)
	s.Errors = append(s.Errors, messages...)
}

func (s *Session) State() auth.State {
	return auth.State{
		Authorized:    s.Authorized,
		Administrator: s.Administrator,
	}
}

func (s *Session) LoggedIn() bool {
	return s.Authorized
}

// Logout returns a fresh default session which replaces the current one, including pending messages.
func Logout() *Session {
	return NewSession()
}
