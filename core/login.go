package core

import (
	"log"

	"github.com/wansing/blog/auth"
)

const (
	msgLoginMissing    = "The login was not provided."
	msgPasswordMissing = "The password was not provided."
	msgAuthFailed      = "Failed to authenticate."
	msgLoginInvalid    = "The login or password is not valid."
)

// Authenticate tries to log in a user. On success, the session becomes authenticated (and administrator, if the
// user is one) and true is returned. On failure, messages are appended to the session and the session is not changed
// otherwise.
func (c *CoreDB) Authenticate(s *Session, login, password string) bool {

	if login == "" {
		s.AddError(msgLoginMissing)
	}
	if password == "" {
		s.AddError(msgPasswordMissing)
	}
	if login == "" || password == "" {
		return false
	}

	// ErrNotFound and database errors are not distinguished
	user, err := c.UserDB.GetUserByLogin(login)
	if err != nil {
		log.Printf("error getting user %s: %v", login, err)
		s.AddError(msgAuthFailed)
		return false
	}

	if !auth.VerifyPassword(password, user.Credentials) {
		s.AddError(msgLoginInvalid) // don't reveal which one was wrong
		return false
	}

	s.UserID = user.ID
	s.Authorized = true
	s.Administrator = user.Administrator
	return true
}

// Login authenticates with the body fields "login" and "password" and redirects to "/".
func (c *CoreDB) Login(s *Session, req *Request) Outcome {
	c.Authenticate(s, req.FormValue("login"), req.FormValue("password"))
	return SeeOther("/")
}

// LoginPage renders the login form.
func LoginPage() Outcome {
	return Render("login", nil)
}
