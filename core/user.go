package core

import (
	"errors"
	"strings"

	"github.com/wansing/blog/auth"
)

type UserDB interface {
	GetUser(id int) (User, error)
	GetUserByLogin(login string) (User, error) // returns ErrNotFound if there is no such user
	UpsertUser(u User) error                   // inserts the user or updates credentials and role of the user with the same login
}

var ErrEmptyLogin = errors.New("login can't be empty")

// Seed hashes the password and upserts an account. It is idempotent and used at startup.
func (c *CoreDB) Seed(login, password string, administrator bool) error {
	login = strings.TrimSpace(login)
	if login == "" {
		return ErrEmptyLogin
	}
	credentials, err := auth.HashPassword(password, c.cost())
	if err != nil {
		return err
	}
	return c.UserDB.UpsertUser(User{
		Login:         login,
		Credentials:   credentials,
		Administrator: administrator,
	})
}
