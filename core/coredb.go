package core

import (
	"errors"

	"github.com/wansing/blog/auth"
)

// ErrNotFound is returned by the database interfaces if a record does not exist.
var ErrNotFound = errors.New("not found")

// CoreDB bundles the database interfaces. The request-time operations are methods of CoreDB.
type CoreDB struct {
	CommentDB
	EntryDB
	UserDB

	BcryptCost int // used for new credentials, zero means auth.DefaultCost
}

func (c *CoreDB) cost() int {
	if c.BcryptCost == 0 {
		return auth.DefaultCost
	}
	return c.BcryptCost
}
