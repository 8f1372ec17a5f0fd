package core

import (
	"errors"
	"log"

	"github.com/wansing/blog/auth"
)

type CommentDB interface {
	GetComments(entryID int) ([]CommentView, error) // ordered by creation, joined with the authors
	InsertComment(entryID, userID int, content string) (int, error)
	UpdateComment(id, entryID, userID int, content string) error
}

type commentForm struct {
	Content string `validate:"required"`
	UserID  int    `validate:"required"`
	EntryID int    `validate:"required"`
}

var commentFormMessages = map[string]string{
	"Content": "The comment must be specified.",
	"UserID":  "The comment's owner is unknown.",
	"EntryID": "The owning blog entry is not specified.",
}

// SubmitComment creates or updates a comment with the body field "content". Authenticated users only.
// The author is the acting user, the owning entry is the route parameter "entryID".
//
// Updating a comment does not check that the acting user has written it. Any authenticated user can edit any comment
// and becomes its author.
func (c *CoreDB) SubmitComment(s *Session, req *Request, action Action) Outcome {

	// zero if the route parameter is missing or malformed, which fails validation
	entryID, _ := parseID(req.Param("entryID"))

	var form = commentForm{
		Content: req.FormValue("content"),
		UserID:  s.UserID,
		EntryID: entryID,
	}

	var w = &workflow{
		name:              "comment",
		required:          auth.Authenticated,
		unknown:           "The comment is unknown.",
		createFailed:      "Failed to create a new comment.",
		updateFailed:      "Failed to update the comment.",
		location:          func(int) string { return entryLocation(entryID) },
		locationWithoutID: true,
	}

	return w.submit(
		s,
		req,
		action,
		func() []string {
			if form.UserID != 0 && !c.userExists(form.UserID) {
				form.UserID = 0 // reported as unknown owner
			}
			return missing(form, commentFormMessages)
		},
		func() (int, error) {
			return c.CommentDB.InsertComment(form.EntryID, form.UserID, form.Content)
		},
		func(id int) error {
			return c.CommentDB.UpdateComment(id, form.EntryID, form.UserID, form.Content)
		},
	)
}

// userExists re-checks the acting user, whose account might have been replaced since the login.
func (c *CoreDB) userExists(id int) bool {
	_, err := c.UserDB.GetUser(id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		log.Printf("error getting user %d: %v", id, err)
	}
	return err == nil
}
