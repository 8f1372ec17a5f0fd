package core

import (
	"net/http"
	"net/url"
	"strconv"
	"testing"
)

func itoa(i int) string {
	return strconv.Itoa(i)
}

func commentRequest(entryID, content string) *Request {
	return &Request{
		Method:  "POST",
		Params:  map[string]string{"entryID": entryID},
		Form:    url.Values{"content": {content}},
		Referer: "/entry/" + entryID,
	}
}

func TestSubmitCommentAnonymous(t *testing.T) {
	c, db := newTestCore(t)

	var s = NewSession()
	var o = c.SubmitComment(s, commentRequest("3", ""), Create)
	if o.Status != http.StatusUnauthorized {
		t.Errorf("got %+v, want 401", o)
	}
	assertErrors(t, s) // rejected before validation
	if db.calls != 0 {
		t.Errorf("store was called %d times", db.calls)
	}
}

func TestSubmitCommentCreate(t *testing.T) {
	c, db := newTestCore(t)
	var s = userSession(t, c)
	entryID, _ := db.InsertEntry("a", "b")

	var o = c.SubmitComment(s, commentRequest(itoa(entryID), "nice"), Create)
	assertRedirect(t, o, entryLocation(entryID))
	assertErrors(t, s)

	comments, _ := db.GetComments(entryID)
	if len(comments) != 1 || comments[0].Content != "nice" || comments[0].UserID != s.UserID {
		t.Errorf("stored comments: %+v", comments)
	}
}

func TestSubmitCommentValidation(t *testing.T) {
	c, db := newTestCore(t)
	var s = userSession(t, c)
	s.UserID = 0 // authorized, but owner unknown
	db.calls = 0

	var o = c.SubmitComment(s, commentRequest("x", ""), Create)
	assertRedirect(t, o, "/entry/x")
	assertErrors(t, s,
		"The comment must be specified.",
		"The comment's owner is unknown.",
		"The owning blog entry is not specified.",
	)
	if db.calls != 0 {
		t.Errorf("store was called %d times", db.calls)
	}
}

func TestSubmitCommentUnknownUser(t *testing.T) {
	c, db := newTestCore(t)
	var s = userSession(t, c)
	entryID, _ := db.InsertEntry("a", "b")
	s.UserID = 42

	var o = c.SubmitComment(s, commentRequest(itoa(entryID), "nice"), Create)
	assertRedirect(t, o, entryLocation(entryID))
	assertErrors(t, s, "The comment's owner is unknown.")
	if len(db.comments) != 0 {
		t.Errorf("stored comments: %+v", db.comments)
	}
}

func TestSubmitCommentUnknownID(t *testing.T) {
	c, _ := newTestCore(t)
	var s = userSession(t, c)

	var o = c.SubmitComment(s, commentRequest("3", "text"), Update(""))
	assertRedirect(t, o, "/entry/3")
	assertErrors(t, s, "The comment is unknown.")
}

func TestSubmitCommentUpdateByOtherUser(t *testing.T) {
	c, db := newTestCore(t)
	var admin = adminSession(t, c)
	var user = userSession(t, c)
	entryID, _ := db.InsertEntry("a", "b")
	commentID, _ := db.InsertComment(entryID, admin.UserID, "by admin")

	var o = c.SubmitComment(user, commentRequest(itoa(entryID), "edited"), Update(itoa(commentID)))
	assertRedirect(t, o, entryLocation(entryID))
	assertErrors(t, user)

	if got := db.comments[commentID]; got.Content != "edited" || got.UserID != user.UserID {
		t.Errorf("stored comment: %+v", got)
	}
}

func TestSubmitCommentFailures(t *testing.T) {
	c, db := newTestCore(t)
	var s = userSession(t, c)
	db.failWrites = true

	assertRedirect(t, c.SubmitComment(s, commentRequest("3", "text"), Create), "/entry/3")
	assertErrors(t, s, "Failed to create a new comment.")

	s.Errors = []string{}
	assertRedirect(t, c.SubmitComment(s, commentRequest("3", "text"), Update("4")), "/entry/3")
	assertErrors(t, s, "Failed to update the comment.")
}

func TestSubmitCommentUserLookupFailure(t *testing.T) {
	c, db := newTestCore(t)
	var s = userSession(t, c)
	db.fail = true

	assertRedirect(t, c.SubmitComment(s, commentRequest("3", "text"), Create), "/entry/3")
	assertErrors(t, s, "The comment's owner is unknown.")
}
