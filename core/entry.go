package core

import (
	"fmt"
	"log"
	"net/http"

	"github.com/wansing/blog/auth"
)

type EntryDB interface {
	GetEntry(id int) (Entry, error) // returns ErrNotFound if there is no such entry
	GetAllEntries() ([]Entry, error)
	InsertEntry(title, content string) (int, error)
	UpdateEntry(id int, title, content string) error
	DeleteEntry(id int) error // deletes the comments of the entry as well
}

const (
	msgEntryUnknown      = "The blog entry is unknown."
	msgEntryNotFound     = "The blog entry was not found."
	msgEntryFindFailed   = "Failed to find the specified blog entry."
	msgEntryCreateFailed = "Failed to create a new blog entry."
	msgEntryUpdateFailed = "Failed to update the blog entry."
	msgEntryRemoveFailed = "Failed to remove the blog entry."
)

func entryLocation(id int) string {
	return fmt.Sprintf("/entry/%d", id)
}

var entryWorkflow = &workflow{
	name:         "entry",
	required:     auth.Administrator,
	unknown:      msgEntryUnknown,
	createFailed: msgEntryCreateFailed,
	updateFailed: msgEntryUpdateFailed,
	location:     entryLocation,
}

type entryForm struct {
	Title   string `validate:"required"`
	Content string `validate:"required"`
}

var entryFormMessages = map[string]string{
	"Title":   "The entry title must be specified.",
	"Content": "The entry content must be specified.",
}

// SubmitEntry creates or updates an entry with the body fields "title" and "content". Administrators only.
func (c *CoreDB) SubmitEntry(s *Session, req *Request, action Action) Outcome {
	var form = entryForm{
		Title:   req.FormValue("title"),
		Content: req.FormValue("content"),
	}
	return entryWorkflow.submit(
		s,
		req,
		action,
		func() []string {
			return missing(form, entryFormMessages)
		},
		func() (int, error) {
			return c.EntryDB.InsertEntry(form.Title, form.Content)
		},
		func(id int) error {
			return c.EntryDB.UpdateEntry(id, form.Title, form.Content)
		},
	)
}

// DeleteEntry deletes the entry with the route parameter "id". Administrators only.
// It redirects to the listing, no matter whether the deletion has succeeded.
func (c *CoreDB) DeleteEntry(s *Session, req *Request) Outcome {

	if decision := auth.Check(s.State(), auth.Administrator); decision != auth.Allowed {
		return Status(decision.Status())
	}

	id, ok := parseID(req.Param("id"))
	if !ok {
		s.AddError(msgEntryUnknown)
		return SeeOther(req.Fallback())
	}

	if err := c.EntryDB.DeleteEntry(id); err != nil {
		log.Printf("error deleting entry %d: %v", id, err)
		s.AddError(msgEntryRemoveFailed)
	}

	return SeeOther(DefaultFallback)
}

// ListEntries renders all entries. It is public.
func (c *CoreDB) ListEntries(s *Session, req *Request) Outcome {
	entries, err := c.EntryDB.GetAllEntries()
	if err != nil {
		log.Printf("error getting entries: %v", err)
		return Status(http.StatusInternalServerError)
	}
	return Render("entries", entries)
}

// ViewEntry renders the entry with the route parameter "id" together with its comments and their authors. It is public.
func (c *CoreDB) ViewEntry(s *Session, req *Request) Outcome {

	id, ok := parseID(req.Param("id"))
	if !ok {
		s.AddError(msgEntryUnknown)
		return SeeOther(req.Fallback())
	}

	entry, err := c.EntryDB.GetEntry(id)
	if err != nil {
		log.Printf("error getting entry %d: %v", id, err)
		s.AddError(msgEntryNotFound)
		return SeeOther(req.Fallback())
	}

	comments, err := c.CommentDB.GetComments(id)
	if err != nil {
		log.Printf("error getting comments of entry %d: %v", id, err)
		s.AddError(msgEntryNotFound)
		return SeeOther(req.Fallback())
	}

	return Render("entry", &EntryView{
		Entry:    entry,
		Comments: comments,
	})
}

// EntryForm renders the form for creating or updating an entry. Administrators only.
// The template data is nil for Create.
func (c *CoreDB) EntryForm(s *Session, req *Request, action Action) Outcome {

	if decision := auth.Check(s.State(), auth.Administrator); decision != auth.Allowed {
		return Status(decision.Status())
	}

	if !action.IsUpdate() {
		return Render("entry-form", nil)
	}

	id, ok := action.ID()
	if !ok {
		s.AddError(msgEntryUnknown)
		return SeeOther(req.Fallback())
	}

	entry, err := c.EntryDB.GetEntry(id)
	if err != nil {
		log.Printf("error getting entry %d: %v", id, err)
		s.AddError(msgEntryFindFailed)
		return SeeOther(req.Fallback())
	}

	return Render("entry-form", &entry)
}
