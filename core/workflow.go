package core

import (
	"log"

	"github.com/wansing/blog/auth"
)

// A workflow unifies creating and updating a resource. It is instantiated for entries and comments.
type workflow struct {
	name         string // for logging
	required     auth.Level
	unknown      string // message if the identifier of an update is empty or malformed
	createFailed string
	updateFailed string

	// location returns the canonical location of the resource.
	location func(id int) string

	// locationWithoutID is true if location does not depend on the id of the resource,
	// so a failed create can redirect there as well.
	locationWithoutID bool
}

// submit runs the workflow:
//
//  1. check the required level, a denial is a bare status code
//  2. reject empty or malformed identifiers of update actions
//  3. validate all fields, collecting one message per missing field
//  4. create or update
//  5. redirect to the canonical location, or to the fallback if there is none
func (w *workflow) submit(s *Session, req *Request, action Action, validateFields func() []string, create func() (int, error), update func(id int) error) Outcome {

	if decision := auth.Check(s.State(), w.required); decision != auth.Allowed {
		return Status(decision.Status())
	}

	var fallback = req.Fallback()

	var id int
	if action.IsUpdate() {
		var ok bool
		if id, ok = action.ID(); !ok {
			s.AddError(w.unknown)
			return SeeOther(fallback)
		}
	}

	// only messages of this request count, older ones might still wait for being displayed
	if messages := validateFields(); len(messages) > 0 {
		s.AddError(messages...)
		return SeeOther(fallback)
	}

	if action.IsUpdate() {
		if err := update(id); err != nil {
			log.Printf("error updating %s %d: %v", w.name, id, err)
			s.AddError(w.updateFailed)
		}
		return SeeOther(w.location(id))
	}

	newID, err := create()
	if err != nil {
		log.Printf("error creating %s: %v", w.name, err)
		s.AddError(w.createFailed)
		if w.locationWithoutID {
			return SeeOther(w.location(0))
		}
		return SeeOther(fallback)
	}
	return SeeOther(w.location(newID))
}
