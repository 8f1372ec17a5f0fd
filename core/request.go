package core

import (
	"fmt"
	"net/url"
	"strconv"
)

// DefaultFallback is the redirect target if the request has no referring page.
const DefaultFallback = "/entries"

// A Request is the inbound request as seen by the core. It is built by the HTTP layer.
type Request struct {
	Method  string
	Path    string
	Params  map[string]string // route parameters
	Form    url.Values        // body fields
	Referer string
}

// Param returns the route parameter with the given name, or an empty string.
func (req *Request) Param(name string) string {
	if req.Params == nil {
		return ""
	}
	return req.Params[name]
}

// FormValue returns the first value of the body field with the given name, or an empty string.
func (req *Request) FormValue(name string) string {
	return req.Form.Get(name)
}

// Fallback returns the page the request originated from, or DefaultFallback.
func (req *Request) Fallback() string {
	if req.Referer != "" {
		return req.Referer
	}
	return DefaultFallback
}

// An Outcome is what the HTTP layer does after the core has handled a request: write a bare status, redirect, or render a template.
type Outcome struct {
	Status   int    // set on denials and internal errors
	Location string // redirect target
	Template string // name of the page to render
	Data     interface{}
}

func Status(code int) Outcome {
	return Outcome{Status: code}
}

func SeeOther(format string, args ...interface{}) Outcome {
	return Outcome{Location: fmt.Sprintf(format, args...)}
}

func Render(template string, data interface{}) Outcome {
	return Outcome{Template: template, Data: data}
}

func (o Outcome) IsRedirect() bool {
	return o.Location != ""
}

// Action selects between creating a new resource and updating an existing one.
// The zero value is Create.
type Action struct {
	update bool
	rawID  string
}

// Create is the action which creates a new resource.
var Create = Action{}

// Update returns the action which updates the resource with the given identifier.
// The identifier is validated when the action is executed.
func Update(rawID string) Action {
	return Action{
		update: true,
		rawID:  rawID,
	}
}

func (a Action) IsUpdate() bool {
	return a.update
}

// ID parses the identifier of an update action. It returns false if the identifier is empty or malformed.
func (a Action) ID() (int, bool) {
	if !a.update {
		return 0, false
	}
	return parseID(a.rawID)
}

func (a Action) String() string {
	if a.update {
		return "update " + a.rawID
	}
	return "create"
}

// parseID accepts positive decimal integers only.
func parseID(s string) (int, bool) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
