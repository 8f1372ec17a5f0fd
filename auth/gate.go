package auth

import "net/http"

// Level is the capability level a route requires.
type Level int

const (
	None Level = iota
	Authenticated
	Administrator
)

func (l Level) String() string {
	switch l {
	case None:
		return "none"
	case Authenticated:
		return "authenticated"
	case Administrator:
		return "administrator"
	}
	return "unknown"
}

// Decision is the result of Check.
type Decision int

const (
	Allowed Decision = iota
	Unauthenticated
	Forbidden
)

// String returns the fixed phrase which is sent as response body on denial.
func (d Decision) String() string {
	switch d {
	case Allowed:
		return "Allowed"
	case Unauthenticated:
		return "Unauthorized"
	case Forbidden:
		return "Forbidden"
	}
	return "unknown"
}

// Status returns the HTTP status code of a denial, or zero if the decision is Allowed.
func (d Decision) Status() int {
	switch d {
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	}
	return 0
}

// State is the part of a session which the gate looks at.
type State struct {
	Authorized    bool
	Administrator bool
}

// Check decides whether a session with the given state may perform an action which requires the given level.
func Check(state State, required Level) Decision {
	switch required {
	case None:
		return Allowed
	case Authenticated:
		if state.Authorized {
			return Allowed
		}
		return Unauthenticated
	case Administrator:
		if state.Administrator {
			return Allowed
		}
		if !state.Authorized {
			return Unauthenticated // anonymous visitors are never Forbidden
		}
		return Forbidden
	}
	return Forbidden // unknown level
}
