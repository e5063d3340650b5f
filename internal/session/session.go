// Package session defines the authenticated-principal value object and the
// access check applied before every personalized or state-mutating
// operation.  A Session is built once per request by the JWT middleware and
// passed by value into handlers; it is never mutated after construction.
package session

import "errors"

// ErrUnauthenticated is returned when no principal is present in the
// session.  Handlers translate this into an HTTP 401 response.
var ErrUnauthenticated = errors.New("not logged in")

// ErrUnauthorized is returned when a principal is present but lacks the
// required role.  Handlers translate this into an HTTP 403 response.
var ErrUnauthorized = errors.New("forbidden")

// Role names the class of principal an operation requires.
type Role string

const (
	// RoleAny accepts any authenticated principal.
	RoleAny Role = "any"
	// RoleUser accepts ordinary users and administrators alike.
	RoleUser Role = "user"
	// RoleAdmin accepts administrators only.
	RoleAdmin Role = "admin"
)

// Principal identifies the authenticated caller.
type Principal struct {
	UserID uint64 // database identifier of the user
	Handle string // unique login handle
	Admin  bool   // whether the user holds the administrator flag
}

// Session carries at most one principal for the duration of a request.
// The zero value is an anonymous session.
type Session struct {
	principal Principal
	present   bool
}

// New returns a session carrying the given principal.
func New(p Principal) Session {
	return Session{principal: p, present: true}
}

// Anonymous returns a session with no principal.
func Anonymous() Session {
	return Session{}
}

// Principal returns the stored principal and whether one is present.
func (s Session) Principal() (Principal, bool) {
	return s.principal, s.present
}

// Require returns the session's principal when it satisfies the requested
// role.  It returns ErrUnauthenticated when the session carries no
// principal at all, and ErrUnauthorized when a principal is present but
// the operation demands an administrator.  The check is read-only; callers
// must invoke it before touching any store.
func Require(s Session, role Role) (Principal, error) {
	p, ok := s.Principal()
	if !ok {
		return Principal{}, ErrUnauthenticated
	}
	if role == RoleAdmin && !p.Admin {
		return Principal{}, ErrUnauthorized
	}
	return p, nil
}
