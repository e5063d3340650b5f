// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a record owned by someone
// else, while ErrConflict signals that an operation cannot proceed
// due to existing dependent records (e.g. deleting a venue that
// still has orders).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a record they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state, such as attempting to
// delete a venue that still has orders. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrInvalidState is returned when an order state transition is not
// allowed from the record's current state, such as finishing an
// order that was never confirmed. Handlers should translate this
// into an HTTP 400 response.
var ErrInvalidState = errors.New("invalid state transition")
