package apperr

import "errors"

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrConflict indicates a state conflict: the resource is already in a
// state that is incompatible with the requested action.
var ErrConflict = errors.New("conflict")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrForbidden indicates that the actor's role does not permit the action,
// or that the actor is not the order's owner / assigned courier.
var ErrForbidden = errors.New("forbidden")

// ErrExpiredRollback indicates that the rollback window for a status
// revert has lapsed.
var ErrExpiredRollback = errors.New("rollback window expired")

// ErrInvalidTransition indicates a status change matching neither the
// forward nor the rollback transition table.
var ErrInvalidTransition = errors.New("invalid status transition")
