package types

import "errors"

// The engine error taxonomy. Engines never log; they return one of these
// typed failures and the calling boundary translates it into a wire-level
// response. Access failures carry a generic reason so the existence of other
// owners' data never leaks.

// ValidationError reports malformed or missing input. The caller can fix the
// request and retry.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// AccessError reports an ownership or permission violation.
type AccessError struct {
	Reason string
}

func (e *AccessError) Error() string { return e.Reason }

// ConflictError reports a uniqueness violation, such as a duplicate bookmark
// URL for the same owner.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

// NotFoundError reports an absent entity. List operations return empty
// results instead; get/update/delete return this.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

// IntegrityError reports a failed multi-step mutation. The enclosing
// transaction has been rolled back.
type IntegrityError struct {
	Op  string
	Err error
}

func (e *IntegrityError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *IntegrityError) Unwrap() error { return e.Err }

// Kind checks used by boundaries to map errors to response classes.

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsAccess(err error) bool {
	var e *AccessError
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}
