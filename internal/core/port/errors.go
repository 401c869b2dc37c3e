package port

import "errors"

var (
	// ErrNotFound is returned for a missing record and for records owned
	// by another user, so the two are indistinguishable to callers.
	ErrNotFound = errors.New("record not found")

	ErrEmailTaken = errors.New("email already in use")
)
