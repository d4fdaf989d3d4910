package roster

import "errors"

var (
	ErrNotFound       = errors.New("student not found")
	ErrDuplicateEmail = errors.New("email is already registered")
	ErrPersist        = errors.New("could not save students")
	ErrLoad           = errors.New("could not load students")
)
