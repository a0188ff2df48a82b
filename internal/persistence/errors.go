package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("persistence: duplicate record")
	// ErrConstraintViolation is returned when a record breaks a check or
	// foreign key constraint.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
	// ErrConflict is returned when a week plan assignment would overlap an
	// existing assignment of the same room.
	ErrConflict = errors.New("persistence: overlapping assignment")
)
