package db

import "errors"

// ErrKeyNotFound is returned when a key has no value.
var ErrKeyNotFound = errors.New("db: key not found")

// Op names attached to errors for diagnostics.
const (
	OpPing = "PING"
	OpGet  = "GET"
	OpSet  = "SET"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
