package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuery signals a query that cannot be classified (too long, bad encoding).
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidFilter signals an unknown search filter value.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrInvalidMapping signals a category slug mapping entry that breaks the key invariant.
	ErrInvalidMapping = errors.New("invalid slug mapping")
	// ErrInvalidPrecedence signals a precedence list that is not a permutation of entity kinds.
	ErrInvalidPrecedence = errors.New("invalid precedence")
	// ErrUnknownKind signals an entity kind the index does not serve.
	ErrUnknownKind = errors.New("unknown entity kind")
)

// LookupError wraps a failed entity index lookup with the kind that failed.
type LookupError struct {
	Kind string
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %s: %s", e.Kind, e.Err.Error())
}

func (e *LookupError) Unwrap() error { return e.Err }
