package searchintent

import "github.com/kailas-cloud/searchintent/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery      = domain.ErrInvalidQuery
	ErrInvalidFilter     = domain.ErrInvalidFilter
	ErrInvalidMapping    = domain.ErrInvalidMapping
	ErrInvalidPrecedence = domain.ErrInvalidPrecedence
)
