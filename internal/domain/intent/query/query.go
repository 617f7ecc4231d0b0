package query

import (
	"fmt"
	"unicode/utf8"

	"github.com/kailas-cloud/searchintent/internal/domain"
	"github.com/kailas-cloud/searchintent/internal/domain/intent/filter"
)

// MaxQueryLength is the maximum accepted raw query length in bytes.
const MaxQueryLength = 4096

// Query is a validated classification request.
type Query struct {
	rawText string
	filter  filter.Filter
}

// New validates raw input. An empty filter defaults to filter.All.
// Empty text is valid and classifies to the search fallback.
func New(rawText string, f filter.Filter) (Query, error) {
	if len(rawText) > MaxQueryLength {
		return Query{}, fmt.Errorf("%w: query too long (max %d bytes)", domain.ErrInvalidQuery, MaxQueryLength)
	}
	if !utf8.ValidString(rawText) {
		return Query{}, fmt.Errorf("%w: query is not valid UTF-8", domain.ErrInvalidQuery)
	}
	if f == "" {
		f = filter.All
	}
	if !f.IsValid() {
		return Query{}, fmt.Errorf("%w: %q", domain.ErrInvalidFilter, f)
	}
	return Query{rawText: rawText, filter: f}, nil
}

// RawText returns the text as the user typed it.
func (q *Query) RawText() string { return q.rawText }

// Filter returns the destination filter.
func (q *Query) Filter() filter.Filter { return q.filter }
