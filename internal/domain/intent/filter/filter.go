package filter

import (
	"fmt"

	"github.com/kailas-cloud/searchintent/internal/domain"
	"github.com/kailas-cloud/searchintent/internal/domain/entity"
)

// Filter narrows what kind of destination the user is after.
type Filter string

// Filter values.
const (
	All    Filter = "all"
	Buy    Filter = "buy"
	Repair Filter = "repair"
)

// IsValid checks if the filter is one of the supported values.
func (f Filter) IsValid() bool {
	return f == All || f == Buy || f == Repair
}

// Parse converts a wire value; empty input means All.
func Parse(s string) (Filter, error) {
	if s == "" {
		return All, nil
	}
	f := Filter(s)
	if !f.IsValid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidFilter, s)
	}
	return f, nil
}

// Allows reports whether entities of kind k may be matched under f.
// Repair searches never resolve to a brand page.
func (f Filter) Allows(k entity.Kind) bool {
	if f == Repair {
		return k == entity.Place || k == entity.Category
	}
	return k.IsValid()
}

// ForcesRepair reports whether results must be biased toward repair pages.
func (f Filter) ForcesRepair() bool { return f == Repair }

// ForbidsRepair reports whether results must stay on retail pages.
func (f Filter) ForbidsRepair() bool { return f == Buy }
