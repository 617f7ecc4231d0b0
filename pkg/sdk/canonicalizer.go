package searchintent

import (
	"fmt"

	"github.com/kailas-cloud/searchintent/internal/domain/slug"
)

// Canonicalizer converts between category slugs and their repair forms.
// The zero value is not usable; obtain one from NewCanonicalizer or
// Client.Canonicalizer.
type Canonicalizer struct {
	mapping slug.Mapping
}

// NewCanonicalizer builds a Canonicalizer from the default singular token
// table plus overrides (may be nil).
func NewCanonicalizer(overrides map[string]string) (Canonicalizer, error) {
	m, err := slug.DefaultMapping().With(overrides)
	if err != nil {
		return Canonicalizer{}, fmt.Errorf("searchintent: %w", err)
	}
	return Canonicalizer{mapping: m}, nil
}

// RepairSlugToCategorySlug maps "washing-machine-repair" to "washing-machines".
func (c Canonicalizer) RepairSlugToCategorySlug(repairSlug string) string {
	return c.mapping.RepairSlugToCategorySlug(repairSlug)
}

// CategorySlugToRepairSlug maps "washing-machines" to "washing-machine-repair".
func (c Canonicalizer) CategorySlugToRepairSlug(categorySlug string) string {
	return c.mapping.CategorySlugToRepairSlug(categorySlug)
}

// CategoryNameToRepairSlug maps a singular category name such as
// "Washing Machine" to "washing-machine-repair".
func (c Canonicalizer) CategoryNameToRepairSlug(singularName string) string {
	return slug.CategoryNameToRepairSlug(singularName)
}

// IsRepairSlug reports whether s is in repair form.
func (c Canonicalizer) IsRepairSlug(s string) bool {
	return slug.IsRepairSlug(s)
}
