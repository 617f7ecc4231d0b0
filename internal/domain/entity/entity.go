// Package entity holds the directory records the classifier resolves text against.
package entity

import (
	"fmt"

	"github.com/kailas-cloud/searchintent/internal/domain"
)

// Kind is the entity variant.
type Kind string

// Entity kinds.
const (
	Place    Kind = "place"
	Category Kind = "category"
	Brand    Kind = "brand"
)

// Kinds lists every kind in default precedence order.
func Kinds() []Kind { return []Kind{Place, Category, Brand} }

// IsValid checks if the kind is one of the supported values.
func (k Kind) IsValid() bool {
	return k == Place || k == Category || k == Brand
}

// ParseKind converts a config or wire value into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownKind, s)
	}
	return k, nil
}

// Record is a read-only view of a place, category or brand.
type Record struct {
	kind         Kind
	id           string
	name         string
	slug         string
	countrySlug  string
	singularName string
	pluralName   string
}

// NewPlace creates a place record. countrySlug may be empty for top level places.
func NewPlace(id, name, slug, countrySlug string) Record {
	return Record{kind: Place, id: id, name: name, slug: slug, countrySlug: countrySlug}
}

// NewCategory creates a category record. Singular and plural names are optional.
func NewCategory(id, name, slug, singularName, pluralName string) Record {
	return Record{
		kind: Category, id: id, name: name, slug: slug,
		singularName: singularName, pluralName: pluralName,
	}
}

// NewBrand creates a brand record.
func NewBrand(id, name, slug string) Record {
	return Record{kind: Brand, id: id, name: name, slug: slug}
}

// Kind returns the entity variant.
func (r *Record) Kind() Kind { return r.kind }

// ID returns the stable identifier.
func (r *Record) ID() string { return r.id }

// Name returns the display name.
func (r *Record) Name() string { return r.name }

// Slug returns the canonical slug.
func (r *Record) Slug() string { return r.slug }

// CountrySlug returns the parent country or region slug (places only).
func (r *Record) CountrySlug() string { return r.countrySlug }

// SingularName returns the singular form, falling back to the display name.
func (r *Record) SingularName() string {
	if r.singularName != "" {
		return r.singularName
	}
	return r.name
}

// HasSingularName reports whether an explicit singular form is set.
func (r *Record) HasSingularName() bool { return r.singularName != "" }

// PluralName returns the plural form, falling back to the display name.
func (r *Record) PluralName() string {
	if r.pluralName != "" {
		return r.pluralName
	}
	return r.name
}

// Names returns every distinct name form, display name first.
func (r *Record) Names() []string {
	names := []string{r.name}
	for _, n := range []string{r.singularName, r.pluralName} {
		if n == "" {
			continue
		}
		dup := false
		for _, have := range names {
			if have == n {
				dup = true
				break
			}
		}
		if !dup {
			names = append(names, n)
		}
	}
	return names
}
