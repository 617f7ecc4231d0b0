package entity

import (
	domentity "github.com/kailas-cloud/searchintent/internal/domain/entity"
)

// row is the scan target shared by the three directory tables.
// Columns a table lacks are selected as empty strings.
type row struct {
	ID           string `db:"id"`
	Name         string `db:"name"`
	Slug         string `db:"slug"`
	CountrySlug  string `db:"country_slug"`
	SingularName string `db:"singular_name"`
	PluralName   string `db:"plural_name"`
}

func (r row) toRecord(kind domentity.Kind) domentity.Record {
	switch kind {
	case domentity.Place:
		return domentity.NewPlace(r.ID, r.Name, r.Slug, r.CountrySlug)
	case domentity.Category:
		return domentity.NewCategory(r.ID, r.Name, r.Slug, r.SingularName, r.PluralName)
	default:
		return domentity.NewBrand(r.ID, r.Name, r.Slug)
	}
}
