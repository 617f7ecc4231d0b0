// Package entity serves directory lookups from PostgreSQL.
package entity

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/kailas-cloud/searchintent/internal/domain"
	domentity "github.com/kailas-cloud/searchintent/internal/domain/entity"
	"github.com/kailas-cloud/searchintent/internal/domain/slug"
)

// DefaultLimit caps the candidates returned per kind.
const DefaultLimit = 200

// Candidate queries. $1 is an array of ILIKE patterns, $2 the row limit,
// $3 the bare search terms and $4 their prefix patterns.
// Hyphens in slugs are compared as spaces so "built in" reaches "built-in-ovens".
// Rows are ranked before the limit applies: exact name or slug hits, then
// prefix hits, then shorter names, so a common term cannot push the
// intended entity out of the candidate set.
const (
	rankAndLimit = `
ORDER BY (lower(name) = ANY($3) OR slug = ANY($3)) DESC,
	lower(name) LIKE ANY($4) DESC,
	length(name), name, id
LIMIT $2`

	placesQuery = `SELECT id::text AS id, name, slug, COALESCE(country_slug, '') AS country_slug,
	'' AS singular_name, '' AS plural_name
FROM places
WHERE name ILIKE ANY($1) OR replace(slug, '-', ' ') ILIKE ANY($1) OR slug ILIKE ANY($1)` + rankAndLimit

	categoriesQuery = `SELECT id::text AS id, name, slug, '' AS country_slug,
	COALESCE(singular_name, '') AS singular_name, COALESCE(plural_name, '') AS plural_name
FROM categories
WHERE name ILIKE ANY($1) OR singular_name ILIKE ANY($1) OR plural_name ILIKE ANY($1)
	OR replace(slug, '-', ' ') ILIKE ANY($1) OR slug ILIKE ANY($1)` + rankAndLimit

	brandsQuery = `SELECT id::text AS id, name, slug, '' AS country_slug,
	'' AS singular_name, '' AS plural_name
FROM brands
WHERE name ILIKE ANY($1) OR replace(slug, '-', ' ') ILIKE ANY($1) OR slug ILIKE ANY($1)` + rankAndLimit
)

var queries = map[domentity.Kind]string{
	domentity.Place:    placesQuery,
	domentity.Category: categoriesQuery,
	domentity.Brand:    brandsQuery,
}

// Repo implements classify.EntityIndex over the places, categories and brands tables.
type Repo struct {
	db      *sqlx.DB
	mapping slug.Mapping
	limit   int
}

// New creates a PostgreSQL entity index. mapping widens category lookups
// to the slugs irregular plurals map to.
func New(db *sqlx.DB, mapping slug.Mapping) *Repo {
	return &Repo{db: db, mapping: mapping, limit: DefaultLimit}
}

// WithLimit overrides the per-kind candidate cap.
func (r *Repo) WithLimit(n int) *Repo {
	if n > 0 {
		r.limit = n
	}
	return r
}

// Lookup returns records of kind whose names or slugs share a search term with text.
func (r *Repo) Lookup(ctx context.Context, kind domentity.Kind, text string) ([]domentity.Record, error) {
	q, ok := queries[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}
	terms := r.mapping.SearchTerms(text)
	if len(terms) == 0 {
		return nil, nil
	}

	var rows []row
	err := r.db.SelectContext(ctx, &rows, q,
		pq.Array(likePatterns(terms)), r.limit, pq.Array(terms), pq.Array(prefixPatterns(terms)))
	if err != nil {
		return nil, &domain.LookupError{Kind: string(kind), Err: err}
	}

	out := make([]domentity.Record, len(rows))
	for i, rw := range rows {
		out[i] = rw.toRecord(kind)
	}
	return out, nil
}

func likePatterns(terms []string) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = "%" + t + "%"
	}
	return out
}

func prefixPatterns(terms []string) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = t + "%"
	}
	return out
}
