// Package static serves directory lookups from an in-memory snapshot
// loaded from a YAML seed file.
package static

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/searchintent/internal/domain"
	"github.com/kailas-cloud/searchintent/internal/domain/entity"
	"github.com/kailas-cloud/searchintent/internal/domain/normalize"
	"github.com/kailas-cloud/searchintent/internal/domain/slug"
)

// Seed is the YAML document layout.
type Seed struct {
	Places     []PlaceRow    `yaml:"places"`
	Categories []CategoryRow `yaml:"categories"`
	Brands     []BrandRow    `yaml:"brands"`
}

// PlaceRow is one place in the seed file.
type PlaceRow struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	CountrySlug string `yaml:"country_slug"`
}

// CategoryRow is one category in the seed file.
type CategoryRow struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Slug         string `yaml:"slug"`
	SingularName string `yaml:"singular_name"`
	PluralName   string `yaml:"plural_name"`
}

// BrandRow is one brand in the seed file.
type BrandRow struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}

type entry struct {
	rec      entity.Record
	haystack string // normalized names and slug, space separated
}

// Index implements classify.EntityIndex over a fixed record set.
type Index struct {
	mapping slug.Mapping
	byKind  map[entity.Kind][]entry
}

// Load reads a seed file.
func Load(path string, mapping slug.Mapping) (*Index, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path from config
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed %s: %w", path, err)
	}
	return New(seed, mapping)
}

// New builds an index from an in-memory seed.
func New(seed Seed, mapping slug.Mapping) (*Index, error) {
	idx := &Index{mapping: mapping, byKind: make(map[entity.Kind][]entry)}
	for _, p := range seed.Places {
		if err := idx.add(entity.NewPlace(p.ID, p.Name, p.Slug, p.CountrySlug)); err != nil {
			return nil, err
		}
	}
	for _, c := range seed.Categories {
		if err := idx.add(entity.NewCategory(c.ID, c.Name, c.Slug, c.SingularName, c.PluralName)); err != nil {
			return nil, err
		}
	}
	for _, b := range seed.Brands {
		if err := idx.add(entity.NewBrand(b.ID, b.Name, b.Slug)); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

func (idx *Index) add(rec entity.Record) error {
	if rec.ID() == "" || rec.Name() == "" || rec.Slug() == "" {
		return fmt.Errorf("seed %s %q: id, name and slug are required", rec.Kind(), rec.Name())
	}
	parts := make([]string, 0, 4)
	for _, n := range rec.Names() {
		parts = append(parts, normalize.Key(n))
	}
	parts = append(parts, normalize.Key(rec.Slug()), rec.Slug())
	idx.byKind[rec.Kind()] = append(idx.byKind[rec.Kind()], entry{rec: rec, haystack: strings.Join(parts, " | ")})
	return nil
}

// Len returns the number of records of kind.
func (idx *Index) Len(kind entity.Kind) int { return len(idx.byKind[kind]) }

// Lookup returns records of kind that share a search term with text.
func (idx *Index) Lookup(ctx context.Context, kind entity.Kind, text string) ([]entity.Record, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}
	if err := ctx.Err(); err != nil {
		return nil, &domain.LookupError{Kind: string(kind), Err: err}
	}
	terms := idx.mapping.SearchTerms(text)
	if len(terms) == 0 {
		return nil, nil
	}

	var out []entity.Record
	for _, e := range idx.byKind[kind] {
		for _, t := range terms {
			if strings.Contains(e.haystack, t) {
				out = append(out, e.rec)
				break
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name() != out[j].Name() {
			return out[i].Name() < out[j].Name()
		}
		return out[i].ID() < out[j].ID()
	})
	return out, nil
}
