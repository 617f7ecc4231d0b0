package classify

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kailas-cloud/searchintent/internal/domain/entity"
	"github.com/kailas-cloud/searchintent/internal/domain/intent/result"
	"github.com/kailas-cloud/searchintent/internal/domain/normalize"
	"github.com/kailas-cloud/searchintent/internal/domain/slug"
)

// candidate is an entity record with its comparison keys precomputed.
type candidate struct {
	rec     entity.Record
	keys    []string // distinct name keys, longest first
	slugKey string
}

func newCandidate(rec entity.Record, mapping slug.Mapping) candidate {
	seen := make(map[string]struct{})
	var keys []string
	add := func(s string) {
		k := normalize.Key(s)
		if k == "" {
			return
		}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}

	for _, n := range rec.Names() {
		add(n)
	}
	if rec.Kind() == entity.Category {
		for _, alias := range mapping.AliasesFor(rec.Slug()) {
			add(alias)
		}
	}
	sort.SliceStable(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })

	return candidate{rec: rec, keys: keys, slugKey: normalize.Key(rec.Slug())}
}

// input is the immutable per-request state every pass reads.
type input struct {
	text      string // match key with intent tokens removed
	repair    bool   // results should land on repair pages
	order     []entity.Kind
	byKind    map[entity.Kind][]candidate
	mapping   slug.Mapping
	minPrefix int
}

// buildCandidates normalizes records and orders them by name then id so
// equal matches resolve the same way on every request.
func buildCandidates(records map[entity.Kind][]entity.Record, mapping slug.Mapping) map[entity.Kind][]candidate {
	out := make(map[entity.Kind][]candidate, len(records))
	for kind, recs := range records {
		cs := make([]candidate, 0, len(recs))
		for _, r := range recs {
			if r.Kind() != kind {
				continue
			}
			c := newCandidate(r, mapping)
			if len(c.keys) == 0 {
				continue
			}
			cs = append(cs, c)
		}
		sort.SliceStable(cs, func(i, j int) bool {
			if cs[i].rec.Name() != cs[j].rec.Name() {
				return cs[i].rec.Name() < cs[j].rec.Name()
			}
			return cs[i].rec.ID() < cs[j].rec.ID()
		})
		out[kind] = cs
	}
	return out
}

// single resolves a lone matched entity to its destination.
func (in *input) single(c *candidate) result.Result {
	r := &c.rec
	switch r.Kind() {
	case entity.Place:
		return result.ForPlace(r.Name(), r.CountrySlug(), r.Slug())
	case entity.Category:
		if in.repair {
			return result.ForRepairCategory(in.repairLabel(c), in.repairSlug(c))
		}
		return result.ForCategory(r.Name(), r.Slug())
	case entity.Brand:
		return result.ForBrand(r.Name(), r.Slug())
	default:
		return result.Fallback()
	}
}

// repairSlug derives the repair page slug from the singular category name,
// or from the slug table when the record carries no singular form.
func (in *input) repairSlug(c *candidate) string {
	if c.rec.HasSingularName() {
		return slug.CategoryNameToRepairSlug(normalize.Key(c.rec.SingularName()))
	}
	return in.mapping.CategorySlugToRepairSlug(c.rec.Slug())
}

// repairLabel names a repair page after the singular form its slug is
// built from: "Hob Repair" for a "Hobs" category without a singular name.
func (in *input) repairLabel(c *candidate) string {
	if c.rec.HasSingularName() {
		return fmt.Sprintf("%s Repair", c.rec.SingularName())
	}
	token := strings.TrimSuffix(in.repairSlug(c), slug.RepairSuffix)
	// Caser holds state; one per call keeps concurrent requests apart.
	title := cases.Title(language.English).String(strings.ReplaceAll(token, "-", " "))
	return fmt.Sprintf("%s Repair", title)
}

// hyphenate turns a match key back into slug form.
func hyphenate(key string) string {
	return strings.ReplaceAll(key, " ", "-")
}
