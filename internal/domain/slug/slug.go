// Package slug converts between retail category slugs (plural, e.g.
// "washing-machines") and repair service slugs (singular with a "-repair"
// suffix, e.g. "washing-machine-repair").
package slug

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/kailas-cloud/searchintent/internal/domain"
)

// RepairSuffix terminates every repair service slug.
const RepairSuffix = "-repair"

// defaultEntries holds the pluralizations a suffix rule gets wrong or that
// point at a differently named retail category.
var defaultEntries = map[string]string{
	"washing-machine": "washing-machines",
	"dishwasher":      "dishwashers",
	"tumble-dryer":    "tumble-dryers",
	"washer-dryer":    "washer-dryers",
	"fridge":          "fridges",
	"freezer":         "freezers",
	"fridge-freezer":  "fridge-freezers",
	"oven":            "built-in-ovens",
	"built-in-oven":   "built-in-ovens",
	"cooker":          "cookers",
	"range-cooker":    "range-cookers",
	"hob":             "hobs",
	"cooker-hood":     "cooker-hoods",
	"microwave":       "microwaves",
	"tv":              "televisions",
	"television":      "televisions",
	"vacuum-cleaner":  "vacuum-cleaners",
	"coffee-machine":  "coffee-machines",
}

var keyPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Mapping is an immutable repair token -> retail category slug table.
// It is safe for concurrent use.
type Mapping struct {
	forward map[string]string
	reverse map[string]string
	aliases map[string][]string
}

// NewMapping validates entries and builds a Mapping.
// Keys must be singular, lowercase and hyphenated, without the repair suffix.
func NewMapping(entries map[string]string) (Mapping, error) {
	forward := make(map[string]string, len(entries))
	for k, v := range entries {
		if !keyPattern.MatchString(k) {
			return Mapping{}, fmt.Errorf("%w: key %q must be lowercase and hyphenated", domain.ErrInvalidMapping, k)
		}
		if strings.HasSuffix(k, RepairSuffix) {
			return Mapping{}, fmt.Errorf("%w: key %q must not carry the %s suffix", domain.ErrInvalidMapping, k, RepairSuffix)
		}
		if !keyPattern.MatchString(v) {
			return Mapping{}, fmt.Errorf("%w: value %q for key %q is not a slug", domain.ErrInvalidMapping, v, k)
		}
		forward[k] = v
	}

	m := Mapping{
		forward: forward,
		reverse: make(map[string]string, len(forward)),
		aliases: make(map[string][]string, len(forward)),
	}

	keys := make([]string, 0, len(forward))
	for k := range forward {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := forward[k]
		m.aliases[v] = append(m.aliases[v], k)

		cur, seen := m.reverse[v]
		switch {
		case !seen:
			m.reverse[v] = k
		case cur+"s" != v && k+"s" == v:
			// the key whose regular plural is the value wins
			m.reverse[v] = k
		}
	}
	return m, nil
}

// DefaultMapping returns the built-in table.
func DefaultMapping() Mapping {
	m, err := NewMapping(defaultEntries)
	if err != nil {
		panic("slug: invalid default mapping: " + err.Error())
	}
	return m
}

// With returns a new Mapping with overrides layered over m.
func (m Mapping) With(overrides map[string]string) (Mapping, error) {
	if len(overrides) == 0 {
		return m, nil
	}
	merged := make(map[string]string, len(m.forward)+len(overrides))
	for k, v := range m.forward {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return NewMapping(merged)
}

// Len returns the number of entries.
func (m Mapping) Len() int { return len(m.forward) }

// Lookup returns the retail category slug mapped to a singular token.
func (m Mapping) Lookup(token string) (string, bool) {
	v, ok := m.forward[token]
	return v, ok
}

// RepairSlugToCategorySlug maps a repair slug to its retail category slug.
//
// Precondition: repairSlug ends with "-repair". Other input is still
// accepted and yields a plural guess of the whole string.
func (m Mapping) RepairSlugToCategorySlug(repairSlug string) string {
	token := strings.TrimSuffix(repairSlug, RepairSuffix)
	if v, ok := m.forward[token]; ok {
		return v
	}
	if strings.HasSuffix(token, "s") {
		return token
	}
	return token + "s"
}

// CategorySlugToRepairSlug maps a retail category slug to its repair slug.
// Without a table entry the last trailing "s" is dropped.
func (m Mapping) CategorySlugToRepairSlug(categorySlug string) string {
	if k, ok := m.reverse[categorySlug]; ok {
		return k + RepairSuffix
	}
	token := categorySlug
	if len(token) > 1 {
		token = strings.TrimSuffix(token, "s")
	}
	return token + RepairSuffix
}

// AliasesFor returns the table keys that map to categorySlug, sorted.
func (m Mapping) AliasesFor(categorySlug string) []string {
	return m.aliases[categorySlug]
}

// CategoryNameToRepairSlug builds a repair slug from a human readable
// singular category name, e.g. "Washing Machine" -> "washing-machine-repair".
func CategoryNameToRepairSlug(singularName string) string {
	return strings.Join(strings.Fields(strings.ToLower(singularName)), "-") + RepairSuffix
}

// IsRepairSlug reports whether slug names a repair service page.
func IsRepairSlug(slug string) bool {
	return strings.HasSuffix(slug, RepairSuffix)
}

// Valid reports whether s is a well-formed slug: lowercase alphanumerics
// separated by single hyphens.
func Valid(s string) bool {
	return keyPattern.MatchString(s)
}
