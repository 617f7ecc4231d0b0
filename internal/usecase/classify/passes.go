package classify

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/cloudflare/ahocorasick"

	"github.com/kailas-cloud/searchintent/internal/domain/entity"
	"github.com/kailas-cloud/searchintent/internal/domain/intent/result"
	"github.com/kailas-cloud/searchintent/internal/domain/slug"
)

// Pass names.
const (
	PassExact     = "exact"
	PassComposite = "composite"
	PassPrefix    = "prefix"
)

// Pass is one stage of the classification chain. It either resolves the
// input or defers to the next stage.
type Pass struct {
	Name string
	Run  func(in *input) (result.Result, bool)
}

// DefaultPasses is exact, then composite, then prefix.
// Keep composite ahead of prefix: the prefix pass accepts trailing words,
// so "manchester washing machine repair" would stop at the bare place
// page before the place+category split is tried.
func DefaultPasses() []Pass {
	return []Pass{
		{Name: PassExact, Run: exactPass},
		{Name: PassComposite, Run: compositePass},
		{Name: PassPrefix, Run: prefixPass},
	}
}

// ParsePasses builds a chain from config names. Empty input yields the default.
func ParsePasses(names []string) ([]Pass, error) {
	if len(names) == 0 {
		return DefaultPasses(), nil
	}
	known := make(map[string]Pass)
	for _, p := range DefaultPasses() {
		known[p.Name] = p
	}
	out := make([]Pass, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		p, ok := known[n]
		if !ok {
			return nil, fmt.Errorf("unknown classifier pass %q", n)
		}
		if _, dup := seen[n]; dup {
			return nil, fmt.Errorf("classifier pass %q listed twice", n)
		}
		seen[n] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

// exactPass matches the text against every name form, the canonical slug
// and, for categories, the slug the repair table maps the text to.
func exactPass(in *input) (result.Result, bool) {
	mapped := in.mapping.RepairSlugToCategorySlug(hyphenate(in.text) + slug.RepairSuffix)
	for _, kind := range in.order {
		cs := in.byKind[kind]
		for i := range cs {
			c := &cs[i]
			if c.slugKey == in.text || containsKey(c.keys, in.text) {
				return in.single(c), true
			}
			if kind == entity.Category && c.rec.Slug() == mapped {
				return in.single(c), true
			}
		}
	}
	return result.Result{}, false
}

// prefixPass handles partial typing ("manch" -> Manchester) and trailing
// words ("manchester appliances" -> Manchester). The first kind in
// precedence order with a hit wins; within a kind the longest common
// prefix wins, then the longest name, then name order.
func prefixPass(in *input) (result.Result, bool) {
	typedEnough := utf8.RuneCountInString(in.text) >= in.minPrefix
	for _, kind := range in.order {
		var best *candidate
		bestCommon, bestLen := 0, 0
		cs := in.byKind[kind]
		for i := range cs {
			c := &cs[i]
			for _, k := range c.keys {
				common := 0
				switch {
				case strings.HasPrefix(in.text, k+" "):
					common = len(k)
				case typedEnough && strings.HasPrefix(k, in.text):
					common = len(in.text)
				default:
					continue
				}
				if best == nil || common > bestCommon || (common == bestCommon && len(k) > bestLen) {
					best, bestCommon, bestLen = c, common, len(k)
				}
			}
		}
		if best != nil {
			return in.single(best), true
		}
	}
	return result.Result{}, false
}

// hit is a candidate name found inside the text on token boundaries.
type hit struct {
	c          *candidate
	start, end int
}

func (h hit) overlaps(o hit) bool {
	return h.start < o.end && o.start < h.end
}

// compositePass splits the text into a place and a category or brand,
// e.g. "manchester washing machine" -> /england/manchester/washing-machines/.
func compositePass(in *input) (result.Result, bool) {
	hits := findHits(in)
	places := hits[entity.Place]
	if len(places) == 0 {
		return result.Result{}, false
	}

	for _, p := range places {
		for _, kind := range in.order {
			if kind == entity.Place {
				continue
			}
			if kind == entity.Brand && in.repair {
				continue
			}
			for _, h := range hits[kind] {
				if h.overlaps(p) {
					continue
				}
				return in.composite(p.c, h.c), true
			}
		}
	}
	return result.Result{}, false
}

func (in *input) composite(place, section *candidate) result.Result {
	p := &place.rec
	s := &section.rec
	if s.Kind() == entity.Category && in.repair {
		name := fmt.Sprintf("%s in %s", in.repairLabel(section), p.Name())
		return result.ForRepairPlace(name, p.CountrySlug(), p.Slug(), in.repairSlug(section))
	}
	name := fmt.Sprintf("%s in %s", s.Name(), p.Name())
	return result.ForPlaceSection(name, p.CountrySlug(), p.Slug(), s.Slug())
}

// findHits runs one Aho-Corasick scan over every candidate key and keeps
// the matches that sit on token boundaries, longest first per kind.
func findHits(in *input) map[entity.Kind][]hit {
	var (
		dict   []string
		owners [][]*candidate
	)
	pos := make(map[string]int)
	for _, kind := range in.order {
		cs := in.byKind[kind]
		for i := range cs {
			for _, k := range cs[i].keys {
				j, ok := pos[k]
				if !ok {
					j = len(dict)
					pos[k] = j
					dict = append(dict, k)
					owners = append(owners, nil)
				}
				owners[j] = append(owners[j], &cs[i])
			}
		}
	}
	if len(dict) == 0 {
		return nil
	}

	m := ahocorasick.NewStringMatcher(dict)
	out := make(map[entity.Kind][]hit)
	seen := make(map[int]struct{})
	for _, idx := range m.Match([]byte(in.text)) {
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		for _, start := range tokenOccurrences(in.text, dict[idx]) {
			for _, c := range owners[idx] {
				kind := c.rec.Kind()
				out[kind] = append(out[kind], hit{c: c, start: start, end: start + len(dict[idx])})
			}
		}
	}
	for kind := range out {
		hs := out[kind]
		sort.SliceStable(hs, func(i, j int) bool {
			li, lj := hs[i].end-hs[i].start, hs[j].end-hs[j].start
			if li != lj {
				return li > lj
			}
			if hs[i].c.rec.Name() != hs[j].c.rec.Name() {
				return hs[i].c.rec.Name() < hs[j].c.rec.Name()
			}
			return hs[i].start < hs[j].start
		})
	}
	return out
}

// tokenOccurrences returns the byte offsets where key appears in text as
// whole tokens.
func tokenOccurrences(text, key string) []int {
	var out []int
	for from := 0; from <= len(text)-len(key); {
		i := strings.Index(text[from:], key)
		if i < 0 {
			break
		}
		start := from + i
		end := start + len(key)
		if (start == 0 || text[start-1] == ' ') && (end == len(text) || text[end] == ' ') {
			out = append(out, start)
		}
		from = start + 1
	}
	return out
}

func containsKey(keys []string, text string) bool {
	for _, k := range keys {
		if k == text {
			return true
		}
	}
	return false
}
