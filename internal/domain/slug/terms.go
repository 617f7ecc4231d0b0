package slug

import (
	"sort"
	"strings"
)

// MinTermLen is the shortest token that becomes a search term on its own.
const MinTermLen = 3

// MinShortTermLen is the shortest token kept from a multi-word key, so two
// letter brands ("lg", "hp") next to a place name still reach the index.
const MinShortTermLen = 2

// connectors are short words that join names and never name an entity.
var connectors = map[string]struct{}{
	"an": {}, "at": {}, "by": {}, "in": {}, "is": {},
	"me": {}, "my": {}, "of": {}, "on": {}, "or": {}, "to": {},
}

// SearchTerms expands a normalized match key into the substrings an entity
// index should look for: every token long enough to be selective, plus the
// category slugs the table maps tokens or the whole key to. A one-token key
// is always kept so short exact names ("tv") still reach the index; in
// longer keys two-letter tokens are kept unless they are connectors.
func (m Mapping) SearchTerms(key string) []string {
	tokens := strings.Fields(key)
	if len(tokens) == 0 {
		return nil
	}

	seen := make(map[string]struct{})
	add := func(t string) {
		if t == "" {
			return
		}
		seen[t] = struct{}{}
	}

	for _, t := range tokens {
		if len(tokens) == 1 || keepToken(t) {
			add(t)
		}
		if v, ok := m.forward[t]; ok {
			add(v)
		}
	}
	if v, ok := m.forward[strings.Join(tokens, "-")]; ok {
		add(v)
	}

	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func keepToken(t string) bool {
	if len(t) >= MinTermLen {
		return true
	}
	if len(t) < MinShortTermLen {
		return false
	}
	_, skip := connectors[t]
	return !skip
}
