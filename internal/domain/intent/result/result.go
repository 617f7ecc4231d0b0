package result

import "strings"

// Type is the destination page kind.
type Type string

// Result types.
const (
	Place          Type = "place"
	Category       Type = "category"
	Brand          Type = "brand"
	RepairCategory Type = "repair-category"
	RepairPlace    Type = "repair-place"
	Search         Type = "search"
)

// SearchURL is the fallback destination.
const SearchURL = "/search"

// Result is the resolved destination for a query.
type Result struct {
	typ         Type
	url         string
	matchedName string
}

// Fallback is the "ask the user to refine" result.
func Fallback() Result {
	return Result{typ: Search, url: SearchURL}
}

// ForPlace builds /{country}/{place}/, or /{place}/ for top level places.
func ForPlace(name, countrySlug, placeSlug string) Result {
	return Result{typ: Place, url: path(countrySlug, placeSlug), matchedName: name}
}

// ForPlaceSection builds /{country}/{place}/{section}/ for a category or
// brand listing inside a place.
func ForPlaceSection(name, countrySlug, placeSlug, section string) Result {
	return Result{typ: Place, url: path(countrySlug, placeSlug, section), matchedName: name}
}

// ForRepairPlace builds /{country}/{place}/{repairSlug}/.
func ForRepairPlace(name, countrySlug, placeSlug, repairSlug string) Result {
	return Result{typ: RepairPlace, url: path(countrySlug, placeSlug, repairSlug), matchedName: name}
}

// ForCategory builds /{categorySlug}/.
func ForCategory(name, categorySlug string) Result {
	return Result{typ: Category, url: path(categorySlug), matchedName: name}
}

// ForRepairCategory builds /{repairSlug}/.
func ForRepairCategory(name, repairSlug string) Result {
	return Result{typ: RepairCategory, url: path(repairSlug), matchedName: name}
}

// ForBrand builds /{brandSlug}/.
func ForBrand(name, brandSlug string) Result {
	return Result{typ: Brand, url: path(brandSlug), matchedName: name}
}

// Type returns the destination kind.
func (r *Result) Type() Type { return r.typ }

// URL returns the root-relative destination path.
func (r *Result) URL() string { return r.url }

// MatchedName returns the display name of the matched entity, empty for Search.
func (r *Result) MatchedName() string { return r.matchedName }

// IsFallback reports whether nothing matched.
func (r *Result) IsFallback() bool { return r.typ == Search }

// path joins non-empty segments into a root-relative path with a trailing slash.
// Without segments it degrades to the search fallback URL.
func path(segments ...string) string {
	var b strings.Builder
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(s)
	}
	if b.Len() == 0 {
		return SearchURL
	}
	b.WriteByte('/')
	return b.String()
}
