package searchintent

// Filter restricts the kind of destination a query may resolve to.
type Filter string

// Filters.
const (
	FilterAll    Filter = "all"
	FilterBuy    Filter = "buy"
	FilterRepair Filter = "repair"
)

// ResultType names the kind of destination.
type ResultType string

// Result types.
const (
	TypePlace          ResultType = "place"
	TypeCategory       ResultType = "category"
	TypeBrand          ResultType = "brand"
	TypeRepairCategory ResultType = "repair-category"
	TypeRepairPlace    ResultType = "repair-place"
	TypeSearch         ResultType = "search"
)

// Result is a classification outcome. MatchedName is empty for TypeSearch.
type Result struct {
	Type        ResultType
	URL         string
	MatchedName string
}

// Place is a geographic location. CountrySlug is empty for top level places.
type Place struct {
	ID          string
	Name        string
	Slug        string
	CountrySlug string
}

// Category is a product category. Singular and plural names are optional.
type Category struct {
	ID           string
	Name         string
	Slug         string
	SingularName string
	PluralName   string
}

// Brand is a manufacturer.
type Brand struct {
	ID   string
	Name string
	Slug string
}

// Entities is an in-memory directory.
type Entities struct {
	Places     []Place
	Categories []Category
	Brands     []Brand
}
