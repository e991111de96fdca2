// Package query implements the catalog query engine: search, facet
// filtering, sorting and pagination over an in-memory snapshot of items.
//
// The engine is pure. It never performs I/O, never mutates the snapshot and
// never fails: unknown sort keys fall back to the default, unknown facets are
// ignored and malformed cursors restart from the first page.
//
//	engine := query.New(query.ConfigFor(catalog.KindTool))
//	res := engine.Search(snapshot, query.Request{
//		SearchTerm: "writer",
//		Filters:    query.Filters{query.FacetCategory: {"Writing"}},
//		Sort:       query.SortPopularity,
//	})
package query

import (
	"strings"

	"github.com/agentstation/toolhub/pkg/catalog"
	"github.com/agentstation/toolhub/pkg/constants"
)

// Facet is a filterable dimension of an item.
type Facet string

const (
	FacetCategory Facet = "category"
	FacetPricing  Facet = "pricing"
	FacetPlatform Facet = "platform"
	FacetUseCase  Facet = "useCase"
)

// Facets lists every facet in display order.
func Facets() []Facet {
	return []Facet{FacetCategory, FacetPricing, FacetPlatform, FacetUseCase}
}

// ParseFacet maps a facet name, or one of its aliases, to a Facet.
func ParseFacet(s string) (Facet, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "category", "categories":
		return FacetCategory, true
	case "pricing", "pricingmodel", "pricing_model":
		return FacetPricing, true
	case "platform", "platforms":
		return FacetPlatform, true
	case "usecase", "use_case", "usecases", "use_cases":
		return FacetUseCase, true
	}
	return "", false
}

// field returns the item field a facet reads.
func (f Facet) field() catalog.Field {
	switch f {
	case FacetCategory:
		return catalog.FieldCategories
	case FacetPricing:
		return catalog.FieldPricingModel
	case FacetPlatform:
		return catalog.FieldPlatforms
	case FacetUseCase:
		return catalog.FieldUseCases
	}
	return ""
}

// SortKey selects the result ordering.
type SortKey string

const (
	SortNewest     SortKey = "newest"     // createdAt descending
	SortPopularity SortKey = "popularity" // views descending
	SortName       SortKey = "name"       // name ascending, case-insensitive
)

// ParseSortKey parses a sort key. Matching ignores case.
func ParseSortKey(s string) (SortKey, bool) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortNewest:
		return SortNewest, true
	case SortPopularity, "popular", "views":
		return SortPopularity, true
	case SortName, "alphabetical":
		return SortName, true
	}
	return "", false
}

// Paging selects the pagination mode.
type Paging string

const (
	PagingOffset Paging = "offset"
	PagingCursor Paging = "cursor"
)

// Filters maps each facet to its accepted values. A facet with no values
// places no constraint.
type Filters map[Facet][]string

// Request describes one query. The zero value returns the first page of
// the snapshot in default order.
type Request struct {
	SearchTerm string
	Filters    Filters
	FreeOnly   bool // keep items whose pricing has a free tier, FREE_PAID included
	Sort       SortKey
	PageSize   int
	Offset     int
	Cursor     string
	Paging     Paging
}

// Result is the visible window plus metadata for rendering.
type Result struct {
	Items        []catalog.Item `json:"items"`
	TotalMatched int            `json:"totalMatched"`
	HasMore      bool           `json:"hasMore"`
	NextCursor   string         `json:"nextCursor,omitempty"`
}

// Config is the engine configuration. It is plain data.
type Config struct {
	PageSize     int
	DefaultSort  SortKey
	SearchFields []catalog.Field

	// PaginateSearch windows search results like browsing results. When
	// false, an active search term returns every match in one page.
	PaginateSearch bool
}

// DefaultConfig returns the tool configuration.
func DefaultConfig() Config {
	return ConfigFor(catalog.KindTool)
}

// ConfigFor returns the field selectors for a kind of item.
func ConfigFor(kind catalog.Kind) Config {
	fields := []catalog.Field{
		catalog.FieldName,
		catalog.FieldCompany,
		catalog.FieldShortDesc,
		catalog.FieldCategories,
	}
	if kind == catalog.KindGuide {
		fields = append(fields, catalog.FieldTags)
	}
	return Config{
		PageSize:     constants.DefaultPageSize,
		DefaultSort:  SortNewest,
		SearchFields: fields,
	}
}
