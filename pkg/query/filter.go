package query

import (
	"strings"

	"github.com/agentstation/toolhub/pkg/catalog"
)

// compiled holds the accepted-value sets of every constrained facet.
type compiled []facetSet

type facetSet struct {
	field  catalog.Field
	values map[string]struct{}
}

// compileFilters drops unknown facets, blank values and empty sets.
func compileFilters(filters Filters) compiled {
	var out compiled
	for _, facet := range Facets() {
		values := filters[facet]
		set := make(map[string]struct{}, len(values))
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				set[v] = struct{}{}
			}
		}
		if len(set) > 0 {
			out = append(out, facetSet{field: facet.field(), values: set})
		}
	}
	return out
}

// matches is AND across facets and OR within one.
func (c compiled) matches(item catalog.Item) bool {
	for _, fs := range c {
		if !fs.matches(item) {
			return false
		}
	}
	return true
}

func (fs facetSet) matches(item catalog.Item) bool {
	for _, v := range item.Values(fs.field) {
		if _, ok := fs.values[v]; ok {
			return true
		}
	}
	return false
}
