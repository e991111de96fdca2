package query

import (
	"slices"
	"strings"

	"github.com/agentstation/toolhub/pkg/catalog"
)

// FacetCount is one distinct facet value and the number of items carrying it.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FacetSummary describes the values available for filtering a snapshot.
type FacetSummary struct {
	Total  int                    `json:"total"`
	Free   int                    `json:"free"`
	Values map[Facet][]FacetCount `json:"values"`
}

// Facets summarizes the distinct values of every facet. Values are sorted
// and each item counts at most once per value.
func (e *Engine) Facets(snapshot []catalog.Item) FacetSummary {
	summary := FacetSummary{
		Total:  len(snapshot),
		Values: make(map[Facet][]FacetCount, len(Facets())),
	}
	for _, item := range snapshot {
		if item.IsFree() {
			summary.Free++
		}
	}

	for _, facet := range Facets() {
		counts := make(map[string]int)
		for _, item := range snapshot {
			seen := make(map[string]bool)
			for _, v := range item.Values(facet.field()) {
				v = strings.TrimSpace(v)
				if v == "" || seen[v] {
					continue
				}
				seen[v] = true
				counts[v]++
			}
		}
		values := make([]FacetCount, 0, len(counts))
		for v, n := range counts {
			values = append(values, FacetCount{Value: v, Count: n})
		}
		slices.SortFunc(values, func(a, b FacetCount) int {
			return strings.Compare(a.Value, b.Value)
		})
		summary.Values[facet] = values
	}
	return summary
}
