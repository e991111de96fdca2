package query

import (
	"cmp"
	"slices"
	"strconv"

	"golang.org/x/text/cases"

	"github.com/agentstation/toolhub/pkg/catalog"
)

// sortItems orders items in place. Equal keys keep snapshot order.
func sortItems(items []catalog.Item, key SortKey, lower cases.Caser) {
	switch key {
	case SortPopularity:
		slices.SortStableFunc(items, func(a, b catalog.Item) int {
			return cmp.Compare(b.Views, a.Views)
		})
	case SortName:
		names := make(map[string]string, len(items))
		for _, it := range items {
			names[it.Name] = lower.String(it.Name)
		}
		slices.SortStableFunc(items, func(a, b catalog.Item) int {
			return cmp.Compare(names[a.Name], names[b.Name])
		})
	default:
		slices.SortStableFunc(items, func(a, b catalog.Item) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}
}

// sortValue is the value a cursor records for an item under a sort key.
func sortValue(item catalog.Item, key SortKey, lower cases.Caser) string {
	switch key {
	case SortPopularity:
		return strconv.FormatInt(item.Views, 10)
	case SortName:
		return lower.String(item.Name)
	default:
		return strconv.FormatInt(item.CreatedAt.UnixNano(), 10)
	}
}

// strictlyAfter reports whether item sorts strictly after a recorded value.
func strictlyAfter(item catalog.Item, key SortKey, value string, lower cases.Caser) bool {
	switch key {
	case SortPopularity:
		v, err := strconv.ParseInt(value, 10, 64)
		return err == nil && item.Views < v
	case SortName:
		return lower.String(item.Name) > value
	default:
		v, err := strconv.ParseInt(value, 10, 64)
		return err == nil && item.CreatedAt.UnixNano() < v
	}
}
