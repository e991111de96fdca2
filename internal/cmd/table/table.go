// Package table converts catalog data into rows for terminal tables.
package table

import (
	"strconv"
	"strings"

	"github.com/agentstation/toolhub/internal/analytics"
	"github.com/agentstation/toolhub/internal/transfer"
	"github.com/agentstation/toolhub/pkg/catalog"
	"github.com/agentstation/toolhub/pkg/query"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data is a rendered table: headers, rows and optional per-column alignment.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align
}

const maxDescription = 60

// ItemsToTableData lists tools or guides. Wide adds descriptions and IDs.
func ItemsToTableData(kind catalog.Kind, items []catalog.Item, wide bool) Data {
	var headers []string
	var align []Align
	if kind == catalog.KindGuide {
		headers = []string{"Title", "Type", "Difficulty", "Access", "Views"}
		align = []Align{AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignRight}
	} else {
		headers = []string{"Name", "Categories", "Pricing", "Platforms", "Views"}
		align = []Align{AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignRight}
	}
	if wide {
		headers = append(headers, "Description", "ID")
		align = append(align, AlignLeft, AlignLeft)
	}

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		var row []string
		if kind == catalog.KindGuide {
			row = []string{it.Name, dash(string(it.GuideType)), dash(string(it.Difficulty)), access(it), FormatCount(it.Views)}
		} else {
			row = []string{it.Name, dash(strings.Join(it.Categories, ", ")), dash(it.PricingModel.Label()), dash(strings.Join(it.Platforms, ", ")), FormatCount(it.Views)}
		}
		if wide {
			row = append(row, dash(Truncate(it.ShortDesc, maxDescription)), it.ID)
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// FacetsToTableData flattens a facet summary into facet/value/count rows.
func FacetsToTableData(summary query.FacetSummary) Data {
	rows := [][]string{
		{"total", "-", strconv.Itoa(summary.Total)},
		{"free", "-", strconv.Itoa(summary.Free)},
	}
	for _, facet := range query.Facets() {
		for _, fc := range summary.Values[facet] {
			rows = append(rows, []string{string(facet), fc.Value, strconv.Itoa(fc.Count)})
		}
	}
	return Data{
		Headers:         []string{"Facet", "Value", "Items"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight},
	}
}

// DailyToTableData lists daily rollups with their busiest page.
func DailyToTableData(days []analytics.DailyStats) Data {
	rows := make([][]string, 0, len(days))
	for _, d := range days {
		top := "-"
		if len(d.TopPages) > 0 {
			top = d.TopPages[0].Page
		}
		rows = append(rows, []string{
			d.Date,
			strconv.Itoa(d.PageViews),
			strconv.Itoa(d.UniqueVisitors),
			strconv.Itoa(d.Devices.Mobile) + "/" + strconv.Itoa(d.Devices.Desktop) + "/" + strconv.Itoa(d.Devices.Tablet),
			top,
		})
	}
	return Data{
		Headers:         []string{"Date", "Views", "Visitors", "Mobile/Desktop/Tablet", "Top Page"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignRight, AlignCenter, AlignLeft},
	}
}

// PagesToTableData lists per-page traffic.
func PagesToTableData(pages []analytics.PageStats) Data {
	rows := make([][]string, 0, len(pages))
	for _, p := range pages {
		rows = append(rows, []string{p.Page, strconv.Itoa(p.Views), strconv.Itoa(p.UniqueVisitors)})
	}
	return Data{
		Headers:         []string{"Page", "Views", "Visitors"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignRight},
	}
}

// RejectedToTableData lists import rows that failed validation.
func RejectedToTableData(rejected []transfer.Rejected) Data {
	rows := make([][]string, 0, len(rejected))
	for _, r := range rejected {
		rows = append(rows, []string{strconv.Itoa(r.Row), dash(r.Item.Name), strings.Join(r.Issues, "; ")})
	}
	return Data{
		Headers:         []string{"Row", "Name", "Problems"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignLeft, AlignLeft},
	}
}

// FormatCount abbreviates large counters (1.2K, 3.4M).
func FormatCount(n int64) string {
	switch {
	case n >= 1_000_000:
		return strconv.FormatFloat(float64(n)/1_000_000, 'f', 1, 64) + "M"
	case n >= 1_000:
		return strconv.FormatFloat(float64(n)/1_000, 'f', 1, 64) + "K"
	}
	return strconv.FormatInt(n, 10)
}

// Truncate shortens s to at most n runes, ending in "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

func access(it catalog.Item) string {
	if it.Locked {
		return "Premium"
	}
	return "Free"
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
