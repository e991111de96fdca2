package transfer

import "github.com/agentstation/toolhub/pkg/catalog"

// Rejected is an imported row that failed validation.
type Rejected struct {
	Row    int          `json:"row"` // 1-based position among the imported items
	Item   catalog.Item `json:"item"`
	Errors []error      `json:"-"`
	Issues []string     `json:"errors"`
}

// Report splits an import batch into rows that can be stored and rows
// that cannot.
type Report struct {
	Valid   []catalog.Item `json:"valid"`
	Invalid []Rejected     `json:"invalid"`
}

// OK reports whether every row passed.
func (r Report) OK() bool {
	return len(r.Invalid) == 0
}

// ValidateBatch validates every item. One bad row never hides another.
func ValidateBatch(items []catalog.Item) Report {
	report := Report{Valid: []catalog.Item{}, Invalid: []Rejected{}}
	for i, it := range items {
		problems := it.Problems()
		if len(problems) == 0 {
			report.Valid = append(report.Valid, it)
			continue
		}
		issues := make([]string, 0, len(problems))
		for _, p := range problems {
			issues = append(issues, p.Error())
		}
		report.Invalid = append(report.Invalid, Rejected{Row: i + 1, Item: it, Errors: problems, Issues: issues})
	}
	return report
}
