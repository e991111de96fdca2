package transfer

import (
	"strconv"
	"strings"

	"github.com/agentstation/toolhub/pkg/catalog"
)

// toolRow is one spreadsheet or CSV row for a tool. The headers match the
// admin import template.
type toolRow struct {
	Name       string `csv:"Name"`
	ShortDesc  string `csv:"Short Description"`
	FullDesc   string `csv:"Full Description"`
	Website    string `csv:"Website"`
	Categories string `csv:"Categories (comma-separated)"`
	UseCases   string `csv:"Use Cases (comma-separated)"`
	Pricing    string `csv:"Pricing Model (FREE/PAID/FREE_PAID)"`
	Access     string `csv:"Access Type (FREE/SUBSCRIPTION/ONE_TIME_PURCHASE)"`
	Platforms  string `csv:"Platforms (comma-separated)"`
	Price      string `csv:"Price (number)"`
	Locked     string `csv:"Locked (true/false)"`
	Public     string `csv:"Public (true/false)"`
}

var toolHeaders = []string{
	"Name",
	"Short Description",
	"Full Description",
	"Website",
	"Categories (comma-separated)",
	"Use Cases (comma-separated)",
	"Pricing Model (FREE/PAID/FREE_PAID)",
	"Access Type (FREE/SUBSCRIPTION/ONE_TIME_PURCHASE)",
	"Platforms (comma-separated)",
	"Price (number)",
	"Locked (true/false)",
	"Public (true/false)",
}

func newToolRow(it catalog.Item) toolRow {
	return toolRow{
		Name:       it.Name,
		ShortDesc:  it.ShortDesc,
		FullDesc:   it.FullDesc,
		Website:    it.Website,
		Categories: joinList(it.Categories),
		UseCases:   joinList(it.UseCases),
		Pricing:    string(it.PricingModel),
		Access:     string(it.AccessType),
		Platforms:  joinList(it.Platforms),
		Price:      strconv.FormatFloat(it.Price, 'f', -1, 64),
		Locked:     strconv.FormatBool(it.Locked),
		Public:     strconv.FormatBool(it.Public),
	}
}

func (r toolRow) cells() []string {
	return []string{r.Name, r.ShortDesc, r.FullDesc, r.Website, r.Categories, r.UseCases,
		r.Pricing, r.Access, r.Platforms, r.Price, r.Locked, r.Public}
}

func toolRowFromCells(c []string) toolRow {
	return toolRow{
		Name: cell(c, 0), ShortDesc: cell(c, 1), FullDesc: cell(c, 2), Website: cell(c, 3),
		Categories: cell(c, 4), UseCases: cell(c, 5), Pricing: cell(c, 6), Access: cell(c, 7),
		Platforms: cell(c, 8), Price: cell(c, 9), Locked: cell(c, 10), Public: cell(c, 11),
	}
}

// item converts a row. Empty pricing and access default to FREE and an
// unparsable price becomes 0, matching what admins expect from the sheet.
func (r toolRow) item() catalog.Item {
	pricing, ok := catalog.ParsePricingModel(r.Pricing)
	if !ok {
		pricing = catalog.PricingModel(strings.ToUpper(strings.TrimSpace(r.Pricing)))
	}
	if strings.TrimSpace(r.Pricing) == "" {
		pricing = catalog.PricingFree
	}
	access := catalog.AccessFree
	if strings.TrimSpace(r.Access) != "" {
		access, _ = catalog.ParseAccessType(r.Access)
	}
	return catalog.Item{
		Kind:         catalog.KindTool,
		Name:         strings.TrimSpace(r.Name),
		ShortDesc:    strings.TrimSpace(r.ShortDesc),
		FullDesc:     strings.TrimSpace(r.FullDesc),
		Website:      strings.TrimSpace(r.Website),
		Categories:   splitList(r.Categories),
		UseCases:     splitList(r.UseCases),
		Platforms:    splitList(r.Platforms),
		PricingModel: pricing,
		AccessType:   access,
		Price:        parsePrice(r.Price),
		Locked:       parseBool(r.Locked),
		Public:       parseBool(r.Public),
	}
}

// guideRow is one spreadsheet or CSV row for a guide.
type guideRow struct {
	Title      string `csv:"Title"`
	Type       string `csv:"Type (Freelancing Kit/Template/Blueprint)"`
	Category   string `csv:"Category"`
	Content    string `csv:"Content (Markdown)"`
	Difficulty string `csv:"Difficulty (Beginner/Intermediate/Advanced)"`
	Premium    string `csv:"Premium (true/false)"`
	Access     string `csv:"Access Type (FREE/SUBSCRIPTION/ONE_TIME_PURCHASE)"`
	Tags       string `csv:"Tags (comma-separated)"`
	Public     string `csv:"Public (true/false)"`
}

var guideHeaders = []string{
	"Title",
	"Type (Freelancing Kit/Template/Blueprint)",
	"Category",
	"Content (Markdown)",
	"Difficulty (Beginner/Intermediate/Advanced)",
	"Premium (true/false)",
	"Access Type (FREE/SUBSCRIPTION/ONE_TIME_PURCHASE)",
	"Tags (comma-separated)",
	"Public (true/false)",
}

func newGuideRow(it catalog.Item) guideRow {
	return guideRow{
		Title:      it.Name,
		Type:       string(it.GuideType),
		Category:   joinList(it.Categories),
		Content:    it.Content,
		Difficulty: string(it.Difficulty),
		Premium:    strconv.FormatBool(it.Locked),
		Access:     string(it.AccessType),
		Tags:       joinList(it.Tags),
		Public:     strconv.FormatBool(it.Public),
	}
}

func (r guideRow) cells() []string {
	return []string{r.Title, r.Type, r.Category, r.Content, r.Difficulty, r.Premium, r.Access, r.Tags, r.Public}
}

func guideRowFromCells(c []string) guideRow {
	return guideRow{
		Title: cell(c, 0), Type: cell(c, 1), Category: cell(c, 2), Content: cell(c, 3),
		Difficulty: cell(c, 4), Premium: cell(c, 5), Access: cell(c, 6), Tags: cell(c, 7), Public: cell(c, 8),
	}
}

// item converts a row. A premium guide is stored locked.
func (r guideRow) item() catalog.Item {
	access := catalog.AccessFree
	if strings.TrimSpace(r.Access) != "" {
		access, _ = catalog.ParseAccessType(r.Access)
	}
	return catalog.Item{
		Kind:       catalog.KindGuide,
		Name:       strings.TrimSpace(r.Title),
		GuideType:  catalog.GuideType(strings.TrimSpace(r.Type)),
		Categories: splitList(r.Category),
		Content:    r.Content,
		Difficulty: catalog.Difficulty(strings.TrimSpace(r.Difficulty)),
		Locked:     parseBool(r.Premium),
		AccessType: access,
		Tags:       splitList(r.Tags),
		Public:     parseBool(r.Public),
	}
}

func cell(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}

func parsePrice(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

// headersFor returns the column headers for a kind.
func headersFor(kind catalog.Kind) []string {
	if kind == catalog.KindGuide {
		return guideHeaders
	}
	return toolHeaders
}

// cellsFor returns the spreadsheet cells for an item.
func cellsFor(kind catalog.Kind, it catalog.Item) []string {
	if kind == catalog.KindGuide {
		return newGuideRow(it).cells()
	}
	return newToolRow(it).cells()
}

// itemFromCells converts spreadsheet cells.
func itemFromCells(kind catalog.Kind, cells []string) catalog.Item {
	if kind == catalog.KindGuide {
		return guideRowFromCells(cells).item()
	}
	return toolRowFromCells(cells).item()
}
