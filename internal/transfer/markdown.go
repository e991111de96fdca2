package transfer

import (
	"fmt"
	"io"
	"strings"

	md "github.com/nao1215/markdown"

	"github.com/agentstation/toolhub/pkg/catalog"
	"github.com/agentstation/toolhub/pkg/errors"
)

// WriteMarkdown writes a publishable listing: a heading, a count line and
// one table row per item.
func WriteMarkdown(w io.Writer, kind catalog.Kind, items []catalog.Item) error {
	doc := md.NewMarkdown(w).
		H1(sheetName(kind)).
		PlainText(fmt.Sprintf("%d %s listed.", len(items), kind.Collection())).
		LF()

	if kind == catalog.KindGuide {
		rows := make([][]string, 0, len(items))
		for _, it := range items {
			rows = append(rows, []string{
				cellText(it.Name),
				string(it.GuideType),
				string(it.Difficulty),
				cellText(joinList(it.Tags)),
				premium(it.Locked),
			})
		}
		doc.Table(md.TableSet{
			Header: []string{"Title", "Type", "Difficulty", "Tags", "Access"},
			Rows:   rows,
		})
	} else {
		rows := make([][]string, 0, len(items))
		for _, it := range items {
			name := cellText(it.Name)
			if it.Website != "" {
				name = md.Link(name, it.Website)
			}
			rows = append(rows, []string{
				name,
				cellText(it.ShortDesc),
				cellText(joinList(it.Categories)),
				it.PricingModel.Label(),
				cellText(joinList(it.Platforms)),
			})
		}
		doc.Table(md.TableSet{
			Header: []string{"Name", "Description", "Categories", "Pricing", "Platforms"},
			Rows:   rows,
		})
	}

	if err := doc.Build(); err != nil {
		return errors.WrapIO("write", "markdown", err)
	}
	return nil
}

// cellText keeps a value on one table row.
func cellText(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

func premium(locked bool) string {
	if locked {
		return "Premium"
	}
	return "Free"
}
