package transfer

import (
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/agentstation/toolhub/pkg/catalog"
	"github.com/agentstation/toolhub/pkg/errors"
)

// WriteCSV writes items with the same headers as the spreadsheet.
func WriteCSV(w io.Writer, kind catalog.Kind, items []catalog.Item) error {
	var err error
	if kind == catalog.KindGuide {
		rows := make([]guideRow, 0, len(items))
		for _, it := range items {
			rows = append(rows, newGuideRow(it))
		}
		err = gocsv.Marshal(rows, w)
	} else {
		rows := make([]toolRow, 0, len(items))
		for _, it := range items {
			rows = append(rows, newToolRow(it))
		}
		err = gocsv.Marshal(rows, w)
	}
	if err != nil {
		return errors.WrapIO("write", "csv", err)
	}
	return nil
}

// ReadCSV reads rows written by WriteCSV or filled in by hand from the
// template. Rows without a name are skipped.
func ReadCSV(r io.Reader, kind catalog.Kind) ([]catalog.Item, error) {
	var items []catalog.Item
	if kind == catalog.KindGuide {
		var rows []guideRow
		if err := gocsv.Unmarshal(r, &rows); err != nil {
			return nil, errors.NewParseError("csv", "", "invalid guide rows", err)
		}
		for _, row := range rows {
			if strings.TrimSpace(row.Title) != "" {
				items = append(items, row.item())
			}
		}
		return items, nil
	}

	var rows []toolRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, errors.NewParseError("csv", "", "invalid tool rows", err)
	}
	for _, row := range rows {
		if strings.TrimSpace(row.Name) != "" {
			items = append(items, row.item())
		}
	}
	return items, nil
}
