package transfer

import (
	"io"
	"strconv"
	"strings"

	"github.com/360EntSecGroup-Skylar/excelize"

	"github.com/agentstation/toolhub/pkg/catalog"
	"github.com/agentstation/toolhub/pkg/errors"
)

const defaultSheet = "Sheet1"

// sheetName is the worksheet title used for a kind.
func sheetName(kind catalog.Kind) string {
	if kind == catalog.KindGuide {
		return "Guides"
	}
	return "Tools"
}

// WriteXLSX writes items as a single-sheet workbook with a header row.
func WriteXLSX(w io.Writer, kind catalog.Kind, items []catalog.Item) error {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, cellsFor(kind, it))
	}
	return writeSheet(w, sheetName(kind), headersFor(kind), rows)
}

// WriteTemplate writes an empty import workbook with one sample row.
func WriteTemplate(w io.Writer, kind catalog.Kind) error {
	sample := sampleTool
	if kind == catalog.KindGuide {
		sample = sampleGuide
	}
	return writeSheet(w, sheetName(kind)+" Template", headersFor(kind), [][]string{cellsFor(kind, sample)})
}

func writeSheet(w io.Writer, name string, headers []string, rows [][]string) error {
	f := excelize.NewFile()
	f.SetSheetName(defaultSheet, name)

	for col, h := range headers {
		f.SetCellValue(name, axis(col, 1), h)
	}
	for r, cells := range rows {
		for col, v := range cells {
			f.SetCellValue(name, axis(col, r+2), v)
		}
	}
	f.SetColWidth(name, columnName(0), columnName(len(headers)-1), 24)

	if err := f.Write(w); err != nil {
		return errors.WrapIO("write", name+".xlsx", err)
	}
	return nil
}

// ReadXLSX reads the first worksheet. The first row is treated as the
// header and rows with an empty first cell are skipped.
func ReadXLSX(r io.Reader, kind catalog.Kind) ([]catalog.Item, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.NewParseError("xlsx", "", "not a readable workbook", err)
	}
	sheet := firstSheet(f.GetSheetMap())
	if sheet == "" {
		return nil, errors.NewParseError("xlsx", "", "workbook has no sheets", nil)
	}

	rows := f.GetRows(sheet)
	items := make([]catalog.Item, 0, len(rows))
	for i, row := range rows {
		if i == 0 || len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		items = append(items, itemFromCells(kind, row))
	}
	return items, nil
}

// firstSheet picks the sheet with the lowest index.
func firstSheet(sheets map[int]string) string {
	first := -1
	for idx := range sheets {
		if first == -1 || idx < first {
			first = idx
		}
	}
	return sheets[first]
}

// columnName converts a zero-based column index to A, B, ..., Z, AA.
func columnName(col int) string {
	name := ""
	for col++; col > 0; col = (col - 1) / 26 {
		name = string(rune('A'+(col-1)%26)) + name
	}
	return name
}

func axis(col, row int) string {
	return columnName(col) + strconv.Itoa(row)
}
