package core

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

func init() {
	// .xls is accepted by extension. excelize reads OOXML only, so a legacy
	// BIFF workbook surfaces as a ParseError from OpenReader.
	RegisterFormat(Format{Name: "xlsx", Extensions: []string{".xlsx", ".xls"}, Parse: ParseXLSX})
}

// ParseXLSX decodes the first worksheet of a workbook. Cells are read with
// their display formatting applied, so dates and currency come through the
// way the user sees them. Missing cells become an empty string to keep row
// shapes uniform; non-empty cells are typed like CSV cells.
func ParseXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	table := &Table{}
	for _, record := range rows {
		if isBlankRecord(record) {
			continue
		}
		if table.Columns == nil {
			table.Columns = uniqueColumns(record)
			continue
		}

		row := make(Row, len(table.Columns))
		for i, col := range table.Columns {
			cell := ""
			if i < len(record) {
				cell = record[i]
			}
			if strings.TrimSpace(cell) == "" {
				row[col] = String("")
				continue
			}
			row[col] = typeCell(cell)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
