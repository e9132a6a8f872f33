package core

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

func init() {
	RegisterFormat(Format{Name: "csv", Extensions: []string{".csv"}, Parse: ParseCSV})
	RegisterFormat(Format{Name: "tsv", Extensions: []string{".tsv"}, Parse: ParseTSV})
}

// ParseCSV decodes comma-separated text. The first non-blank record is the
// header; cells are typed with typeCell.
func ParseCSV(r io.Reader) (*Table, error) {
	return parseDelimited(r, ',')
}

// ParseTSV decodes tab-separated text.
func ParseTSV(r io.Reader) (*Table, error) {
	return parseDelimited(r, '\t')
}

func parseDelimited(r io.Reader, comma rune) (*Table, error) {
	cr := csv.NewReader(newTextReader(r))
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	table := &Table{}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		if isBlankRecord(record) {
			continue
		}

		if table.Columns == nil {
			table.Columns = uniqueColumns(record)
			continue
		}

		// Short records are padded with Null; extra trailing cells are dropped.
		row := make(Row, len(table.Columns))
		for i, col := range table.Columns {
			if i < len(record) {
				row[col] = typeCell(record[i])
			} else {
				row[col] = Null()
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
