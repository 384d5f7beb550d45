package core

import (
	"errors"
	"strings"
)

// ErrNoColumns is returned when a table has no columns to key rows by.
var ErrNoColumns = errors.New("table has no columns")

// RawTable is the loader's output: header names in display order and one
// map per data row from header name to raw cell text. A row may omit
// headers; omitted cells resolve to absence.
type RawTable struct {
	Columns []string
	Rows    []map[string]string
}

// Dataset is one loaded file with every cell resolved.
//
// Rows is the original ingestion order and is never reordered; sorts always
// derive a fresh slice from it.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// BuildDataset trims the header names and resolves every cell.
//
// Headers that trim to the same name collapse into one column, shown at the
// position of its first occurrence. When a row carries cells under several of
// those headers, the cell under the last header wins. Every row gets every
// column; cells the row did not carry are absent.
func BuildDataset(raw RawTable) (*Dataset, error) {
	if len(raw.Columns) == 0 {
		return nil, ErrNoColumns
	}

	trimmed := make([]string, len(raw.Columns))
	columns := make([]string, 0, len(raw.Columns))
	seen := make(map[string]bool, len(raw.Columns))
	for i, c := range raw.Columns {
		name := strings.TrimSpace(c)
		trimmed[i] = name
		if !seen[name] {
			seen[name] = true
			columns = append(columns, name)
		}
	}

	rows := make([]Row, len(raw.Rows))
	for i, cells := range raw.Rows {
		row := make(Row, len(columns))
		for _, c := range columns {
			row[c] = Absent()
		}
		for j, c := range raw.Columns {
			if cell, ok := cells[c]; ok {
				row[trimmed[j]] = Resolve(cell)
			}
		}
		rows[i] = row
	}

	return &Dataset{Columns: columns, Rows: rows}, nil
}

// HasColumn reports whether name is one of the dataset's columns.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Sorted returns the original rows ordered by column in direction dir.
func (d *Dataset) Sorted(column string, dir Direction) []Row {
	return Sort(d.Rows, column, dir)
}
