package loader

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/tablesort/internal/core"
)

// readWorkbook loads the first sheet of an .xlsx workbook. Cells are read
// as their formatted text, so numbers go through the same resolver as
// delimited input.
func (l *Loader) readWorkbook(ctx context.Context, r io.Reader) (core.RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return core.RawTable{}, readError(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return core.RawTable{}, ErrEmptyFile
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return core.RawTable{}, fmt.Errorf("%w: sheet %q: %v", ErrMalformed, sheets[0], err)
	}
	defer rows.Close()

	b := &tableBuilder{maxRows: l.MaxRows}
	for rows.Next() {
		record, err := rows.Columns()
		if err != nil {
			return core.RawTable{}, fmt.Errorf("%w: sheet %q: %v", ErrMalformed, sheets[0], err)
		}
		if err := b.add(ctx, record); err != nil {
			return core.RawTable{}, err
		}
	}
	if err := rows.Error(); err != nil {
		return core.RawTable{}, fmt.Errorf("%w: sheet %q: %v", ErrMalformed, sheets[0], err)
	}
	return b.table()
}

// WriteWorkbook writes columns and rows to w as a single-sheet workbook.
// Numbers are stored as numeric cells and absent cells are left empty.
func WriteWorkbook(w io.Writer, sheet string, columns []string, rows []core.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("name sheet: %w", err)
		}
	}

	for i, h := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for r, row := range rows {
		for c, col := range columns {
			v := row.Get(col)
			if v.IsAbsent() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			var val any = v.Str()
			if v.IsNumber() {
				val = v.Float()
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
