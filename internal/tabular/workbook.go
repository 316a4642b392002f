package tabular

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// SheetName is the single sheet written to every workbook.
const SheetName = "Sheet1"

// WriteWorkbook writes t to an xlsx file. Cells of the numeric columns that
// parse as integers are written as numbers.
func WriteWorkbook(path string, t *Table, numeric ...string) error {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	isNumeric := make(map[int]bool, len(numeric))
	for _, col := range numeric {
		if idx := t.Index(col); idx >= 0 {
			isNumeric[idx] = true
		}
	}

	header := make([]interface{}, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}

	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range t.Rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
			if isNumeric[j] {
				if n, err := strconv.Atoi(v); err == nil {
					cells[j] = n
				}
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		if err := sw.SetRow(cell, cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush workbook: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}

	return nil
}

// ReadWorkbook reads the first sheet of an xlsx file. The first row is the
// header; short rows are padded to its width.
func ReadWorkbook(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from %s: %w", path, err)
	}

	if len(rows) == 0 {
		return NewTable(nil), nil
	}

	t := NewTable(rows[0])
	for _, row := range rows[1:] {
		t.Append(row)
	}

	return t, nil
}
