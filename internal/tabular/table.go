// Package tabular holds the in-memory table shared by the pipeline jobs and
// its CSV, pipe-delimited extract and workbook codecs.
package tabular

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrMissingColumns is returned when required columns are absent from a header.
var ErrMissingColumns = errors.New("missing required columns")

// Table is an ordered header plus rows of cells. Rows are padded to the
// header width when appended.
type Table struct {
	Header []string
	Rows   [][]string
	index  map[string]int
}

// NewTable creates an empty table with the given header.
func NewTable(header []string) *Table {
	t := &Table{Header: append([]string(nil), header...)}
	t.reindex()

	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		if _, ok := t.index[h]; !ok {
			t.index[h] = i
		}
	}
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Append adds a row, padding or truncating it to the header width.
func (t *Table) Append(row []string) {
	out := make([]string, len(t.Header))
	copy(out, row)
	t.Rows = append(t.Rows, out)
}

// Index returns the position of col, or -1.
func (t *Table) Index(col string) int {
	if i, ok := t.index[col]; ok {
		return i
	}

	return -1
}

// Has reports whether col is in the header.
func (t *Table) Has(col string) bool {
	return t.Index(col) >= 0
}

// Require returns ErrMissingColumns naming every absent column.
func (t *Table) Require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	return nil
}

// Value returns the cell for col in row i, or "" when the column is absent.
func (t *Table) Value(i int, col string) string {
	idx := t.Index(col)
	if idx < 0 || i < 0 || i >= len(t.Rows) {
		return ""
	}

	return t.Rows[i][idx]
}

// Set writes a cell, ignoring unknown columns.
func (t *Table) Set(i int, col, value string) {
	if idx := t.Index(col); idx >= 0 {
		t.Rows[i][idx] = value
	}
}

// Record returns row i keyed by column name.
func (t *Table) Record(i int) map[string]string {
	rec := make(map[string]string, len(t.Header))
	for j, h := range t.Header {
		rec[h] = t.Rows[i][j]
	}

	return rec
}

// Project returns a new table holding only the listed columns that exist,
// in the listed order.
func (t *Table) Project(cols []string) *Table {
	var keep []int
	var header []string

	for _, c := range cols {
		if idx := t.Index(c); idx >= 0 {
			keep = append(keep, idx)
			header = append(header, c)
		}
	}

	out := NewTable(header)
	out.Rows = make([][]string, 0, len(t.Rows))

	for _, row := range t.Rows {
		r := make([]string, len(keep))
		for j, idx := range keep {
			r[j] = row[idx]
		}

		out.Rows = append(out.Rows, r)
	}

	return out
}

// Rename renames header columns in place. Unknown keys are ignored.
func (t *Table) Rename(names map[string]string) {
	for i, h := range t.Header {
		if to, ok := names[h]; ok {
			t.Header[i] = to
		}
	}

	t.reindex()
}

// RenameAlias renames from to to when from exists and to does not.
func (t *Table) RenameAlias(from, to string) {
	if t.Has(from) && !t.Has(to) {
		t.Rename(map[string]string{from: to})
	}
}

// FillDefault replaces blank cells of col with value. It does nothing when
// col is absent.
func (t *Table) FillDefault(col, value string) {
	idx := t.Index(col)
	if idx < 0 {
		return
	}

	for _, row := range t.Rows {
		if strings.TrimSpace(row[idx]) == "" {
			row[idx] = value
		}
	}
}

// Map rewrites every cell of col through fn.
func (t *Table) Map(col string, fn func(string) string) {
	idx := t.Index(col)
	if idx < 0 {
		return
	}

	for _, row := range t.Rows {
		row[idx] = fn(row[idx])
	}
}

// SortKey orders rows by one column.
type SortKey struct {
	Column string
	Desc   bool
	// BlankLast places empty cells after all non-empty ones regardless of Desc.
	BlankLast bool
}

// StableSort sorts rows by keys, preserving input order among equal rows.
// Keys naming absent columns are skipped.
func (t *Table) StableSort(keys ...SortKey) {
	type resolved struct {
		SortKey
		idx int
	}

	var rs []resolved
	for _, k := range keys {
		if idx := t.Index(k.Column); idx >= 0 {
			rs = append(rs, resolved{k, idx})
		}
	}

	if len(rs) == 0 {
		return
	}

	sort.SliceStable(t.Rows, func(a, b int) bool {
		for _, k := range rs {
			va, vb := t.Rows[a][k.idx], t.Rows[b][k.idx]
			if va == vb {
				continue
			}

			if k.BlankLast && (va == "" || vb == "") {
				return vb == ""
			}

			if k.Desc {
				return va > vb
			}

			return va < vb
		}

		return false
	})
}
