// Package formatter renders tables as aligned markdown for terminal previews.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"samivl/internal/tabular"
	"samivl/pkg/utils"
)

const (
	minColumnWidth = 3
	ellipsis       = "…"
)

// Options controls a preview.
type Options struct {
	// MaxRows limits the rendered data rows. Zero renders all rows.
	MaxRows int
	// MaxCellWidth truncates wider cells. Zero disables truncation.
	MaxCellWidth int
	// Columns restricts output to the named columns that exist.
	Columns []string
}

// FormatTable renders t as a markdown table padded by display width, so
// wide runes line up in a terminal.
func FormatTable(t *tabular.Table, opts Options) string {
	if len(opts.Columns) > 0 {
		t = t.Project(opts.Columns)
	}

	if len(t.Header) == 0 {
		return ""
	}

	rows := t.Rows
	if opts.MaxRows > 0 && len(rows) > opts.MaxRows {
		rows = rows[:opts.MaxRows]
	}

	cells := make([][]string, 0, len(rows)+1)
	cells = append(cells, clip(t.Header, opts.MaxCellWidth))

	for _, row := range rows {
		cells = append(cells, clip(row, opts.MaxCellWidth))
	}

	widths := make([]int, len(t.Header))
	for i := range widths {
		widths[i] = minColumnWidth
	}

	for _, row := range cells {
		for i, c := range row {
			if w := runewidth.StringWidth(c); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder

	writeRow(&sb, cells[0], widths)

	sb.WriteString("|")
	for _, w := range widths {
		sb.WriteString(" ")
		sb.WriteString(strings.Repeat("-", w))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")

	for _, row := range cells[1:] {
		writeRow(&sb, row, widths)
	}

	return sb.String()
}

func writeRow(sb *strings.Builder, row []string, widths []int) {
	sb.WriteString("|")

	for i, w := range widths {
		content := ""
		if i < len(row) {
			content = row[i]
		}

		sb.WriteString(" ")
		sb.WriteString(runewidth.FillRight(content, w))
		sb.WriteString(" |")
	}

	sb.WriteString("\n")
}

func clip(row []string, max int) []string {
	out := make([]string, len(row))

	for i, c := range row {
		c = utils.NormalizeWhitespace(c)
		if max > 0 && runewidth.StringWidth(c) > max {
			c = runewidth.Truncate(c, max, ellipsis)
		}

		out[i] = c
	}

	return out
}
