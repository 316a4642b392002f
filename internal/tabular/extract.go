package tabular

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ExtractDelimiter separates cells in the entity extract.
const ExtractDelimiter = '|'

// DecodeUTF wraps r so a leading BOM is stripped and UTF-16 input is
// converted to UTF-8. Input without a BOM is read as UTF-8.
func DecodeUTF(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// ParseWarning records a row that could not be parsed.
type ParseWarning struct {
	Line    int
	Message string
}

// ExtractReader streams rows from a pipe-delimited extract. Every physical
// line is one row; a quote never carries a cell onto the next line.
type ExtractReader struct {
	r        *bufio.Reader
	line     int
	warnings []ParseWarning
}

// NewExtractReader creates a reader over a pipe-delimited stream.
func NewExtractReader(r io.Reader) *ExtractReader {
	return &ExtractReader{r: bufio.NewReaderSize(DecodeUTF(r), 64*1024)}
}

// SkipHeader discards exactly one row.
func (e *ExtractReader) SkipHeader() error {
	_, err := e.readLine()
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read header row: %w", err)
	}

	return err
}

// Next returns the next data row, or io.EOF. Lines containing NUL bytes
// are recorded as warnings and skipped.
func (e *ExtractReader) Next() ([]string, error) {
	for {
		line, err := e.readLine()
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read extract: %w", err)
		}

		if strings.IndexByte(line, 0) >= 0 {
			e.warnings = append(e.warnings, ParseWarning{Line: e.line, Message: "line contains NUL"})
			continue
		}

		return SplitExtractLine(line), nil
	}
}

// Line returns the number of physical lines consumed so far, header included.
func (e *ExtractReader) Line() int {
	return e.line
}

// Warnings returns the skipped-row warnings.
func (e *ExtractReader) Warnings() []ParseWarning {
	return e.warnings
}

// readLine returns the next line without its terminator. A final line
// without a newline is returned before io.EOF.
func (e *ExtractReader) readLine() (string, error) {
	line, err := e.r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}

	if errors.Is(err, io.EOF) && line == "" {
		return "", io.EOF
	}

	e.line++

	return strings.TrimRight(line, "\r\n"), nil
}

// SplitExtractLine splits one line on the delimiter. A cell that opens with
// a quote is unquoted: doubled quotes collapse, delimiters inside the quotes
// are kept, and text after the closing quote is appended. An unclosed quote
// ends at the end of the line. Quotes inside an unquoted cell are literal.
func SplitExtractLine(line string) []string {
	var cells []string
	var cell strings.Builder

	inside, start := false, true

	for i := 0; i < len(line); i++ {
		c := line[i]

		switch {
		case inside && c == '"':
			if i+1 < len(line) && line[i+1] == '"' {
				cell.WriteByte('"')
				i++
			} else {
				inside = false
			}
		case inside:
			cell.WriteByte(c)
		case c == ExtractDelimiter:
			cells = append(cells, cell.String())
			cell.Reset()
			start = true

			continue
		case start && c == '"':
			inside = true
		default:
			cell.WriteByte(c)
		}

		start = false
	}

	return append(cells, cell.String())
}
