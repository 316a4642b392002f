package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadCSV reads a comma-separated file with a header row. Short rows are
// padded and long rows truncated to the header width.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return DecodeCSV(f)
}

// DecodeCSV parses CSV from r.
func DecodeCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(DecodeUTF(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return NewTable(nil), nil
		}

		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	t := NewTable(header)

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", t.Len()+2, err)
		}

		t.Append(row)
	}

	return t, nil
}

// AppendWriter appends rows to a CSV file, writing the header only when the
// file is new or empty.
type AppendWriter struct {
	path string
	file *os.File
	w    *csv.Writer
	rows int
}

// OpenAppend opens path for appending.
func OpenAppend(path string, header []string) (*AppendWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	aw := &AppendWriter{path: path, file: f, w: csv.NewWriter(f)}

	if info.Size() == 0 {
		if err := aw.w.Write(header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write header to %s: %w", path, err)
		}

		if err := aw.Flush(); err != nil {
			f.Close()
			return nil, err
		}
	}

	return aw, nil
}

// Rows returns the number of data rows written through this writer.
func (a *AppendWriter) Rows() int {
	return a.rows
}

// Write buffers one row.
func (a *AppendWriter) Write(row []string) error {
	if err := a.w.Write(row); err != nil {
		return fmt.Errorf("failed to write row to %s: %w", a.path, err)
	}

	a.rows++

	return nil
}

// Flush pushes buffered rows to the file.
func (a *AppendWriter) Flush() error {
	a.w.Flush()
	if err := a.w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", a.path, err)
	}

	return nil
}

// Close flushes and closes the file.
func (a *AppendWriter) Close() error {
	flushErr := a.Flush()
	if err := a.file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", a.path, err)
	}

	return flushErr
}
