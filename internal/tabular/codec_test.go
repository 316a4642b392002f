package tabular

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

func TestAppendWriterWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ivl_hits.csv")
	header := []string{"noticeId", "ueiSAM", "cage", "vendorName"}

	w, err := OpenAppend(path, header)
	require.NoError(t, err)
	require.NoError(t, w.Write([]string{"N1", "UEI1", "C1", "Acme, Inc."}))
	require.NoError(t, w.Close())

	w, err = OpenAppend(path, header)
	require.NoError(t, err)
	require.NoError(t, w.Write([]string{"N2", "UEI2", "C2", "Bolt"}))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "noticeId"))

	tbl, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, "Acme, Inc.", tbl.Value(0, "vendorName"))
	assert.Equal(t, 1, w.Rows())
}

func TestReadCSVEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	tbl, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
}

func TestReadCSVStripsBOM(t *testing.T) {
	tbl, err := DecodeCSV(strings.NewReader("\ufeffueiSAM,cage\nABC,1X2Y3\n"))
	require.NoError(t, err)
	assert.True(t, tbl.Has("ueiSAM"))
	assert.Equal(t, "1X2Y3", tbl.Value(0, "cage"))
}

func TestExtractReader(t *testing.T) {
	input := "BOF PUBLIC V2|20250601|\nUEI1|x|y\nUEI2|a \"quoted\" cell|z|extra\n"

	r := NewExtractReader(strings.NewReader(input))
	require.NoError(t, r.SkipHeader())

	row, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"UEI1", "x", "y"}, row)

	row, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "a \"quoted\" cell", row[1])
	assert.Len(t, row, 4)

	_, err = r.Next()
	assert.True(t, errors.Is(err, io.EOF))
	assert.Equal(t, 3, r.Line())
}

func TestExtractReaderLeadingQuoteStaysOnItsLine(t *testing.T) {
	input := "HDR\nU1|\"ACME\" INC|212-555-0198\nU2|BETA LLC|907-555-0100\r\nU3|\"GAMMA\nU4|DELTA"

	r := NewExtractReader(strings.NewReader(input))
	require.NoError(t, r.SkipHeader())

	var rows [][]string
	for {
		row, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		rows = append(rows, row)
	}

	assert.Equal(t, [][]string{
		{"U1", "ACME INC", "212-555-0198"},
		{"U2", "BETA LLC", "907-555-0100"},
		{"U3", "GAMMA"},
		{"U4", "DELTA"},
	}, rows)
	assert.Empty(t, r.Warnings())
}

func TestExtractReaderSkipsNULLines(t *testing.T) {
	r := NewExtractReader(strings.NewReader("HDR\nU1|a\x00b\nU2|ok\n"))
	require.NoError(t, r.SkipHeader())

	row, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"U2", "ok"}, row)

	require.Len(t, r.Warnings(), 1)
	assert.Equal(t, 2, r.Warnings()[0].Line)
}

func TestSplitExtractLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"plain", "a|b|c", []string{"a", "b", "c"}},
		{"empty cells", "a||", []string{"a", "", ""}},
		{"empty line", "", []string{""}},
		{"quoted delimiter", `"a|b"|c`, []string{"a|b", "c"}},
		{"doubled quote", `"say ""hi"""|x`, []string{`say "hi"`, "x"}},
		{"inner quote literal", `a "b" c|d`, []string{`a "b" c`, "d"}},
		{"unclosed quote", `"open|x`, []string{"open|x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitExtractLine(tt.line))
		})
	}
}

func TestExtractReaderUTF16(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	encoded, err := enc.String("HDR\nUEI9|Café\n")
	require.NoError(t, err)

	r := NewExtractReader(bytes.NewReader([]byte(encoded)))
	require.NoError(t, r.SkipHeader())

	row, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"UEI9", "Café"}, row)
}

func TestExtractReaderEmpty(t *testing.T) {
	r := NewExtractReader(strings.NewReader(""))
	assert.ErrorIs(t, r.SkipHeader(), io.EOF)
}

func TestWorkbookRoundTrip(t *testing.T) {
	tbl := NewTable([]string{"UEI", "EMAIL_COUNT", "Email Addresses"})
	tbl.Append([]string{"UEI1", "2", "a@x.com; b@x.com"})
	tbl.Append([]string{"UEI2", "0", ""})
	tbl.Append([]string{"", "1", "c@x.com"})

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteWorkbook(path, tbl, "EMAIL_COUNT"))

	got, err := ReadWorkbook(path)
	require.NoError(t, err)
	assert.Equal(t, tbl.Header, got.Header)
	assert.Equal(t, tbl.Rows, got.Rows)
}

func TestReadWorkbookMissing(t *testing.T) {
	_, err := ReadWorkbook(filepath.Join(t.TempDir(), "none.xlsx"))
	assert.Error(t, err)
}
