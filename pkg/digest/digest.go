// Package digest computes content hashes for produced tables and files.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrDigestMismatch is returned by Verify when hashes differ.
var ErrDigestMismatch = errors.New("digest mismatch")

const (
	unitSep   = "\x1f"
	recordSep = "\x1e"
)

// Table returns the SHA-256 of a header and its rows. Cell and row
// separators are ASCII unit/record separators so "a,b" and "a","b" differ.
func Table(header []string, rows [][]string) string {
	h := sha256.New()

	writeRecord(h, header)

	for _, row := range rows {
		writeRecord(h, row)
	}

	return hex.EncodeToString(h.Sum(nil))
}

func writeRecord(w io.Writer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			_, _ = io.WriteString(w, unitSep)
		}

		_, _ = io.WriteString(w, c)
	}

	_, _ = io.WriteString(w, recordSep)
}

// File returns the SHA-256 of a file's contents.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify checks that the table hashes to want.
func Verify(want string, header []string, rows [][]string) error {
	got := Table(header, rows)
	if got != want {
		return fmt.Errorf("%w: expected %s, got %s", ErrDigestMismatch, want, got)
	}

	return nil
}
