package artifact

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoDataMember is returned when an extract archive holds no .dat file.
var ErrNoDataMember = errors.New("archive contains no .dat member")

// DataPath returns the .dat path to read for an extract candidate and
// whether it had to be extracted from a .zip. A .zip is only extracted
// when the sibling .dat does not exist yet.
func DataPath(extract string) (string, bool, error) {
	if filepath.Ext(extract) != ".zip" {
		return extract, false, nil
	}

	dat := strings.TrimSuffix(extract, ".zip") + ".dat"
	if _, err := os.Stat(dat); err == nil {
		return dat, false, nil
	}

	if err := ExtractDat(extract, dat); err != nil {
		return "", false, err
	}

	return dat, true, nil
}

// ExtractDat writes the first .dat member of the archive at src to dst.
func ExtractDat(src, dst string) error {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer zr.Close()

	for _, member := range zr.File {
		if member.FileInfo().IsDir() || !strings.HasSuffix(member.Name, ".dat") {
			continue
		}

		return copyMember(member, dst)
	}

	return fmt.Errorf("%w: %s", ErrNoDataMember, src)
}

func copyMember(member *zip.File, dst string) error {
	rc, err := member.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", member.Name, err)
	}
	defer rc.Close()

	tmp := dst + ".part"

	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmp, err)
	}

	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to extract %s: %w", member.Name, err)
	}

	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, dst)
}
