package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

var (
	// ErrNoArtifacts is returned when discovery finds no candidate.
	ErrNoArtifacts = errors.New("no artifacts found")
	// ErrInvalidHarvestDir is returned for an override that is not a *_harvest directory.
	ErrInvalidHarvestDir = errors.New("not a *_harvest directory")
)

// Kind selects which artifact family to discover.
type Kind int

const (
	KindExtract Kind = iota
	KindEntityWorkbook
	KindHarvest
)

func (k Kind) String() string {
	switch k {
	case KindExtract:
		return "entity extract"
	case KindEntityWorkbook:
		return "entity workbook"
	case KindHarvest:
		return "harvest run"
	default:
		return "unknown"
	}
}

// Candidate is one discovered artifact with its embedded date token.
type Candidate struct {
	Path  string
	Token string
}

// Discoverer lists candidates of a kind sorted ascending by token.
type Discoverer interface {
	Candidates(kind Kind) ([]Candidate, error)
}

// Latest returns the last candidate of kind, i.e. the greatest token.
func Latest(d Discoverer, kind Kind) (Candidate, error) {
	cands, err := d.Candidates(kind)
	if err != nil {
		return Candidate{}, err
	}

	if len(cands) == 0 {
		return Candidate{}, fmt.Errorf("%w: no %s", ErrNoArtifacts, kind)
	}

	return cands[len(cands)-1], nil
}

// SortCandidates orders by token, then path, so ties resolve the same way
// on every run.
func SortCandidates(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Token != cands[j].Token {
			return cands[i].Token < cands[j].Token
		}

		return cands[i].Path < cands[j].Path
	})
}

// FS discovers artifacts on disk. Extracts and entity workbooks live one
// level below EntityRoot; harvest runs anywhere below HarvestRoot.
type FS struct {
	EntityRoot  string
	HarvestRoot string
}

// Candidates implements Discoverer. The file modification time is never
// consulted.
func (d FS) Candidates(kind Kind) ([]Candidate, error) {
	var (
		cands []Candidate
		err   error
	)

	switch kind {
	case KindExtract:
		cands, err = globTokens(filepath.Join(d.EntityRoot, "*", "SAM_PUBLIC_UTF-8_MONTHLY_V2_*"), func(name string) string {
			if m := extractPattern.FindStringSubmatch(name); m != nil {
				return m[1]
			}

			return ""
		})
	case KindEntityWorkbook:
		cands, err = globTokens(filepath.Join(d.EntityRoot, "*", "formatted_entities_*.xlsx"), func(name string) string {
			if m := workbookPattern.FindStringSubmatch(name); m != nil {
				return m[1]
			}

			return ""
		})
	case KindHarvest:
		cands, err = d.harvestRuns()
	default:
		return nil, fmt.Errorf("unknown artifact kind %d", kind)
	}

	if err != nil {
		return nil, err
	}

	SortCandidates(cands)

	return cands, nil
}

func globTokens(pattern string, token func(string) string) ([]Candidate, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad glob %s: %w", pattern, err)
	}

	var cands []Candidate
	for _, p := range matches {
		if tok := token(filepath.Base(p)); tok != "" {
			cands = append(cands, Candidate{Path: p, Token: tok})
		}
	}

	return cands, nil
}

func (d FS) harvestRuns() ([]Candidate, error) {
	if _, err := os.Stat(d.HarvestRoot); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	var cands []Candidate

	err := filepath.WalkDir(d.HarvestRoot, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !entry.IsDir() || path == d.HarvestRoot {
			return nil
		}

		if m := harvestPattern.FindStringSubmatch(entry.Name()); m != nil {
			cands = append(cands, Candidate{Path: path, Token: m[1]})
			return filepath.SkipDir
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", d.HarvestRoot, err)
	}

	return cands, nil
}

// ResolveHarvest returns override when it is an existing *_harvest
// directory, or the latest discovered run when override is empty.
func ResolveHarvest(d Discoverer, override string) (string, error) {
	if override == "" {
		c, err := Latest(d, KindHarvest)
		if err != nil {
			return "", err
		}

		return c.Path, nil
	}

	abs, err := filepath.Abs(override)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", override, err)
	}

	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() || !IsHarvestDir(abs) {
		return "", fmt.Errorf("%w: %s", ErrInvalidHarvestDir, override)
	}

	return abs, nil
}
