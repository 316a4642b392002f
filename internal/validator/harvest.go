// Package validator checks that the files of a harvest run agree with each other.
package validator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"samivl/internal/artifact"
	"samivl/internal/manifest"
	"samivl/internal/models"
	"samivl/internal/tabular"
	"samivl/pkg/utils"
)

// ErrRunInvalid is returned by Err for a result with errors.
var ErrRunInvalid = errors.New("harvest run is inconsistent")

var (
	noticeColumns = []string{"noticeId", "title", "postedDate", "ptype", "ivl_len"}
	rosterColumns = []string{"noticeId", "ueiSAM", "cage", "vendorName"}
)

// ValidationError is one inconsistency, located by file and data line.
type ValidationError struct {
	File    string
	Line    int
	Field   string
	Value   string
	Message string
}

// ValidationStats counts what was checked.
type ValidationStats struct {
	Notices          int
	RosterRows       int
	DuplicateNotices int
	BlankKeyRows     int
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []string
	Stats    ValidationStats
	IsValid  bool
}

func (r *ValidationResult) fail(e ValidationError) {
	r.Errors = append(r.Errors, e)
	r.IsValid = false
}

func (r *ValidationResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Err returns ErrRunInvalid wrapping the first error, or nil.
func (r *ValidationResult) Err() error {
	if r.IsValid {
		return nil
	}

	first := r.Errors[0]

	return fmt.Errorf("%w: %s line %d: %s", ErrRunInvalid, first.File, first.Line, first.Message)
}

// ValidateRun checks the notices file, the roster file, and the summary of
// the harvest run in runDir. Unreadable or malformed files are errors; data
// that can never match an entity is a warning.
func ValidateRun(runDir string) *ValidationResult {
	result := &ValidationResult{IsValid: true}

	notices, ok := readTable(result, runDir, artifact.NoticesFile, noticeColumns)
	if !ok {
		return result
	}

	roster, ok := readTable(result, runDir, artifact.RosterFile, rosterColumns)
	if !ok {
		return result
	}

	declared := checkNotices(result, notices)
	counted := checkRoster(result, roster, declared)

	for id, want := range declared {
		if got := counted[id]; got != want {
			result.fail(ValidationError{
				File:    artifact.NoticesFile,
				Field:   "ivl_len",
				Value:   id,
				Message: fmt.Sprintf("notice declares %d roster rows, found %d", want, got),
			})
		}
	}

	checkSummary(result, runDir)

	return result
}

func readTable(result *ValidationResult, runDir, name string, cols []string) (*tabular.Table, bool) {
	t, err := tabular.ReadCSV(filepath.Join(runDir, name))
	if err != nil {
		result.fail(ValidationError{File: name, Message: err.Error()})
		return nil, false
	}

	if err := t.Require(cols...); err != nil {
		result.fail(ValidationError{File: name, Message: err.Error()})
		return nil, false
	}

	return t, true
}

// checkNotices returns the declared roster size per notice id.
func checkNotices(result *ValidationResult, t *tabular.Table) map[string]int {
	declared := make(map[string]int, t.Len())

	for i := range t.Rows {
		line := i + 2
		result.Stats.Notices++

		id := t.Value(i, "noticeId")
		if id == "" {
			result.fail(ValidationError{File: artifact.NoticesFile, Line: line, Field: "noticeId", Message: "notice id is empty"})
			continue
		}

		switch pt := t.Value(i, "ptype"); pt {
		case models.PTypePresolicitation, models.PTypeSourcesSought:
		default:
			result.fail(ValidationError{File: artifact.NoticesFile, Line: line, Field: "ptype", Value: pt, Message: "unknown notice type"})
		}

		n, err := strconv.Atoi(t.Value(i, "ivl_len"))
		if err != nil || n < 0 {
			result.fail(ValidationError{File: artifact.NoticesFile, Line: line, Field: "ivl_len", Value: t.Value(i, "ivl_len"), Message: "roster size is not a count"})
			continue
		}

		if _, dup := declared[id]; dup {
			result.Stats.DuplicateNotices++
			result.warn("%s line %d: notice %s appears more than once", artifact.NoticesFile, line, id)
		}

		declared[id] += n
	}

	return declared
}

// checkRoster returns the roster row count per notice id.
func checkRoster(result *ValidationResult, t *tabular.Table, declared map[string]int) map[string]int {
	counted := make(map[string]int, len(declared))

	for i := range t.Rows {
		line := i + 2
		result.Stats.RosterRows++

		id := t.Value(i, "noticeId")
		if _, known := declared[id]; !known {
			result.fail(ValidationError{File: artifact.RosterFile, Line: line, Field: "noticeId", Value: id, Message: "roster row for unknown notice"})
			continue
		}

		counted[id]++

		if strings.TrimSpace(t.Value(i, "ueiSAM")) == "" && strings.TrimSpace(t.Value(i, "cage")) == "" {
			result.Stats.BlankKeyRows++
		}
	}

	if result.Stats.BlankKeyRows > 0 {
		result.warn("%s: %d rows have neither UEI nor CAGE and cannot match an entity", artifact.RosterFile, result.Stats.BlankKeyRows)
	}

	return counted
}

func checkSummary(result *ValidationResult, runDir string) {
	summary, err := manifest.ReadSummary(runDir)
	if errors.Is(err, os.ErrNotExist) {
		result.warn("%s is missing; the run may have been interrupted", artifact.SummaryFile)
		return
	}

	if err != nil {
		result.fail(ValidationError{File: artifact.SummaryFile, Message: err.Error()})
		return
	}

	if summary.Notices != result.Stats.Notices {
		result.fail(ValidationError{
			File:    artifact.SummaryFile,
			Field:   "notices",
			Value:   strconv.Itoa(summary.Notices),
			Message: fmt.Sprintf("summary counts %d notices, file has %d", summary.Notices, result.Stats.Notices),
		})
	}

	if summary.RosterRows != result.Stats.RosterRows {
		result.fail(ValidationError{
			File:    artifact.SummaryFile,
			Field:   "ivl_rows",
			Value:   strconv.Itoa(summary.RosterRows),
			Message: fmt.Sprintf("summary counts %d roster rows, file has %d", summary.RosterRows, result.Stats.RosterRows),
		})
	}

	if summary.State == models.StateSearchFailed {
		result.warn("run ended in %s: %s", summary.State, summary.Error)
	}
}

// String returns string representation of validation result.
func (r *ValidationResult) String() string {
	status := "✅ VALID"
	if !r.IsValid {
		status = "❌ INVALID"
	}

	return fmt.Sprintf(
		"%s | Notices: %d | Roster rows: %d | Errors: %d | Warnings: %d",
		status,
		r.Stats.Notices,
		r.Stats.RosterRows,
		len(r.Errors),
		len(r.Warnings),
	)
}

// PrintErrors prints validation errors in readable format.
func (r *ValidationResult) PrintErrors() {
	if len(r.Errors) == 0 {
		return
	}

	fmt.Println("❌ Validation Errors:")

	for _, err := range r.Errors {
		if err.Line > 0 {
			fmt.Printf("  %s line %d", err.File, err.Line)
		} else {
			fmt.Printf("  %s", err.File)
		}

		if err.Field != "" {
			fmt.Printf(" [%s]", err.Field)
		}

		fmt.Printf(": %s\n", err.Message)

		if err.Value != "" {
			fmt.Printf("    Found: %q\n", utils.TruncateString(err.Value, 80))
		}
	}
}

// PrintWarnings prints validation warnings.
func (r *ValidationResult) PrintWarnings() {
	if len(r.Warnings) == 0 {
		return
	}

	fmt.Println("⚠️  Validation Warnings:")

	for _, warn := range r.Warnings {
		fmt.Printf("  %s\n", warn)
	}
}
