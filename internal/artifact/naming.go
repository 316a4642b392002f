// Package artifact names pipeline outputs and discovers the most recent
// input by the logical date embedded in its file name.
package artifact

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// File and directory names shared by the jobs.
const (
	NoticesFile   = "all_notices.csv"
	RosterFile    = "ivl_hits.csv"
	SummaryFile   = "harvest_summary.json"
	HarvestSuffix = "_harvest"
	CuratedSuffix = "_curated_ivl_contacts.xlsx"

	runTagLayout = "20060102_150405"
)

var (
	extractPattern  = regexp.MustCompile(`^SAM_PUBLIC_UTF-8_MONTHLY_V2_(\d{8})\.(dat|zip)$`)
	workbookPattern = regexp.MustCompile(`^formatted_entities_(\d{8})\.xlsx$`)
	harvestPattern  = regexp.MustCompile(`(\d{8}_\d{6})_[a-z]+_harvest$`)
)

// RunTag formats t as the YYYYMMDD_HHMMSS token used in harvest names.
func RunTag(t time.Time) string {
	return t.Format(runTagLayout)
}

// HarvestDir returns <root>/<YYYYMM>/<YYYYMMDD_HHMMSS>_<ptype>_harvest.
func HarvestDir(root string, t time.Time, ptype string) string {
	return filepath.Join(root, t.Format("200601"), fmt.Sprintf("%s_%s%s", RunTag(t), ptype, HarvestSuffix))
}

// EntityWorkbookName returns formatted_entities_<date>.xlsx.
func EntityWorkbookName(dateTag string) string {
	return "formatted_entities_" + dateTag + ".xlsx"
}

// CuratedName returns the curated workbook name for a harvest directory,
// e.g. 20250801_093215_p_curated_ivl_contacts.xlsx.
func CuratedName(harvestDir string) string {
	return strings.TrimSuffix(filepath.Base(harvestDir), HarvestSuffix) + CuratedSuffix
}

// ExtractDate returns the date token of an extract file name.
func ExtractDate(name string) (string, bool) {
	m := extractPattern.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return "", false
	}

	return m[1], true
}

// IsHarvestDir reports whether name looks like a harvest run directory.
func IsHarvestDir(name string) bool {
	return strings.HasSuffix(filepath.Base(name), HarvestSuffix)
}
