package validator

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samivl/internal/artifact"
	"samivl/internal/models"
)

const (
	goodNotices = "noticeId,title,postedDate,ptype,ivl_len\nN1,Radar,2025-07-30,p,2\nN2,Doors,2025-07-29,p,0\n"
	goodRoster  = "noticeId,ueiSAM,cage,vendorName\nN1,U1,C1,Alpha\nN1,,,Nameless\n"
)

func writeRun(t *testing.T, files map[string]string, summary *models.RunSummary) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "20250801_093215_p_harvest")
	require.NoError(t, os.MkdirAll(dir, 0755))

	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
	}

	if summary != nil {
		data, err := json.Marshal(summary)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, artifact.SummaryFile), data, 0644))
	}

	return dir
}

func TestValidateRun(t *testing.T) {
	tests := []struct {
		name         string
		notices      string
		roster       string
		summary      *models.RunSummary
		wantValid    bool
		wantErrField string
		wantWarnings int
	}{
		{
			name:         "consistent run",
			notices:      goodNotices,
			roster:       goodRoster,
			summary:      &models.RunSummary{State: models.StateDone, Notices: 2, RosterRows: 2},
			wantValid:    true,
			wantWarnings: 1,
		},
		{
			name:         "missing summary is a warning",
			notices:      goodNotices,
			roster:       goodRoster,
			wantValid:    true,
			wantWarnings: 2,
		},
		{
			name:         "declared size disagrees",
			notices:      "noticeId,title,postedDate,ptype,ivl_len\nN1,Radar,2025-07-30,p,3\n",
			roster:       goodRoster,
			summary:      &models.RunSummary{Notices: 1, RosterRows: 2},
			wantErrField: "ivl_len",
			wantWarnings: 1,
		},
		{
			name:         "orphan roster row",
			notices:      goodNotices,
			roster:       goodRoster + "N9,U9,C9,Ghost\n",
			summary:      &models.RunSummary{Notices: 2, RosterRows: 3},
			wantErrField: "noticeId",
			wantWarnings: 1,
		},
		{
			name:         "bad ptype",
			notices:      "noticeId,title,postedDate,ptype,ivl_len\nN1,Radar,2025-07-30,x,2\n",
			roster:       goodRoster,
			summary:      &models.RunSummary{Notices: 1, RosterRows: 2},
			wantErrField: "ptype",
			wantWarnings: 1,
		},
		{
			name:         "summary counts disagree",
			notices:      goodNotices,
			roster:       goodRoster,
			summary:      &models.RunSummary{Notices: 5, RosterRows: 2},
			wantErrField: "notices",
			wantWarnings: 1,
		},
		{
			name:         "roster missing key column",
			notices:      goodNotices,
			roster:       "noticeId,ueiSAM,vendorName\nN1,U1,Alpha\n",
			wantErrField: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeRun(t, map[string]string{
				artifact.NoticesFile: tt.notices,
				artifact.RosterFile:  tt.roster,
			}, tt.summary)

			res := ValidateRun(dir)

			assert.Equal(t, tt.wantValid, res.IsValid, "errors: %+v", res.Errors)
			assert.Len(t, res.Warnings, tt.wantWarnings, "warnings: %v", res.Warnings)

			if tt.wantValid {
				assert.NoError(t, res.Err())
				return
			}

			require.NotEmpty(t, res.Errors)
			assert.Equal(t, tt.wantErrField, res.Errors[0].Field)
			assert.ErrorIs(t, res.Err(), ErrRunInvalid)
		})
	}
}

func TestValidateRunMissingFiles(t *testing.T) {
	dir := writeRun(t, map[string]string{artifact.NoticesFile: goodNotices}, nil)

	res := ValidateRun(dir)

	require.False(t, res.IsValid)
	assert.Equal(t, artifact.RosterFile, res.Errors[0].File)
}

func TestValidateRunStats(t *testing.T) {
	dir := writeRun(t, map[string]string{
		artifact.NoticesFile: goodNotices + "N1,Radar,2025-07-30,p,0\n",
		artifact.RosterFile:  goodRoster,
	}, &models.RunSummary{Notices: 3, RosterRows: 2})

	res := ValidateRun(dir)

	assert.True(t, res.IsValid, "errors: %+v", res.Errors)
	assert.Equal(t, ValidationStats{Notices: 3, RosterRows: 2, DuplicateNotices: 1, BlankKeyRows: 1}, res.Stats)
	assert.Contains(t, res.String(), "VALID")
}
