package tabular

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *Table {
	t := NewTable([]string{"name", "email", "phone"})
	t.Append([]string{"alpha", "No", "Yes"})
	t.Append([]string{"bravo", "Yes", "No"})
	t.Append([]string{"charlie", "No", "Yes"})
	t.Append([]string{"delta", "Yes", "No"})
	t.Append([]string{"echo"})

	return t
}

func TestAppendPadsShortRows(t *testing.T) {
	tbl := sampleTable()
	assert.Equal(t, []string{"echo", "", ""}, tbl.Rows[4])
}

func TestProjectKeepsPresentColumnsInOrder(t *testing.T) {
	out := sampleTable().Project([]string{"phone", "missing", "name"})

	assert.Equal(t, []string{"phone", "name"}, out.Header)
	assert.Equal(t, []string{"Yes", "alpha"}, out.Rows[0])
}

func TestRenameAndAlias(t *testing.T) {
	tbl := sampleTable()
	tbl.Rename(map[string]string{"email": "Has Email", "nope": "x"})
	assert.True(t, tbl.Has("Has Email"))
	assert.False(t, tbl.Has("email"))

	tbl.RenameAlias("name", "Has Email")
	assert.True(t, tbl.Has("name"), "alias must not clobber an existing column")

	tbl.RenameAlias("name", "Vendor Name")
	assert.Equal(t, 0, tbl.Index("Vendor Name"))
}

func TestRequire(t *testing.T) {
	tbl := sampleTable()
	require.NoError(t, tbl.Require("name", "email"))

	err := tbl.Require("name", "uei", "cage")
	require.ErrorIs(t, err, ErrMissingColumns)
	assert.Contains(t, err.Error(), "uei, cage")
}

func TestFillDefault(t *testing.T) {
	tbl := sampleTable()
	tbl.FillDefault("email", "No")
	assert.Equal(t, "No", tbl.Value(4, "email"))

	tbl.FillDefault("absent", "No")
	assert.False(t, tbl.Has("absent"))
}

func TestStableSortPreservesTies(t *testing.T) {
	tbl := sampleTable()
	tbl.FillDefault("email", "No")
	tbl.FillDefault("phone", "No")
	tbl.StableSort(SortKey{Column: "email", Desc: true}, SortKey{Column: "phone", Desc: true})

	var names []string
	for i := range tbl.Rows {
		names = append(names, tbl.Value(i, "name"))
	}

	want := []string{"bravo", "delta", "alpha", "charlie", "echo"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("sort order mismatch (-want +got):\n%s", diff)
	}
}

func TestStableSortBlankLast(t *testing.T) {
	tbl := NewTable([]string{"vendor"})
	for _, v := range []string{"", "Zulu", "acme", "", "Bravo"} {
		tbl.Append([]string{v})
	}

	tbl.StableSort(SortKey{Column: "vendor", BlankLast: true})

	var got []string
	for i := range tbl.Rows {
		got = append(got, tbl.Value(i, "vendor"))
	}

	assert.Equal(t, []string{"Bravo", "Zulu", "acme", "", ""}, got)
}

func TestStableSortUnknownColumn(t *testing.T) {
	tbl := sampleTable()
	tbl.StableSort(SortKey{Column: "missing"})
	assert.Equal(t, "alpha", tbl.Value(0, "name"))
}

func TestRecordAndSet(t *testing.T) {
	tbl := sampleTable()
	tbl.Set(0, "email", "Yes")
	tbl.Set(0, "absent", "ignored")

	rec := tbl.Record(0)
	assert.Equal(t, "Yes", rec["email"])
	assert.Len(t, rec, 3)
	assert.Equal(t, "", tbl.Value(99, "email"))
}
