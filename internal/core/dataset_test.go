package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDataset(t *testing.T) {
	ds, err := BuildDataset(RawTable{
		Columns: []string{" name ", "age", "city"},
		Rows: []map[string]string{
			{" name ": "alice", "age": "30", "city": "Oslo"},
			{" name ": "bob", "age": " "},
			{"age": "x"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age", "city"}, ds.Columns)
	require.Len(t, ds.Rows, 3)

	assert.Equal(t, Text("alice"), ds.Rows[0]["name"])
	assert.Equal(t, Number(30), ds.Rows[0]["age"])

	assert.True(t, ds.Rows[1]["age"].IsAbsent(), "blank cells resolve to absence")
	assert.True(t, ds.Rows[1]["city"].IsAbsent(), "missing cells resolve to absence")

	for i, row := range ds.Rows {
		assert.Len(t, row, 3, "row %d carries every column", i)
	}
}

func TestBuildDataset_DuplicateHeadersLastWriteWins(t *testing.T) {
	ds, err := BuildDataset(RawTable{
		Columns: []string{"id", "name", " name"},
		Rows: []map[string]string{
			{"id": "1", "name": "first", " name": "second"},
			{"id": "2", "name": "only"},
			{"id": "3", " name": "late"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name"}, ds.Columns, "collapsed column keeps its first position")
	assert.Equal(t, Text("second"), ds.Rows[0]["name"])
	assert.Equal(t, Text("only"), ds.Rows[1]["name"])
	assert.Equal(t, Text("late"), ds.Rows[2]["name"])
}

func TestBuildDataset_NoColumns(t *testing.T) {
	_, err := BuildDataset(RawTable{})
	assert.ErrorIs(t, err, ErrNoColumns)
}

func TestBuildDataset_NoRows(t *testing.T) {
	ds, err := BuildDataset(RawTable{Columns: []string{"a"}})
	require.NoError(t, err)
	assert.Empty(t, ds.Rows)
	assert.Empty(t, ds.Sorted("a", DirAsc))
}

func TestDataset_SortedLeavesOriginalOrder(t *testing.T) {
	ds, err := BuildDataset(RawTable{
		Columns: []string{"n"},
		Rows: []map[string]string{
			{"n": "3"}, {"n": "1"}, {"n": "2"},
		},
	})
	require.NoError(t, err)

	sorted := ds.Sorted("n", DirAsc)
	assert.Equal(t, Number(1), sorted[0]["n"])
	assert.Equal(t, Number(3), ds.Rows[0]["n"])

	assert.True(t, ds.HasColumn("n"))
	assert.False(t, ds.HasColumn("m"))
}
