package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmassess/bomgen/internal/dataset"
)

func TestAggregateSumsCapacityColumns(t *testing.T) {
	ds := &dataset.Dataset{
		Name:    "disk",
		Headers: []string{"VM UUID", "Disk", "Capacity MiB"},
		Rows: [][]string{
			{"u1", "Hard disk 1", "51200"},
			{"u1", "Hard disk 2", "20480"},
			{"u2", "Hard disk 1", "10240"},
		},
	}

	got := Aggregate(ds)
	require.Len(t, got.Rows, 2)

	// one row per identity, capacities summed then normalized to GB
	assert.Equal(t, []string{"VM UUID", "Disk", "Capacity GB"}, got.Headers)
	assert.Equal(t, []string{"u1", "Hard disk 1", "70"}, got.Rows[0])
	assert.Equal(t, []string{"u2", "Hard disk 1", "10"}, got.Rows[1])
}

func TestAggregateAveragesOtherNumericColumns(t *testing.T) {
	ds := &dataset.Dataset{
		Name:    "network",
		Headers: []string{"VM UUID", "Adapter", "Link Speed"},
		Rows: [][]string{
			{"u1", "eth0", "1000"},
			{"u1", "eth1", "3000"},
		},
	}

	got := Aggregate(ds)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, []string{"u1", "eth0", "2000"}, got.Rows[0])
}

func TestAggregateUniqueIdentitiesPassThrough(t *testing.T) {
	ds := &dataset.Dataset{
		Name:    "cpu",
		Headers: []string{"VM UUID", "CPUs", "Memory MiB"},
		Rows: [][]string{
			{"u1", "4", "4096"},
			{"u2", "2", "2048"},
		},
	}

	got := Aggregate(ds)
	require.Len(t, got.Rows, 2)
	// already one row per VM: only unit normalization applies
	assert.Equal(t, []string{"VM UUID", "CPUs", "Memory GB"}, got.Headers)
	assert.Equal(t, []string{"u1", "4", "4"}, got.Rows[0])
}

func TestAggregateDropsEmptyIdentityRows(t *testing.T) {
	ds := &dataset.Dataset{
		Name:    "disk",
		Headers: []string{"VM UUID", "Capacity MiB"},
		Rows: [][]string{
			{"u1", "1024"},
			{"", "9999"},
			{"u1", "1024"},
		},
	}

	got := Aggregate(ds)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, []string{"u1", "2"}, got.Rows[0])
}

func TestAggregateWithoutIdentityReturnsInputUnchanged(t *testing.T) {
	ds := &dataset.Dataset{
		Name:    "disk",
		Headers: []string{"Disk", "Capacity MiB"},
		Rows:    [][]string{{"Hard disk 1", "1024"}},
	}

	got := Aggregate(ds)
	assert.Same(t, ds, got)
}

func TestAggregateKeepsFirstValueForNonNumericColumns(t *testing.T) {
	// The capacity-named column holds garbage, so it is not treated as
	// numeric: each VM keeps its first-seen value instead of a sum.
	ds := &dataset.Dataset{
		Name:    "disk",
		Headers: []string{"VM UUID", "Capacity Text"},
		Rows: [][]string{
			{"u1", "100"},
			{"u1", "200"},
			{"u2", "broken"},
		},
	}

	got := Aggregate(ds)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, []string{"u1", "100"}, got.Rows[0])
	assert.Equal(t, []string{"u2", "broken"}, got.Rows[1])
}
