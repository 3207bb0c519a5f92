package dataset

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, sheets map[string][][]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for sheet, rows := range sheets {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(sheet, cell, &row))
		}
	}
	require.NoError(t, f.DeleteSheet("Sheet1"))

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestIsWorkbook(t *testing.T) {
	content := buildWorkbook(t, map[string][][]string{
		"vCPU": {{"VM UUID", "CPUs"}, {"u1", "4"}},
	})
	assert.True(t, IsWorkbook(content))

	assert.False(t, IsWorkbook([]byte("csv;data\n")))
}

func TestReadWorkbook(t *testing.T) {
	content := buildWorkbook(t, map[string][][]string{
		"vCPU":    {{"VM UUID", "VM Name", "CPUs"}, {"u1", "web-01", "4"}},
		"vMemory": {{"VM UUID", "Size MiB"}, {"u1", "16384"}},
		"vHost":   {{"Host"}, {"esx-01"}}, // not a recognized sheet
	})

	datasets, err := ReadWorkbook(content)
	require.NoError(t, err)
	require.Len(t, datasets, 2)

	assert.Equal(t, []string{"VM UUID", "VM Name", "CPUs"}, datasets["cpu"].Headers)
	assert.Equal(t, [][]string{{"u1", "web-01", "4"}}, datasets["cpu"].Rows)
	assert.Contains(t, datasets, "memory")
}

func TestReadWorkbookSkipsHeaderOnlySheets(t *testing.T) {
	content := buildWorkbook(t, map[string][][]string{
		"vCPU":  {{"VM UUID", "CPUs"}, {"u1", "4"}},
		"vDisk": {{"VM UUID", "Capacity MiB"}},
	})

	datasets, err := ReadWorkbook(content)
	require.NoError(t, err)
	assert.Contains(t, datasets, "cpu")
	assert.NotContains(t, datasets, "disk")
}

func TestReadWorkbookSkipsSheetsWithoutIdentity(t *testing.T) {
	content := buildWorkbook(t, map[string][][]string{
		"vCPU":     {{"VM UUID", "CPUs"}, {"u1", "4"}},
		"vNetwork": {{"Adapter"}, {"eth0"}},
	})

	datasets, err := ReadWorkbook(content)
	require.NoError(t, err)
	assert.Contains(t, datasets, "cpu")
	assert.NotContains(t, datasets, "network")
}
