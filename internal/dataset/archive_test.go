package dataset

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestIsArchive(t *testing.T) {
	rvtools := buildZip(t, map[string]string{
		"export_tabvcpu.csv": "VM UUID;CPUs\nu1;4\n",
	})
	assert.True(t, IsArchive(rvtools))

	unrelated := buildZip(t, map[string]string{
		"readme.txt": "nothing here",
	})
	assert.False(t, IsArchive(unrelated))

	assert.False(t, IsArchive([]byte("not a zip")))
}

func TestReadArchive(t *testing.T) {
	content := buildZip(t, map[string]string{
		"RVTools_tabvcpu.csv":    "VM UUID;VM Name;CPUs\nu1;web-01;4\n",
		"RVTools_tabvmemory.csv": "VM UUID;Size MiB\nu1;16384\n",
		"RVTools_tabvdisk.csv":   "VM UUID;Capacity MiB\nu1;51200\n",
		"notes.txt":              "ignored",
	})

	datasets, err := ReadArchive(content)
	require.NoError(t, err)
	require.Len(t, datasets, 3)

	assert.Contains(t, datasets, "cpu")
	assert.Contains(t, datasets, "memory")
	assert.Contains(t, datasets, "disk")
	assert.Equal(t, []string{"VM UUID", "VM Name", "CPUs"}, datasets["cpu"].Headers)
}

func TestReadArchiveSkipsDatasetsWithoutIdentity(t *testing.T) {
	content := buildZip(t, map[string]string{
		"tabvcpu.csv":  "VM UUID;CPUs\nu1;4\n",
		"tabvdisk.csv": "Disk;Capacity MiB\nd1;1024\n",
	})

	datasets, err := ReadArchive(content)
	require.NoError(t, err)
	assert.Contains(t, datasets, "cpu")
	assert.NotContains(t, datasets, "disk")
}

func TestReadArchiveSkipsEmptyDatasets(t *testing.T) {
	content := buildZip(t, map[string]string{
		"tabvcpu.csv":    "VM UUID;CPUs\nu1;4\n",
		"tabvmemory.csv": "VM UUID;Size MiB\n",
	})

	datasets, err := ReadArchive(content)
	require.NoError(t, err)
	assert.Contains(t, datasets, "cpu")
	assert.NotContains(t, datasets, "memory")
}

func TestReadArchiveFirstFileWinsOnDuplicates(t *testing.T) {
	// zip.Writer preserves insertion order; maps do not, so build explicitly
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range []struct{ name, content string }{
		{"a/tabvcpu.csv", "VM UUID;CPUs\nu1;4\n"},
		{"b/tabvcpu.csv", "VM UUID;CPUs\nu9;16\n"},
	} {
		w, err := zw.Create(f.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	datasets, err := ReadArchive(buf.Bytes())
	require.NoError(t, err)
	require.Contains(t, datasets, "cpu")
	assert.Equal(t, "u1", datasets["cpu"].Rows[0][0])
}

func TestReadArchiveNotAZip(t *testing.T) {
	_, err := ReadArchive([]byte("plain text"))
	assert.Error(t, err)
}
