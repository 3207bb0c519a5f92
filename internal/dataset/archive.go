package dataset

import (
	"archive/zip"
	"bytes"
	"io"
	"path"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// filePatterns maps a logical dataset name to the substring its CSV file
// carries inside an RVTools ZIP export (tabvcpu.csv, tabvdisk.csv, ...).
var filePatterns = map[string]string{
	"cpu":     "tabvcpu",
	"memory":  "tabvmemory",
	"disk":    "tabvdisk",
	"info":    "tabvinfo",
	"tools":   "tabvtools",
	"network": "tabvnetwork",
}

// requiredPatterns must appear in a ZIP for it to count as an RVTools
// export at all.
var requiredPatterns = []string{"tabvcpu", "tabvmemory", "tabvdisk"}

// IsArchive reports whether content looks like an RVTools ZIP export:
// a readable ZIP containing at least one of the expected CSV names.
// Note that xlsx workbooks are ZIPs too, so callers should test
// IsWorkbook first.
func IsArchive(content []byte) bool {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		name := strings.ToLower(f.Name)
		for _, pattern := range requiredPatterns {
			if strings.Contains(name, pattern) {
				return true
			}
		}
	}
	return false
}

// ReadArchive extracts every recognized dataset out of a ZIP export.
// Unreadable or identity-less files are skipped with a log line, never
// fatal; an archive that yields no datasets returns an empty map and the
// pipeline surfaces the "no data" condition downstream.
func ReadArchive(content []byte) (map[string]*Dataset, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, errors.Wrap(err, "opening archive")
	}

	datasets := make(map[string]*Dataset)
	for _, f := range zr.File {
		filename := strings.ToLower(path.Base(f.Name))
		if !strings.HasSuffix(filename, ".csv") {
			continue
		}

		name := matchPattern(filename)
		if name == "" {
			continue
		}
		if _, dup := datasets[name]; dup {
			continue
		}

		raw, err := readZipFile(f)
		if err != nil {
			zap.S().Named("dataset").Warnf("skipping %s: %v", f.Name, err)
			continue
		}

		ds, err := ReadCSV(name, raw)
		if err != nil {
			zap.S().Named("dataset").Warnf("skipping %s: %v", f.Name, err)
			continue
		}
		if !ds.HasIdentity() || ds.Empty() {
			zap.S().Named("dataset").Warnf("skipping %s: missing %q column or no rows", f.Name, IdentityColumn)
			continue
		}

		datasets[name] = ds
		zap.S().Named("dataset").Infof("loaded %s: %d records", name, len(ds.Rows))
	}

	return datasets, nil
}

func matchPattern(filename string) string {
	for name, pattern := range filePatterns {
		if strings.Contains(filename, pattern) {
			return name
		}
	}
	return ""
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
