package dataset

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// sheetNames maps a logical dataset name to its RVTools workbook sheet.
var sheetNames = map[string]string{
	"cpu":     "vCPU",
	"memory":  "vMemory",
	"disk":    "vDisk",
	"info":    "vInfo",
	"tools":   "vTools",
	"network": "vNetwork",
}

// IsWorkbook reports whether content is an xlsx workbook. Both xlsx files
// and RVTools ZIP exports start with the PK magic, so the only reliable
// test is opening it.
func IsWorkbook(content []byte) bool {
	if len(content) < 2 || content[0] != 0x50 || content[1] != 0x4B {
		return false
	}
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return false
	}
	defer f.Close()
	return true
}

// ReadWorkbook extracts every recognized dataset out of an RVTools xlsx
// workbook. Sheets that are missing, unreadable, or lack the identity
// column are skipped, never fatal.
func ReadWorkbook(content []byte) (map[string]*Dataset, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, errors.Wrap(err, "opening workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	datasets := make(map[string]*Dataset)

	for name, sheet := range sheetNames {
		if !containsSheet(sheets, sheet) {
			continue
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			zap.S().Named("dataset").Warnf("could not read %s sheet: %v", sheet, err)
			continue
		}
		if len(rows) < 2 {
			continue
		}

		headers := make([]string, len(rows[0]))
		for i, h := range rows[0] {
			headers[i] = strings.TrimSpace(h)
		}
		ds := &Dataset{Name: name, Headers: headers, Rows: rows[1:]}
		if !ds.HasIdentity() {
			zap.S().Named("dataset").Warnf("skipping %s sheet: missing %q column", sheet, IdentityColumn)
			continue
		}

		datasets[name] = ds
		zap.S().Named("dataset").Infof("loaded %s: %d records", name, len(ds.Rows))
	}

	return datasets, nil
}

func containsSheet(sheets []string, want string) bool {
	for _, s := range sheets {
		if s == want {
			return true
		}
	}
	return false
}
