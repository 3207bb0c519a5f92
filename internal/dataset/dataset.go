// Package dataset supplies tabular extracts to the normalization
// pipeline. A Dataset is one table read out of an inventory export:
// a header row plus data rows, all cells kept as strings the way the
// source delivered them.
package dataset

import (
	"strconv"
	"strings"
)

// IdentityColumn is the VM identity column shared across all datasets of
// an export. Datasets without it cannot be joined and are skipped.
const IdentityColumn = "VM UUID"

// Dataset is one tabular extract keyed by logical name (cpu, memory,
// disk, info, tools, network).
type Dataset struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// Clone returns a deep copy. Pipeline stages that rewrite columns operate
// on copies so a Dataset handed in by the caller is never mutated.
func (d *Dataset) Clone() *Dataset {
	headers := make([]string, len(d.Headers))
	copy(headers, d.Headers)
	rows := make([][]string, len(d.Rows))
	for i, row := range d.Rows {
		rows[i] = make([]string, len(row))
		copy(rows[i], row)
	}
	return &Dataset{Name: d.Name, Headers: headers, Rows: rows}
}

// Column returns the index of the named column, matched case-insensitively
// with surrounding whitespace ignored.
func (d *Dataset) Column(name string) (int, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, h := range d.Headers {
		if strings.ToLower(strings.TrimSpace(h)) == want {
			return i, true
		}
	}
	return 0, false
}

// Cell returns the trimmed value at (row, col), or "" when the row is
// shorter than the header.
func (d *Dataset) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// HasIdentity reports whether the dataset carries the VM identity column.
func (d *Dataset) HasIdentity() bool {
	_, ok := d.Column(IdentityColumn)
	return ok
}

// Empty reports whether the dataset has no data rows.
func (d *Dataset) Empty() bool {
	return len(d.Rows) == 0
}

// IsNumericColumn reports whether every non-empty cell of the column
// parses as a number and at least one cell is non-empty. Columns whose
// name merely looks numeric (a size suffix on a text column) fail this
// test and are left untouched by the unit normalizer.
func (d *Dataset) IsNumericColumn(col int) bool {
	seen := false
	for _, row := range d.Rows {
		v := d.Cell(row, col)
		if v == "" {
			continue
		}
		if _, err := ParseFloat(v); err != nil {
			return false
		}
		seen = true
	}
	return seen
}

// ParseFloat parses a cell value as a float, tolerating thousands
// separators the way assessment tools format large numbers.
func ParseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
}

// FormatFloat renders a float back into a cell with minimal digits.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
