package pipeline

import (
	"math"
	"strings"

	"github.com/vmassess/bomgen/internal/dataset"
)

// Unit conversion divisors. RVTools exports mebibytes (binary) for most
// capacity columns and decimal megabytes for a few; everything downstream
// of normalization sees gigabytes only.
const (
	mibPerGB = 1024.0
	mbPerGB  = 1000.0
)

// NormalizeUnits rewrites size columns expressed in MiB or MB into GB,
// replacing the original column in place: values are divided by 1024
// (binary) or 1000 (decimal) and rounded to 2 decimal places, and the
// header is renamed to its GB form. Throughput columns (Mbps) and
// columns that merely look like sizes but hold non-numeric data are left
// untouched. The input dataset is not mutated.
func NormalizeUnits(ds *dataset.Dataset) *dataset.Dataset {
	out := ds.Clone()

	for col, header := range out.Headers {
		lower := strings.ToLower(header)

		var divisor float64
		switch {
		case strings.Contains(lower, "mib"):
			divisor = mibPerGB
		case strings.Contains(lower, "mb") && !strings.Contains(lower, "mbps"):
			divisor = mbPerGB
		default:
			continue
		}

		if !out.IsNumericColumn(col) {
			continue
		}

		out.Headers[col] = renameToGB(header, divisor == mibPerGB)
		for _, row := range out.Rows {
			if col >= len(row) {
				continue
			}
			v, err := dataset.ParseFloat(row[col])
			if err != nil {
				continue
			}
			row[col] = dataset.FormatFloat(round2(v / divisor))
		}
	}

	return out
}

// renameToGB rewrites a size header to its gigabyte form, preserving the
// original's spacing convention: "Capacity MiB" -> "Capacity GB",
// "CapacityMiB" -> "Capacity_GB".
func renameToGB(header string, binary bool) string {
	if binary {
		header = strings.ReplaceAll(header, " MiB", " GB")
		return strings.ReplaceAll(header, "MiB", "_GB")
	}
	header = strings.ReplaceAll(header, " MB", " GB")
	return strings.ReplaceAll(header, "MB", "_GB")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
