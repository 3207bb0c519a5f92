package pipeline

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vmassess/bomgen/internal/dataset"
)

// ErrNoDatasets is returned when a merge is attempted with no datasets at
// all. It is distinct from a merge that succeeds with zero rows: callers
// must not conflate "nothing to process" with an empty result.
var ErrNoDatasets = errors.New("no data to merge")

// baseDataset is preferred as the merge base when present; its row set
// defines which VMs survive the join.
const baseDataset = "cpu"

// Merge left-joins all normalized, aggregated datasets on VM identity
// into one wide table. Every non-identity column is prefixed with its
// dataset name to avoid collisions. The base dataset (cpu when present,
// else the first by name) keeps its full row set; VMs absent from
// secondary datasets get empty cells, not dropped rows.
func Merge(datasets map[string]*dataset.Dataset) (*dataset.Dataset, error) {
	if len(datasets) == 0 {
		return nil, ErrNoDatasets
	}

	names := make([]string, 0, len(datasets))
	for name := range datasets {
		names = append(names, name)
	}
	sort.Strings(names)

	base := names[0]
	if _, ok := datasets[baseDataset]; ok {
		base = baseDataset
	}

	merged := prefixColumns(datasets[base])
	for _, name := range names {
		if name == base {
			continue
		}
		secondary := prefixColumns(datasets[name])
		if secondary.Empty() {
			continue
		}
		merged = leftJoin(merged, secondary)
	}

	zap.S().Named("pipeline").Infof("merged data: %d VMs with %d columns", len(merged.Rows), len(merged.Headers))
	return merged, nil
}

// prefixColumns renames every non-identity column to "<dataset>_<column>".
func prefixColumns(ds *dataset.Dataset) *dataset.Dataset {
	out := ds.Clone()
	out.Name = "merged"
	for i, header := range out.Headers {
		if strings.EqualFold(strings.TrimSpace(header), dataset.IdentityColumn) {
			out.Headers[i] = dataset.IdentityColumn
			continue
		}
		out.Headers[i] = ds.Name + "_" + header
	}
	return out
}

func leftJoin(left, right *dataset.Dataset) *dataset.Dataset {
	leftID, _ := left.Column(dataset.IdentityColumn)
	rightID, _ := right.Column(dataset.IdentityColumn)

	index := make(map[string][]string, len(right.Rows))
	for _, row := range right.Rows {
		id := right.Cell(row, rightID)
		if id == "" {
			continue
		}
		if _, dup := index[id]; !dup {
			index[id] = row
		}
	}

	headers := append([]string(nil), left.Headers...)
	for i, h := range right.Headers {
		if i == rightID {
			continue
		}
		headers = append(headers, h)
	}

	out := &dataset.Dataset{Name: left.Name, Headers: headers, Rows: make([][]string, 0, len(left.Rows))}
	for _, row := range left.Rows {
		joined := make([]string, 0, len(headers))
		for col := range left.Headers {
			joined = append(joined, left.Cell(row, col))
		}

		match := index[left.Cell(row, leftID)]
		for i := range right.Headers {
			if i == rightID {
				continue
			}
			if match != nil {
				joined = append(joined, right.Cell(match, i))
			} else {
				joined = append(joined, "")
			}
		}
		out.Rows = append(out.Rows, joined)
	}
	return out
}
