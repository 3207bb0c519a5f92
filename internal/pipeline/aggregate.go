package pipeline

import (
	"strings"

	"go.uber.org/zap"

	"github.com/vmassess/bomgen/internal/dataset"
)

// capacityKeywords mark numeric columns that accumulate across the rows
// of one VM (one row per disk, per NIC, ...). Everything else numeric is
// averaged, non-numeric columns keep their first-seen value.
var capacityKeywords = []string{"size", "capacity", "mib", "gb", "mb"}

// Aggregate collapses a dataset that may carry multiple rows per VM
// identity into exactly one row per identity, then normalizes units.
// A dataset that is already one-row-per-identity passes through with
// unit normalization only. If the type-directed reduction fails the
// aggregation degrades to first-row-per-identity rather than aborting
// the pipeline.
func Aggregate(ds *dataset.Dataset) *dataset.Dataset {
	idCol, ok := ds.Column(dataset.IdentityColumn)
	if !ok || ds.Empty() {
		return ds
	}

	groups, order := groupByIdentity(ds, idCol)
	if len(order) == len(ds.Rows) {
		return NormalizeUnits(ds)
	}

	reduced, err := reduceGroups(ds, idCol, groups, order)
	if err != nil {
		zap.S().Named("pipeline").Warnf("aggregation of %s failed: %v, using first record per VM", ds.Name, err)
		reduced = firstPerGroup(ds, groups, order)
	}
	return NormalizeUnits(reduced)
}

// groupByIdentity buckets rows per identity value, keeping first-seen
// order of identities. Rows with an empty identity are dropped.
func groupByIdentity(ds *dataset.Dataset, idCol int) (map[string][][]string, []string) {
	groups := make(map[string][][]string)
	order := make([]string, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		id := ds.Cell(row, idCol)
		if id == "" {
			continue
		}
		if _, seen := groups[id]; !seen {
			order = append(order, id)
		}
		groups[id] = append(groups[id], row)
	}
	return groups, order
}

type reduction int

const (
	reduceFirst reduction = iota
	reduceSum
	reduceMean
)

func classifyColumn(ds *dataset.Dataset, col int, header string) reduction {
	if !ds.IsNumericColumn(col) {
		return reduceFirst
	}
	lower := strings.ToLower(header)
	for _, kw := range capacityKeywords {
		if strings.Contains(lower, kw) {
			return reduceSum
		}
	}
	return reduceMean
}

func reduceGroups(ds *dataset.Dataset, idCol int, groups map[string][][]string, order []string) (*dataset.Dataset, error) {
	rules := make([]reduction, len(ds.Headers))
	for col, header := range ds.Headers {
		if col == idCol {
			continue
		}
		rules[col] = classifyColumn(ds, col, header)
	}

	out := &dataset.Dataset{
		Name:    ds.Name,
		Headers: append([]string(nil), ds.Headers...),
		Rows:    make([][]string, 0, len(order)),
	}

	for _, id := range order {
		rows := groups[id]
		reduced := make([]string, len(ds.Headers))
		reduced[idCol] = id
		for col := range ds.Headers {
			if col == idCol {
				continue
			}
			v, err := reduceColumn(ds, rows, col, rules[col])
			if err != nil {
				return nil, err
			}
			reduced[col] = v
		}
		out.Rows = append(out.Rows, reduced)
	}
	return out, nil
}

func reduceColumn(ds *dataset.Dataset, rows [][]string, col int, rule reduction) (string, error) {
	switch rule {
	case reduceSum, reduceMean:
		var sum float64
		count := 0
		for _, row := range rows {
			cell := ds.Cell(row, col)
			if cell == "" {
				continue
			}
			v, err := dataset.ParseFloat(cell)
			if err != nil {
				return "", err
			}
			sum += v
			count++
		}
		if count == 0 {
			return "", nil
		}
		if rule == reduceMean {
			return dataset.FormatFloat(sum / float64(count)), nil
		}
		return dataset.FormatFloat(sum), nil
	default:
		if len(rows) == 0 {
			return "", nil
		}
		return ds.Cell(rows[0], col), nil
	}
}

func firstPerGroup(ds *dataset.Dataset, groups map[string][][]string, order []string) *dataset.Dataset {
	out := &dataset.Dataset{
		Name:    ds.Name,
		Headers: append([]string(nil), ds.Headers...),
		Rows:    make([][]string, 0, len(order)),
	}
	for _, id := range order {
		out.Rows = append(out.Rows, groups[id][0])
	}
	return out
}
