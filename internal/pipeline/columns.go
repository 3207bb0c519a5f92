// Package pipeline normalizes heterogeneous inventory extracts into
// canonical VM records: header mapping, unit normalization, per-VM
// aggregation, multi-source merge, and record construction.
package pipeline

import (
	"strings"

	"github.com/vmassess/bomgen/internal/dataset"
)

// Field is a canonical VM field the column mapper tries to locate in a
// dataset's header row.
type Field string

const (
	FieldVMName       Field = "vm_name"
	FieldOSDescriptor Field = "os_descriptor"
	FieldCPU          Field = "cpu"
	FieldMemory       Field = "memory"
	FieldDiskCapacity Field = "disk_capacity"
	FieldAnnotation   Field = "annotation"
	FieldPowerState   Field = "power_state"
	FieldCluster      Field = "cluster"
	FieldHost         Field = "host"
	FieldDatacenter   Field = "datacenter"
)

// fieldOrder is the fixed priority in which fields claim columns.
var fieldOrder = []Field{
	FieldVMName,
	FieldOSDescriptor,
	FieldCPU,
	FieldMemory,
	FieldDiskCapacity,
	FieldAnnotation,
	FieldPowerState,
	FieldCluster,
	FieldHost,
	FieldDatacenter,
}

// fieldMatchers hold the per-field header predicate. Headers arrive
// lowercased. The tests are keyword heuristics: good enough for the
// column names assessment tools actually emit, and deliberately silent
// when nothing matches.
var fieldMatchers = map[Field]func(header string) bool{
	FieldVMName: func(h string) bool {
		return strings.Contains(h, "vm") && (strings.Contains(h, "name") || strings.HasSuffix(h, "_vm"))
	},
	FieldOSDescriptor: func(h string) bool {
		return strings.Contains(h, "os according") ||
			(strings.Contains(h, "tools") && strings.Contains(h, "os"))
	},
	FieldCPU: func(h string) bool {
		return strings.Contains(h, "cpus") || h == "info_cpus" || h == "cpu_cpus"
	},
	FieldMemory: func(h string) bool {
		return strings.Contains(h, "size") && strings.Contains(h, "gb") && strings.Contains(h, "memory")
	},
	FieldDiskCapacity: func(h string) bool {
		return strings.Contains(h, "capacity") && strings.Contains(h, "gb") &&
			(strings.Contains(h, "disk") || strings.Contains(h, "total"))
	},
	FieldAnnotation: func(h string) bool {
		return strings.Contains(h, "annotation")
	},
	FieldPowerState: func(h string) bool {
		return strings.Contains(h, "powerstate")
	},
	FieldCluster: func(h string) bool {
		return strings.Contains(h, "cluster")
	},
	FieldHost: func(h string) bool {
		return strings.Contains(h, "host") && strings.Contains(h, "name")
	},
	FieldDatacenter: func(h string) bool {
		return strings.Contains(h, "datacenter")
	},
}

// FieldMap is the result of column mapping: canonical field -> source
// column name. A missing entry means the dataset carries no usable column
// for that field; consumers fall back to empty/zero values.
type FieldMap map[Field]string

// MapColumns inspects a header row and assigns, per canonical field, the
// column that supplies it. Fields are visited in a fixed priority order;
// for each field the first matching column wins and the field is locked,
// so later columns never reassign it. Ambiguous or absent headers yield
// no mapping, not an error.
func MapColumns(ds *dataset.Dataset) FieldMap {
	fm := make(FieldMap)
	for _, field := range fieldOrder {
		match := fieldMatchers[field]
		for _, header := range ds.Headers {
			if match(strings.ToLower(strings.TrimSpace(header))) {
				fm[field] = header
				break
			}
		}
	}
	return fm
}

// Value resolves a field's value in a row, returning "" when the field is
// unmapped or the row has no cell for it.
func (fm FieldMap) Value(ds *dataset.Dataset, row []string, field Field) string {
	column, ok := fm[field]
	if !ok {
		return ""
	}
	idx, ok := ds.Column(column)
	if !ok {
		return ""
	}
	return ds.Cell(row, idx)
}
