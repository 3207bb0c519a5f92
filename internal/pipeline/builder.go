package pipeline

import (
	"strings"

	"go.uber.org/zap"

	api "github.com/vmassess/bomgen/api/v1alpha1"
	"github.com/vmassess/bomgen/internal/dataset"
)

// unixKeywords classify an OS descriptor into the Linux family.
var unixKeywords = []string{
	"ubuntu", "centos", "oracle linux", "debian", "suse",
	"linux", "rhel", "unix", "aix", "solaris", "bsd",
}

// BuildStats counts what happened to the rows of a merged table during
// record construction. Skips are expected (aggregation artifacts, rows
// without a priceable footprint) and surfaced for diagnostics only.
type BuildStats struct {
	RowsSeen        int
	Built           int
	SkippedNoID     int
	SkippedNoSignal int
}

// BuildRecords walks the merged wide table and constructs one canonical
// VM record per usable row. Rows missing identity or name are skipped,
// as are rows whose CPU and memory both resolve to zero (they carry no
// priceable signal). Numeric fields coerce to zero on any parse failure.
func BuildRecords(merged *dataset.Dataset, fields FieldMap) ([]api.VMRecord, BuildStats) {
	stats := BuildStats{}
	records := make([]api.VMRecord, 0, len(merged.Rows))

	idCol, hasID := merged.Column(dataset.IdentityColumn)
	if !hasID {
		return records, stats
	}

	for _, row := range merged.Rows {
		stats.RowsSeen++

		id := merged.Cell(row, idCol)
		name := strings.TrimSpace(fields.Value(merged, row, FieldVMName))
		if id == "" || name == "" {
			stats.SkippedNoID++
			continue
		}

		cpuCores := safeInt(fields.Value(merged, row, FieldCPU))
		memoryGB := safeFloat(fields.Value(merged, row, FieldMemory))
		if cpuCores == 0 && memoryGB == 0 {
			stats.SkippedNoSignal++
			continue
		}

		descriptor := strings.TrimSpace(fields.Value(merged, row, FieldOSDescriptor))

		// A dataset without any power-state column defaults every VM to
		// powered on. Assessment tools tend to export state only for the
		// interesting cases, so the optimistic default keeps those VMs
		// priceable; it is a policy choice, not an omission.
		powerRaw := fields.Value(merged, row, FieldPowerState)
		if _, mapped := fields[FieldPowerState]; !mapped {
			powerRaw = string(api.PowerStateOn)
		}

		vm := api.VMRecord{
			ID:           id,
			Name:         name,
			CPUCores:     cpuCores,
			MemoryGB:     memoryGB,
			OSType:       ClassifyOS(descriptor),
			OSDescriptor: descriptor,
			PowerState:   ClassifyPowerState(powerRaw),
			Cluster:      strings.TrimSpace(fields.Value(merged, row, FieldCluster)),
			Host:         strings.TrimSpace(fields.Value(merged, row, FieldHost)),
			Datacenter:   strings.TrimSpace(fields.Value(merged, row, FieldDatacenter)),
			Annotation:   strings.TrimSpace(fields.Value(merged, row, FieldAnnotation)),
		}

		if capacity := safeFloat(fields.Value(merged, row, FieldDiskCapacity)); capacity > 0 {
			vm.AddStorage(capacity, nil, api.StorageTypeBlock, "")
		}

		records = append(records, vm)
		stats.Built++
	}

	if stats.SkippedNoID > 0 || stats.SkippedNoSignal > 0 {
		zap.S().Named("pipeline").Infof("built %d records, skipped %d without identity and %d without cpu/memory signal",
			stats.Built, stats.SkippedNoID, stats.SkippedNoSignal)
	}
	return records, stats
}

// ClassifyOS maps a free-text OS descriptor onto the closed OS type set.
// Matching is case-insensitive keyword search; an empty descriptor is
// Unknown, an unrecognized one is Other.
func ClassifyOS(descriptor string) api.OSType {
	if descriptor == "" {
		return api.OSTypeUnknown
	}
	lower := strings.ToLower(descriptor)
	if strings.Contains(lower, "windows") || strings.Contains(lower, "microsoft") {
		return api.OSTypeWindows
	}
	for _, kw := range unixKeywords {
		if strings.Contains(lower, kw) {
			return api.OSTypeLinux
		}
	}
	return api.OSTypeOther
}

// ClassifyPowerState maps a raw power-state string onto the closed power
// state set. "on"/"running" wins over "off"/"stopped", then "suspend".
func ClassifyPowerState(raw string) api.PowerState {
	if raw == "" {
		return api.PowerStateUnknown
	}
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "on") || strings.Contains(lower, "running"):
		return api.PowerStateOn
	case strings.Contains(lower, "off") || strings.Contains(lower, "stopped"):
		return api.PowerStateOff
	case strings.Contains(lower, "suspend"):
		return api.PowerStateSuspended
	default:
		return api.PowerStateUnknown
	}
}

// safeInt converts a cell to an int, accepting float formatting ("4.0")
// and yielding 0 on any failure.
func safeInt(s string) int {
	return int(safeFloat(s))
}

// safeFloat converts a cell to a float, yielding 0 on any failure.
func safeFloat(s string) float64 {
	if strings.TrimSpace(s) == "" {
		return 0
	}
	v, err := dataset.ParseFloat(s)
	if err != nil {
		return 0
	}
	return v
}
