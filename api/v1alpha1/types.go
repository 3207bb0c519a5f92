// Package v1alpha1 defines the canonical data model shared by the
// normalization pipeline, the pricing engine, and the report renderers.
// Records are constructed once by the pipeline and treated as read-only
// by every downstream consumer.
package v1alpha1

import (
	"time"

	"github.com/google/uuid"
)

// PowerState is the normalized power state of a virtual machine.
type PowerState string

const (
	PowerStateOn        PowerState = "poweredOn"
	PowerStateOff       PowerState = "poweredOff"
	PowerStateSuspended PowerState = "suspended"
	PowerStateUnknown   PowerState = "unknown"
)

// OSType is the normalized operating system family of a virtual machine.
type OSType string

const (
	OSTypeWindows OSType = "Windows"
	OSTypeLinux   OSType = "Linux"
	OSTypeUnix    OSType = "Unix"
	OSTypeOther   OSType = "Other"
	OSTypeUnknown OSType = "Unknown"
)

// StorageType classifies a storage extent.
type StorageType string

const (
	StorageTypeBlock   StorageType = "Block"
	StorageTypeObject  StorageType = "Object"
	StorageTypeFile    StorageType = "File"
	StorageTypeUnknown StorageType = "Unknown"
)

// StorageExtent is one disk attached to a VM. Capacities are always
// gigabyte denominated; the unit normalizer guarantees this before any
// extent is built.
type StorageExtent struct {
	CapacityGB float64     `json:"capacityGb"`
	UsedGB     *float64    `json:"usedGb,omitempty"`
	Type       StorageType `json:"type"`
	Datastore  string      `json:"datastore,omitempty"`
}

// NetworkInterface is one NIC attached to a VM.
type NetworkInterface struct {
	Name        string   `json:"name,omitempty"`
	MACAddress  string   `json:"macAddress,omitempty"`
	IPAddresses []string `json:"ipAddresses,omitempty"`
	NetworkName string   `json:"networkName,omitempty"`
}

// VMRecord is the standardized, source-format-independent representation
// of one virtual machine. ID and Name are guaranteed non-empty, and at
// least one of CPUCores/MemoryGB is non-zero; the record builder drops
// rows that cannot satisfy those invariants.
type VMRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	CPUCores int     `json:"cpuCores"`
	MemoryGB float64 `json:"memoryGb"`

	Storage []StorageExtent `json:"storage,omitempty"`

	OSType OSType `json:"osType"`
	// OSDescriptor is the raw descriptor the OS classification ran over.
	// It is kept verbatim for reporting and never rewritten.
	OSDescriptor string `json:"osDescriptor,omitempty"`

	PowerState PowerState `json:"powerState"`

	Networks []NetworkInterface `json:"networks,omitempty"`

	Cluster    string `json:"cluster,omitempty"`
	Host       string `json:"host,omitempty"`
	Datacenter string `json:"datacenter,omitempty"`
	Folder     string `json:"folder,omitempty"`
	Annotation string `json:"annotation,omitempty"`

	SourceFormat   string    `json:"sourceFormat,omitempty"`
	AssessmentDate time.Time `json:"assessmentDate,omitempty"`
}

// TotalStorageGB is the sum of the capacities of all storage extents.
// It is derived on every call and never cached.
func (vm *VMRecord) TotalStorageGB() float64 {
	var total float64
	for _, ext := range vm.Storage {
		total += ext.CapacityGB
	}
	return total
}

// TotalUsedStorageGB sums the used capacity over extents that report it.
func (vm *VMRecord) TotalUsedStorageGB() float64 {
	var total float64
	for _, ext := range vm.Storage {
		if ext.UsedGB != nil {
			total += *ext.UsedGB
		}
	}
	return total
}

// IsPoweredOn reports whether the VM power state is poweredOn.
func (vm *VMRecord) IsPoweredOn() bool {
	return vm.PowerState == PowerStateOn
}

// PrimaryIP returns the first IP address found across the VM's NICs.
func (vm *VMRecord) PrimaryIP() string {
	for _, nic := range vm.Networks {
		if len(nic.IPAddresses) > 0 {
			return nic.IPAddresses[0]
		}
	}
	return ""
}

// AddStorage appends a block storage extent to the VM.
func (vm *VMRecord) AddStorage(capacityGB float64, usedGB *float64, storageType StorageType, datastore string) {
	vm.Storage = append(vm.Storage, StorageExtent{
		CapacityGB: capacityGB,
		UsedGB:     usedGB,
		Type:       storageType,
		Datastore:  datastore,
	})
}

// VMAssessment is the ordered collection of VM records produced by one
// pipeline run, plus run-level metadata. The assessment owns its records:
// callers must not hold references across runs.
type VMAssessment struct {
	ID             string            `json:"id"`
	Name           string            `json:"name,omitempty"`
	SourceFormat   string            `json:"sourceFormat,omitempty"`
	AssessmentDate time.Time         `json:"assessmentDate"`
	Metadata       map[string]string `json:"metadata,omitempty"`

	VMs []VMRecord `json:"vms"`

	// TotalVMs and PoweredOnVMs are recomputed on every AddVM so they can
	// never drift from the underlying list.
	TotalVMs     int `json:"totalVms"`
	PoweredOnVMs int `json:"poweredOnVms"`
}

// MetadataIncludePoweredOff is the assessment metadata key that, when set
// to "true", makes the BOM assembler price powered-off VMs as well.
const MetadataIncludePoweredOff = "include_powered_off"

// NewVMAssessment creates an empty assessment stamped with the current time.
func NewVMAssessment(name, sourceFormat string) *VMAssessment {
	return &VMAssessment{
		ID:             uuid.New().String(),
		Name:           name,
		SourceFormat:   sourceFormat,
		AssessmentDate: time.Now(),
		Metadata:       map[string]string{},
		VMs:            []VMRecord{},
	}
}

// AddVM stamps the record with the assessment's source format and date,
// appends it, and recomputes the derived counters.
func (a *VMAssessment) AddVM(vm VMRecord) {
	vm.SourceFormat = a.SourceFormat
	vm.AssessmentDate = a.AssessmentDate
	a.VMs = append(a.VMs, vm)
	a.recount()
}

func (a *VMAssessment) recount() {
	a.TotalVMs = len(a.VMs)
	poweredOn := 0
	for i := range a.VMs {
		if a.VMs[i].IsPoweredOn() {
			poweredOn++
		}
	}
	a.PoweredOnVMs = poweredOn
}

// FilterPoweredOn drops every record that is not powered on and
// recomputes the derived counters.
func (a *VMAssessment) FilterPoweredOn() {
	kept := a.VMs[:0]
	for _, vm := range a.VMs {
		if vm.IsPoweredOn() {
			kept = append(kept, vm)
		}
	}
	a.VMs = kept
	a.recount()
}

// PoweredOn returns the powered-on records in assessment order.
func (a *VMAssessment) PoweredOn() []VMRecord {
	vms := make([]VMRecord, 0, a.PoweredOnVMs)
	for _, vm := range a.VMs {
		if vm.IsPoweredOn() {
			vms = append(vms, vm)
		}
	}
	return vms
}

// OSDistribution counts records per OS type.
func (a *VMAssessment) OSDistribution() map[OSType]int {
	dist := make(map[OSType]int)
	for i := range a.VMs {
		dist[a.VMs[i].OSType]++
	}
	return dist
}

// SummaryStats are the aggregate figures shown at the top of every report.
// Resource totals cover powered-on VMs only.
type SummaryStats struct {
	TotalVMs       int            `json:"totalVms"`
	PoweredOnVMs   int            `json:"poweredOnVms"`
	PoweredOffVMs  int            `json:"poweredOffVms"`
	TotalCPUCores  int            `json:"totalCpuCores"`
	TotalMemoryGB  float64        `json:"totalMemoryGb"`
	TotalStorageGB float64        `json:"totalStorageGb"`
	OSDistribution map[OSType]int `json:"osDistribution"`
}

// Summary computes the assessment summary statistics.
func (a *VMAssessment) Summary() SummaryStats {
	stats := SummaryStats{
		TotalVMs:       a.TotalVMs,
		PoweredOnVMs:   a.PoweredOnVMs,
		PoweredOffVMs:  a.TotalVMs - a.PoweredOnVMs,
		OSDistribution: a.OSDistribution(),
	}
	for i := range a.VMs {
		vm := &a.VMs[i]
		if !vm.IsPoweredOn() {
			continue
		}
		stats.TotalCPUCores += vm.CPUCores
		stats.TotalMemoryGB += vm.MemoryGB
		stats.TotalStorageGB += vm.TotalStorageGB()
	}
	return stats
}
