package pricing

import (
	"fmt"

	api "github.com/vmassess/bomgen/api/v1alpha1"
)

// vpusPerGB is the fixed volume-performance ratio: every provisioned GB
// of block storage carries 10 VPUs.
const vpusPerGB = 10.0

// pricingModelOnDemand tags every line item; reserved pricing is not
// modeled.
const pricingModelOnDemand = "on-demand"

// Engine prices canonical VM records against one rate card. The card is
// read-only after construction, so a single Engine is safe to share
// between concurrent runs.
type Engine struct {
	card *api.RateCard
}

// NewEngine returns an engine bound to the given rate card, or to the
// built-in default card when nil.
func NewEngine(card *api.RateCard) *Engine {
	if card == nil {
		card = DefaultRateCard()
	}
	return &Engine{card: card}
}

// RateCard exposes the card the engine prices with.
func (e *Engine) RateCard() *api.RateCard {
	return e.card
}

// Currency is the rate card's currency code.
func (e *Engine) Currency() string {
	return e.card.Currency
}

// OCPUCount converts vCPU cores into billable OCPUs: one OCPU covers two
// vCPUs, rounded up, with a floor of one OCPU for any positive core
// count and zero for non-positive counts.
func OCPUCount(cpuCores int) int {
	if cpuCores <= 0 {
		return 0
	}
	return (cpuCores + 1) / 2
}

// CalculateVMCost produces the ordered list of priced cost components for
// one VM. Powered-off VMs yield no components regardless of any caller
// side filtering. Money stays in float64 at full precision; rounding is
// the renderers' concern.
func (e *Engine) CalculateVMCost(vm *api.VMRecord) []api.BOMLineItem {
	items := []api.BOMLineItem{}
	if !vm.IsPoweredOn() {
		return items
	}

	ocpus := OCPUCount(vm.CPUCores)

	if ocpus > 0 {
		monthly := e.card.OCPUHourly * e.card.HoursPerMonth
		items = append(items, e.lineItem(vm, api.ComponentCompute,
			fmt.Sprintf("OCPU (%d OCPU for %d vCPU)", ocpus, vm.CPUCores),
			float64(ocpus), "OCPU", monthly))
	}

	if vm.MemoryGB > 0 {
		monthly := e.card.MemoryGBHourly * e.card.HoursPerMonth
		items = append(items, e.lineItem(vm, api.ComponentMemory,
			fmt.Sprintf("Memory (%.1f GB)", vm.MemoryGB),
			vm.MemoryGB, "GB", monthly))
	}

	if storageGB := vm.TotalStorageGB(); storageGB > 0 {
		items = append(items, e.lineItem(vm, api.ComponentStorage,
			fmt.Sprintf("Block Volume Storage (%.1f GB)", storageGB),
			storageGB, "GB", e.card.StorageGBMonthly))

		vpus := storageGB * vpusPerGB
		items = append(items, e.lineItem(vm, api.ComponentStoragePerformance,
			fmt.Sprintf("Block Volume VPUs (%.1f VPUs)", vpus),
			vpus, "VPU", e.card.VPUMonthly))
	}

	if vm.OSType == api.OSTypeWindows && ocpus > 0 {
		monthly := e.card.WindowsHourly * e.card.HoursPerMonth
		items = append(items, e.lineItem(vm, api.ComponentOSLicense,
			fmt.Sprintf("Windows Server License (%d OCPU)", ocpus),
			float64(ocpus), "OCPU", monthly))
	}

	return items
}

func (e *Engine) lineItem(vm *api.VMRecord, component api.Component, description string, quantity float64, unit string, unitPrice float64) api.BOMLineItem {
	return api.BOMLineItem{
		VMID:         vm.ID,
		VMName:       vm.Name,
		OSType:       vm.OSType,
		Component:    component,
		Description:  description,
		Quantity:     quantity,
		Unit:         unit,
		UnitPrice:    unitPrice,
		TotalCost:    quantity * unitPrice,
		Currency:     e.card.Currency,
		PricingModel: pricingModelOnDemand,
	}
}
