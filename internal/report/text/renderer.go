// Package text renders assessments and bills of materials as aligned
// plain-text summaries.
package text

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	api "github.com/vmassess/bomgen/api/v1alpha1"
	"github.com/vmassess/bomgen/internal/report/types"
)

const timestampLayout = "2006-01-02 15:04:05"

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) SupportedFormat() types.ReportFormat {
	return types.ReportFormatText
}

func (r *Renderer) FileExtension() string {
	return "txt"
}

func (r *Renderer) RenderAssessment(data *types.ReportData) ([]byte, error) {
	assessment := data.Assessment
	stats := assessment.Summary()

	var b bytes.Buffer
	rule := strings.Repeat("=", 80)
	sub := strings.Repeat("-", 40)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "VM ASSESSMENT REPORT")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Source: %s\n", assessment.SourceFormat)
	fmt.Fprintf(&b, "Generated: %s\n", data.Generated.Format(timestampLayout))
	fmt.Fprintf(&b, "Assessment Date: %s\n", assessment.AssessmentDate.Format(timestampLayout))
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "SUMMARY")
	fmt.Fprintln(&b, sub)
	fmt.Fprintf(&b, "Total VMs: %d\n", stats.TotalVMs)
	fmt.Fprintf(&b, "Powered On VMs: %d\n", stats.PoweredOnVMs)
	fmt.Fprintf(&b, "Powered Off VMs: %d\n", stats.PoweredOffVMs)
	fmt.Fprintf(&b, "Total CPU Cores: %d\n", stats.TotalCPUCores)
	fmt.Fprintf(&b, "Total Memory: %.1f GB\n", stats.TotalMemoryGB)
	fmt.Fprintf(&b, "Total Storage: %.1f GB\n", stats.TotalStorageGB)
	fmt.Fprintln(&b)

	if stats.TotalVMs > 0 {
		fmt.Fprintln(&b, "OS DISTRIBUTION")
		fmt.Fprintln(&b, sub)
		for _, os := range sortedOSTypes(stats.OSDistribution) {
			count := stats.OSDistribution[os]
			pct := float64(count) / float64(stats.TotalVMs) * 100
			fmt.Fprintf(&b, "%s: %d VMs (%.1f%%)\n", os, count, pct)
		}
		fmt.Fprintln(&b)
	}

	fmt.Fprintln(&b, "VM DETAILS")
	fmt.Fprintln(&b, strings.Repeat("-", 80))
	fmt.Fprintf(&b, "%-25s %-12s %-4s %-8s %-10s %-10s\n", "VM Name", "OS Type", "CPU", "RAM GB", "Disk GB", "Power")
	fmt.Fprintln(&b, strings.Repeat("-", 80))
	for i := range assessment.VMs {
		vm := &assessment.VMs[i]
		fmt.Fprintf(&b, "%-25s %-12s %-4d %-8.1f %-10.1f %-10s\n",
			vm.Name, vm.OSType, vm.CPUCores, vm.MemoryGB, vm.TotalStorageGB(), vm.PowerState)
	}

	return b.Bytes(), nil
}

func (r *Renderer) RenderBOM(data *types.ReportData) ([]byte, error) {
	bom := data.BOM

	var b bytes.Buffer
	rule := strings.Repeat("=", 120)
	sub := strings.Repeat("-", 60)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "BILL OF MATERIALS REPORT")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Pricing Source: %s\n", bom.PricingSource)
	fmt.Fprintf(&b, "Currency: %s\n", bom.Currency)
	fmt.Fprintf(&b, "Generated: %s\n", data.Generated.Format(timestampLayout))
	fmt.Fprintln(&b)

	monthly := bom.TotalMonthlyCost()
	fmt.Fprintln(&b, "COST SUMMARY")
	fmt.Fprintln(&b, sub)
	fmt.Fprintf(&b, "Total Monthly Cost: %s %.2f\n", bom.Currency, monthly)
	fmt.Fprintf(&b, "Total Annual Cost: %s %.2f\n", bom.Currency, bom.TotalAnnualCost())
	fmt.Fprintln(&b)

	if monthly > 0 {
		fmt.Fprintln(&b, "COST BREAKDOWN BY COMPONENT")
		fmt.Fprintln(&b, sub)
		writeBreakdown(&b, componentBreakdown(bom), bom.Currency, monthly)
		fmt.Fprintln(&b)

		fmt.Fprintln(&b, "COST BREAKDOWN BY OS TYPE")
		fmt.Fprintln(&b, sub)
		writeBreakdown(&b, osBreakdown(bom), bom.Currency, monthly)
		fmt.Fprintln(&b)
	}

	fmt.Fprintln(&b, "DETAILED LINE ITEMS")
	fmt.Fprintln(&b, strings.Repeat("=", 140))
	fmt.Fprintf(&b, "%-25s %-10s %-20s %-35s %-10s %-15s %-15s\n",
		"VM Name", "OS Type", "Component", "Description", "Qty", "Unit Price", "Total Cost")
	fmt.Fprintln(&b, strings.Repeat("=", 140))
	for i := range bom.LineItems {
		item := &bom.LineItems[i]
		fmt.Fprintf(&b, "%-25s %-10s %-20s %-35s %-10.1f %-15.4f %-15.2f\n",
			item.VMName, item.OSType, item.Component, item.Description,
			item.Quantity, item.UnitPrice, item.TotalCost)
	}

	return b.Bytes(), nil
}

type breakdownEntry struct {
	label string
	cost  float64
}

func componentBreakdown(bom *api.BillOfMaterials) []breakdownEntry {
	entries := []breakdownEntry{}
	for component, cost := range bom.CostByComponent() {
		entries = append(entries, breakdownEntry{string(component), cost})
	}
	sortByCost(entries)
	return entries
}

func osBreakdown(bom *api.BillOfMaterials) []breakdownEntry {
	entries := []breakdownEntry{}
	for os, cost := range bom.CostByOS() {
		entries = append(entries, breakdownEntry{string(os), cost})
	}
	sortByCost(entries)
	return entries
}

func sortByCost(entries []breakdownEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].cost != entries[j].cost {
			return entries[i].cost > entries[j].cost
		}
		return entries[i].label < entries[j].label
	})
}

func writeBreakdown(b *bytes.Buffer, entries []breakdownEntry, currency string, total float64) {
	for _, e := range entries {
		fmt.Fprintf(b, "%-30s %s %12.2f (%5.1f%%)\n", e.label, currency, e.cost, e.cost/total*100)
	}
}

func sortedOSTypes(dist map[api.OSType]int) []api.OSType {
	oses := make([]api.OSType, 0, len(dist))
	for os := range dist {
		oses = append(oses, os)
	}
	sort.Slice(oses, func(i, j int) bool { return oses[i] < oses[j] })
	return oses
}
