// Package csv renders assessments and bills of materials as CSV files.
package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/vmassess/bomgen/internal/report/types"
)

const timestampLayout = "2006-01-02 15:04:05"

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) SupportedFormat() types.ReportFormat {
	return types.ReportFormatCSV
}

func (r *Renderer) FileExtension() string {
	return "csv"
}

func (r *Renderer) RenderAssessment(data *types.ReportData) ([]byte, error) {
	assessment := data.Assessment
	rows := [][]string{
		{fmt.Sprintf("VM Assessment Report - %s", assessment.SourceFormat)},
		{fmt.Sprintf("Generated: %s", data.Generated.Format(timestampLayout))},
		{fmt.Sprintf("Total VMs: %d", assessment.TotalVMs)},
		{fmt.Sprintf("Powered On VMs: %d", assessment.PoweredOnVMs)},
		{},
		{"VM ID", "VM Name", "OS Type", "OS Config", "CPU Cores", "Memory GB",
			"Storage GB", "Power State", "Cluster", "Host", "Datacenter", "Annotation"},
	}

	for i := range assessment.VMs {
		vm := &assessment.VMs[i]
		rows = append(rows, []string{
			vm.ID,
			vm.Name,
			string(vm.OSType),
			vm.OSDescriptor,
			fmt.Sprintf("%d", vm.CPUCores),
			formatFloat(vm.MemoryGB),
			formatFloat(vm.TotalStorageGB()),
			string(vm.PowerState),
			vm.Cluster,
			vm.Host,
			vm.Datacenter,
			vm.Annotation,
		})
	}

	return writeRows(rows)
}

func (r *Renderer) RenderBOM(data *types.ReportData) ([]byte, error) {
	bom := data.BOM
	rows := [][]string{
		{fmt.Sprintf("Bill of Materials - %s", bom.PricingSource)},
		{fmt.Sprintf("Currency: %s", bom.Currency)},
		{fmt.Sprintf("Generated: %s", data.Generated.Format(timestampLayout))},
		{},
		{"VM ID", "VM Name", "OS Type", "Component Type", "Description",
			"Quantity", "Unit", fmt.Sprintf("Unit Price (%s)", bom.Currency), fmt.Sprintf("Total Cost (%s)", bom.Currency)},
	}

	for i := range bom.LineItems {
		item := &bom.LineItems[i]
		rows = append(rows, []string{
			item.VMID,
			item.VMName,
			string(item.OSType),
			string(item.Component),
			item.Description,
			formatFloat(item.Quantity),
			item.Unit,
			formatFloat(item.UnitPrice),
			formatFloat(item.TotalCost),
		})
	}

	rows = append(rows,
		[]string{},
		[]string{"SUMMARY"},
		[]string{fmt.Sprintf("Total Monthly Cost (%s)", bom.Currency), "", "", "", "", "", "", "", formatFloat(bom.TotalMonthlyCost())},
		[]string{fmt.Sprintf("Total Annual Cost (%s)", bom.Currency), "", "", "", "", "", "", "", formatFloat(bom.TotalAnnualCost())},
	)

	return writeRows(rows)
}

func writeRows(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%g", v)
}
