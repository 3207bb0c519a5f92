// Package xlsx renders assessments and bills of materials as Excel
// workbooks.
package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	api "github.com/vmassess/bomgen/api/v1alpha1"
	"github.com/vmassess/bomgen/internal/report/currency"
	"github.com/vmassess/bomgen/internal/report/types"
)

const timestampLayout = "2006-01-02 15:04:05"

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) SupportedFormat() types.ReportFormat {
	return types.ReportFormatXLSX
}

func (r *Renderer) FileExtension() string {
	return "xlsx"
}

func (r *Renderer) RenderAssessment(data *types.ReportData) ([]byte, error) {
	assessment := data.Assessment
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "VM Assessment"
	if err := renameDefaultSheet(f, sheet); err != nil {
		return nil, err
	}

	stats := assessment.Summary()
	header := [][]interface{}{
		{fmt.Sprintf("VM Assessment Report - %s", assessment.SourceFormat)},
		{fmt.Sprintf("Generated: %s", data.Generated.Format(timestampLayout))},
		{fmt.Sprintf("Total VMs: %d", stats.TotalVMs)},
		{fmt.Sprintf("Powered On VMs: %d", stats.PoweredOnVMs)},
		{},
	}
	row := 1
	for _, cells := range header {
		if err := setRow(f, sheet, row, cells); err != nil {
			return nil, err
		}
		row++
	}

	if err := setRow(f, sheet, row, []interface{}{
		"VM ID", "VM Name", "OS Type", "CPU Cores", "Memory GB", "Storage GB", "Power State", "Cluster",
	}); err != nil {
		return nil, err
	}
	if err := boldRow(f, sheet, row); err != nil {
		return nil, err
	}
	row++

	for i := range assessment.VMs {
		vm := &assessment.VMs[i]
		if err := setRow(f, sheet, row, []interface{}{
			vm.ID, vm.Name, string(vm.OSType), vm.CPUCores, vm.MemoryGB, vm.TotalStorageGB(), string(vm.PowerState), vm.Cluster,
		}); err != nil {
			return nil, err
		}
		row++
	}

	return writeBytes(f)
}

func (r *Renderer) RenderBOM(data *types.ReportData) ([]byte, error) {
	bom := data.BOM
	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Cost Summary"
	if err := renameDefaultSheet(f, summarySheet); err != nil {
		return nil, err
	}
	if err := r.writeSummarySheet(f, summarySheet, bom, data); err != nil {
		return nil, err
	}

	const detailSheet = "Line Items"
	if _, err := f.NewSheet(detailSheet); err != nil {
		return nil, err
	}
	if err := r.writeDetailSheet(f, detailSheet, bom); err != nil {
		return nil, err
	}

	return writeBytes(f)
}

func (r *Renderer) writeSummarySheet(f *excelize.File, sheet string, bom *api.BillOfMaterials, data *types.ReportData) error {
	rows := [][]interface{}{
		{fmt.Sprintf("Bill of Materials - %s", bom.PricingSource)},
		{fmt.Sprintf("Currency: %s (%s)", bom.Currency, currency.DisplayName(bom.Currency))},
		{fmt.Sprintf("Generated: %s", data.Generated.Format(timestampLayout))},
		{},
		{"Total Monthly Cost", bom.TotalMonthlyCost()},
		{"Total Annual Cost", bom.TotalAnnualCost()},
		{},
		{"Cost by Component"},
	}
	row := 1
	for _, cells := range rows {
		if err := setRow(f, sheet, row, cells); err != nil {
			return err
		}
		row++
	}

	for component, cost := range bom.CostByComponent() {
		if err := setRow(f, sheet, row, []interface{}{string(component), cost}); err != nil {
			return err
		}
		row++
	}
	return boldRow(f, sheet, 1)
}

func (r *Renderer) writeDetailSheet(f *excelize.File, sheet string, bom *api.BillOfMaterials) error {
	if err := setRow(f, sheet, 1, []interface{}{
		"VM Name", "OS Type", "Component", "Description", "Quantity", "Unit",
		fmt.Sprintf("Unit Price (%s)", bom.Currency), fmt.Sprintf("Total Cost (%s)", bom.Currency),
	}); err != nil {
		return err
	}
	if err := boldRow(f, sheet, 1); err != nil {
		return err
	}

	for i := range bom.LineItems {
		item := &bom.LineItems[i]
		if err := setRow(f, sheet, i+2, []interface{}{
			item.VMName, string(item.OSType), string(item.Component), item.Description,
			item.Quantity, item.Unit, item.UnitPrice, item.TotalCost,
		}); err != nil {
			return err
		}
	}
	return nil
}

func renameDefaultSheet(f *excelize.File, name string) error {
	return f.SetSheetName(f.GetSheetName(0), name)
}

func setRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	if len(cells) == 0 {
		return nil
	}
	ref, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, ref, &cells)
}

func boldRow(f *excelize.File, sheet string, row int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(12, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, start, end, style)
}

func writeBytes(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
