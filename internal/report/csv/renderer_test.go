package csv

import (
	"bytes"
	gocsv "encoding/csv"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api "github.com/vmassess/bomgen/api/v1alpha1"
	"github.com/vmassess/bomgen/internal/report/types"
)

func testData() *types.ReportData {
	assessment := api.NewVMAssessment("dc export", "RVTools")
	vm := api.VMRecord{
		ID: "u1", Name: "web-01", CPUCores: 4, MemoryGB: 16,
		OSType: api.OSTypeLinux, OSDescriptor: "Ubuntu Linux (64-bit)",
		PowerState: api.PowerStateOn, Cluster: "prod",
	}
	vm.AddStorage(70, nil, api.StorageTypeBlock, "")
	assessment.AddVM(vm)

	bom := &api.BillOfMaterials{
		AssessmentID:  assessment.ID,
		Currency:      "EUR",
		PricingDate:   time.Now(),
		PricingSource: "test price list",
	}
	bom.AddLineItem(api.BOMLineItem{
		VMID: "u1", VMName: "web-01", OSType: api.OSTypeLinux,
		Component: api.ComponentCompute, Description: "OCPU (2 OCPU for 4 vCPU)",
		Quantity: 2, Unit: "OCPU", UnitPrice: 20.7576, TotalCost: 41.5152,
	})

	return &types.ReportData{
		Assessment: assessment,
		BOM:        bom,
		Generated:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func parseCSV(t *testing.T, content []byte) [][]string {
	t.Helper()
	r := gocsv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)
	return records
}

func TestRenderAssessment(t *testing.T) {
	out, err := NewRenderer().RenderAssessment(testData())
	require.NoError(t, err)

	records := parseCSV(t, out)
	assert.Equal(t, "VM Assessment Report - RVTools", records[0][0])
	assert.Equal(t, "Total VMs: 1", records[2][0])

	// the blank spacer row is skipped by the csv reader
	header := records[4]
	assert.Equal(t, "VM ID", header[0])
	assert.Equal(t, "Storage GB", header[6])

	row := records[5]
	assert.Equal(t, []string{
		"u1", "web-01", "Linux", "Ubuntu Linux (64-bit)", "4", "16", "70",
		"poweredOn", "prod", "", "", "",
	}, row)
}

func TestRenderBOM(t *testing.T) {
	out, err := NewRenderer().RenderBOM(testData())
	require.NoError(t, err)

	records := parseCSV(t, out)
	assert.Equal(t, "Bill of Materials - test price list", records[0][0])
	assert.Equal(t, "Currency: EUR", records[1][0])

	item := records[4]
	assert.Equal(t, "web-01", item[1])
	assert.Equal(t, "Compute", item[3])
	total, err := strconv.ParseFloat(item[8], 64)
	require.NoError(t, err)
	assert.InDelta(t, 41.5152, total, 1e-9)

	last := records[len(records)-1]
	assert.Equal(t, "Total Annual Cost (EUR)", last[0])
	annual, err := strconv.ParseFloat(last[8], 64)
	require.NoError(t, err)
	assert.InDelta(t, 498.1824, annual, 1e-9)
}

func TestRendererMetadata(t *testing.T) {
	r := NewRenderer()
	assert.Equal(t, types.ReportFormatCSV, r.SupportedFormat())
	assert.Equal(t, "csv", r.FileExtension())
}
