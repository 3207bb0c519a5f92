// Package json renders assessments and bills of materials as indented
// JSON documents for machine consumption.
package json

import (
	"encoding/json"
	"time"

	api "github.com/vmassess/bomgen/api/v1alpha1"
	"github.com/vmassess/bomgen/internal/report/types"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) SupportedFormat() types.ReportFormat {
	return types.ReportFormatJSON
}

func (r *Renderer) FileExtension() string {
	return "json"
}

type assessmentDocument struct {
	Generated  time.Time         `json:"generated"`
	Summary    api.SummaryStats  `json:"summary"`
	Assessment *api.VMAssessment `json:"assessment"`
}

type bomDocument struct {
	Generated        time.Time                 `json:"generated"`
	TotalMonthlyCost float64                   `json:"totalMonthlyCost"`
	TotalAnnualCost  float64                   `json:"totalAnnualCost"`
	CostByComponent  map[api.Component]float64 `json:"costByComponent"`
	CostByOS         map[api.OSType]float64    `json:"costByOs"`
	BOM              *api.BillOfMaterials      `json:"bom"`
}

func (r *Renderer) RenderAssessment(data *types.ReportData) ([]byte, error) {
	return json.MarshalIndent(assessmentDocument{
		Generated:  data.Generated,
		Summary:    data.Assessment.Summary(),
		Assessment: data.Assessment,
	}, "", "  ")
}

func (r *Renderer) RenderBOM(data *types.ReportData) ([]byte, error) {
	return json.MarshalIndent(bomDocument{
		Generated:        data.Generated,
		TotalMonthlyCost: data.BOM.TotalMonthlyCost(),
		TotalAnnualCost:  data.BOM.TotalAnnualCost(),
		CostByComponent:  data.BOM.CostByComponent(),
		CostByOS:         data.BOM.CostByOS(),
		BOM:              data.BOM,
	}, "", "  ")
}
