package pricing

import (
	"time"

	"go.uber.org/zap"

	api "github.com/vmassess/bomgen/api/v1alpha1"
)

// PriceAssessment runs the engine over every eligible VM of an
// assessment and accumulates the line items into a Bill of Materials.
// Powered-off VMs are skipped unless the assessment metadata explicitly
// includes them. Line-item currency is always the rate card's currency,
// regardless of anything embedded in the cost components.
func (e *Engine) PriceAssessment(assessment *api.VMAssessment) *api.BillOfMaterials {
	bom := &api.BillOfMaterials{
		AssessmentID:  assessment.ID,
		LineItems:     []api.BOMLineItem{},
		Currency:      e.card.Currency,
		PricingDate:   time.Now(),
		PricingSource: e.card.Source,
	}

	includePoweredOff := assessment.Metadata[api.MetadataIncludePoweredOff] == "true"

	for i := range assessment.VMs {
		vm := &assessment.VMs[i]
		if !vm.IsPoweredOn() && !includePoweredOff {
			continue
		}
		for _, item := range e.CalculateVMCost(vm) {
			bom.AddLineItem(item)
		}
	}

	zap.S().Named("pricing").Infof("calculated costs for %d line items (%s %.2f/month)",
		len(bom.LineItems), bom.Currency, bom.TotalMonthlyCost())
	return bom
}
