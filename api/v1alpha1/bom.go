package v1alpha1

import "time"

// Component is the cost category of a BOM line item.
type Component string

const (
	ComponentCompute            Component = "Compute"
	ComponentMemory             Component = "Memory"
	ComponentStorage            Component = "Storage"
	ComponentStoragePerformance Component = "Storage Performance"
	ComponentOSLicense          Component = "OS License"
)

// RateCard is a versioned set of unit prices used to convert resource
// quantities into currency amounts. It is loaded once per pricing run
// and read-only afterwards, so a single card may be shared between
// concurrent runs.
type RateCard struct {
	Currency      string  `json:"currency"`
	HoursPerMonth float64 `json:"hoursPerMonth"`

	// Unit prices. Compute and licensing are hourly per OCPU, memory is
	// hourly per GB, storage and VPU are monthly.
	OCPUHourly       float64 `json:"ocpuHourly"`
	MemoryGBHourly   float64 `json:"memoryGbHourly"`
	StorageGBMonthly float64 `json:"storageGbMonthly"`
	VPUMonthly       float64 `json:"vpuMonthly"`
	WindowsHourly    float64 `json:"windowsHourly"`

	// Source labels where the prices came from, e.g. a price list file or
	// the built-in default card.
	Source string `json:"source,omitempty"`
	Region string `json:"region,omitempty"`
}

// BOMLineItem is one priced cost component attributed to one VM. The VM
// is referenced by id/name only; line items never alias assessment records.
type BOMLineItem struct {
	VMID   string `json:"vmId"`
	VMName string `json:"vmName"`
	OSType OSType `json:"osType"`

	Component   Component `json:"component"`
	Description string    `json:"description"`
	Quantity    float64   `json:"quantity"`
	Unit        string    `json:"unit"`
	UnitPrice   float64   `json:"unitPrice"`
	TotalCost   float64   `json:"totalCost"`

	Currency     string `json:"currency"`
	PricingModel string `json:"pricingModel,omitempty"`
}

// MonthlyCost returns the line item's monthly cost. The unit period of a
// line item is always one month, so this is TotalCost.
func (li *BOMLineItem) MonthlyCost() float64 {
	return li.TotalCost
}

// AnnualCost is the derived yearly cost, always MonthlyCost x 12.
func (li *BOMLineItem) AnnualCost() float64 {
	return li.TotalCost * 12
}

// BillOfMaterials is the priced output of an assessment run.
type BillOfMaterials struct {
	AssessmentID  string        `json:"assessmentId"`
	LineItems     []BOMLineItem `json:"lineItems"`
	Currency      string        `json:"currency"`
	PricingDate   time.Time     `json:"pricingDate"`
	PricingSource string        `json:"pricingSource,omitempty"`
	Notes         string        `json:"notes,omitempty"`
}

// AddLineItem forces the item's currency to the BOM currency and appends
// it. The BOM (via its rate card) is the single source of truth for
// currency tagging.
func (b *BillOfMaterials) AddLineItem(item BOMLineItem) {
	item.Currency = b.Currency
	b.LineItems = append(b.LineItems, item)
}

// TotalMonthlyCost is the derived sum of all line items' monthly cost.
func (b *BillOfMaterials) TotalMonthlyCost() float64 {
	var total float64
	for i := range b.LineItems {
		total += b.LineItems[i].MonthlyCost()
	}
	return total
}

// TotalAnnualCost is the derived sum of all line items' annual cost.
func (b *BillOfMaterials) TotalAnnualCost() float64 {
	var total float64
	for i := range b.LineItems {
		total += b.LineItems[i].AnnualCost()
	}
	return total
}

// CostByComponent breaks the monthly cost down per component category.
func (b *BillOfMaterials) CostByComponent() map[Component]float64 {
	breakdown := make(map[Component]float64)
	for i := range b.LineItems {
		breakdown[b.LineItems[i].Component] += b.LineItems[i].MonthlyCost()
	}
	return breakdown
}

// CostByOS breaks the monthly cost down per OS type.
func (b *BillOfMaterials) CostByOS() map[OSType]float64 {
	breakdown := make(map[OSType]float64)
	for i := range b.LineItems {
		breakdown[b.LineItems[i].OSType] += b.LineItems[i].MonthlyCost()
	}
	return breakdown
}
