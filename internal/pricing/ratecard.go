// Package pricing converts canonical VM records into priced Bill of
// Materials line items using a versioned, swappable rate card.
package pricing

import (
	"os"

	"go.uber.org/zap"
	"sigs.k8s.io/yaml"

	api "github.com/vmassess/bomgen/api/v1alpha1"
)

// DefaultRateCardSource labels bills priced with the built-in card so a
// reader can tell them apart from bills priced against a supplied file.
const DefaultRateCardSource = "built-in default price list"

// rateCardFile is the on-disk rate card document. It is accepted as JSON
// or YAML; sigs.k8s.io/yaml funnels both through the same tags.
type rateCardFile struct {
	PricingMetadata struct {
		Currency      string  `json:"currency"`
		HoursPerMonth float64 `json:"hours_per_month"`
		PricingSource string  `json:"pricing_source"`
		Region        string  `json:"region"`
	} `json:"pricing_metadata"`
	ComputePricing   map[string]rateEntry `json:"compute_pricing"`
	MemoryPricing    map[string]rateEntry `json:"memory_pricing"`
	StoragePricing   map[string]rateEntry `json:"storage_pricing"`
	LicensingPricing map[string]rateEntry `json:"licensing_pricing"`
}

type rateEntry struct {
	UnitPrice float64 `json:"unit_price"`
	Unit      string  `json:"unit"`
}

// DefaultRateCard returns the built-in fallback card. The constants are
// the Oracle Cloud EUR list prices the system shipped with.
func DefaultRateCard() *api.RateCard {
	return &api.RateCard{
		Currency:         "EUR",
		HoursPerMonth:    744,
		OCPUHourly:       0.0279,
		MemoryGBHourly:   0.00186,
		StorageGBMonthly: 0.023715,
		VPUMonthly:       0.001581,
		WindowsHourly:    0.08556,
		Source:           DefaultRateCardSource,
		Region:           "Global",
	}
}

// LoadRateCard reads a rate card document from path. A missing or
// malformed file is recoverable: the built-in default card is returned
// with its distinct provenance label, and pricing continues.
func LoadRateCard(path string) *api.RateCard {
	log := zap.S().Named("pricing")
	if path == "" {
		return DefaultRateCard()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warnf("rate card %s not readable: %v, using default pricing", path, err)
		return DefaultRateCard()
	}

	card, err := ParseRateCard(raw)
	if err != nil {
		log.Warnf("rate card %s malformed: %v, using default pricing", path, err)
		return DefaultRateCard()
	}
	if card.Source == "" {
		card.Source = path
	}
	log.Infof("loaded rate card from %s (%s, %v h/month)", path, card.Currency, card.HoursPerMonth)
	return card
}

// ParseRateCard decodes a rate card document. Sections or entries missing
// from the document fall back to the default card's values, so a partial
// override still prices every component.
func ParseRateCard(raw []byte) (*api.RateCard, error) {
	var doc rateCardFile
	if err := yaml.UnmarshalStrict(raw, &doc); err != nil {
		return nil, err
	}

	card := DefaultRateCard()
	if doc.PricingMetadata.Currency != "" {
		card.Currency = doc.PricingMetadata.Currency
	}
	if doc.PricingMetadata.HoursPerMonth > 0 {
		card.HoursPerMonth = doc.PricingMetadata.HoursPerMonth
	}
	if doc.PricingMetadata.PricingSource != "" {
		card.Source = doc.PricingMetadata.PricingSource
	} else {
		card.Source = ""
	}
	card.Region = doc.PricingMetadata.Region

	if e, ok := doc.ComputePricing["ocpu"]; ok {
		card.OCPUHourly = e.UnitPrice
	}
	if e, ok := doc.MemoryPricing["memory_gb"]; ok {
		card.MemoryGBHourly = e.UnitPrice
	}
	if e, ok := doc.StoragePricing["block_volume"]; ok {
		card.StorageGBMonthly = e.UnitPrice
	}
	if e, ok := doc.StoragePricing["block_volume_vpu"]; ok {
		card.VPUMonthly = e.UnitPrice
	}
	if e, ok := doc.LicensingPricing["windows_server"]; ok {
		card.WindowsHourly = e.UnitPrice
	}
	return card, nil
}
