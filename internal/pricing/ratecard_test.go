package pricing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRateCard(t *testing.T) {
	card := DefaultRateCard()
	assert.Equal(t, "EUR", card.Currency)
	assert.Equal(t, 744.0, card.HoursPerMonth)
	assert.Equal(t, 0.0279, card.OCPUHourly)
	assert.Equal(t, DefaultRateCardSource, card.Source)
}

func TestParseRateCardOverrides(t *testing.T) {
	doc := []byte(`{
		"pricing_metadata": {
			"currency": "USD",
			"hours_per_month": 730,
			"pricing_source": "us price list 2026-01",
			"region": "us-east-1"
		},
		"compute_pricing": {
			"ocpu": {"unit_price": 0.031, "unit": "OCPU/hour"}
		},
		"storage_pricing": {
			"block_volume": {"unit_price": 0.025, "unit": "GB/month"}
		}
	}`)

	card, err := ParseRateCard(doc)
	require.NoError(t, err)

	assert.Equal(t, "USD", card.Currency)
	assert.Equal(t, 730.0, card.HoursPerMonth)
	assert.Equal(t, "us price list 2026-01", card.Source)
	assert.Equal(t, "us-east-1", card.Region)
	assert.Equal(t, 0.031, card.OCPUHourly)
	assert.Equal(t, 0.025, card.StorageGBMonthly)
	// sections missing from the document keep the default prices
	assert.Equal(t, 0.00186, card.MemoryGBHourly)
	assert.Equal(t, 0.08556, card.WindowsHourly)
}

func TestParseRateCardYAML(t *testing.T) {
	doc := []byte(`
pricing_metadata:
  currency: GBP
memory_pricing:
  memory_gb:
    unit_price: 0.002
    unit: GB/hour
`)

	card, err := ParseRateCard(doc)
	require.NoError(t, err)
	assert.Equal(t, "GBP", card.Currency)
	assert.Equal(t, 0.002, card.MemoryGBHourly)
}

func TestParseRateCardRejectsUnknownKeys(t *testing.T) {
	_, err := ParseRateCard([]byte(`{"pricing_meta": {}}`))
	assert.Error(t, err)
}

func TestLoadRateCardMissingFile(t *testing.T) {
	card := LoadRateCard(filepath.Join(t.TempDir(), "nope.json"))
	assert.Equal(t, DefaultRateCardSource, card.Source)
	assert.Equal(t, "EUR", card.Currency)
}

func TestLoadRateCardMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	card := LoadRateCard(path)
	assert.Equal(t, DefaultRateCardSource, card.Source)
}

func TestLoadRateCardStampsPathAsSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"pricing_metadata": {"currency": "USD"}}`), 0o644))

	card := LoadRateCard(path)
	assert.Equal(t, "USD", card.Currency)
	assert.Equal(t, path, card.Source)
}
