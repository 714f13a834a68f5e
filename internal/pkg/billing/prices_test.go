package billing

import (
	"testing"

	"github.com/ryvynn-app/ryvynn/internal/pkg/tiers"
)

func TestPriceMapLookup(t *testing.T) {
	m := NewPriceMap([]PricePoint{
		{PriceID: " price_spark_m ", Tier: tiers.TierSpark, Cadence: CadenceMonthly},
		{PriceID: "price_blaze_a", Tier: tiers.TierBlaze, Cadence: CadenceAnnual},
		{PriceID: "", Tier: tiers.TierRadiance, Cadence: CadenceMonthly},
	})

	p, ok := m.Lookup("price_spark_m")
	if !ok || p.Tier != tiers.TierSpark {
		t.Errorf("lookup spark = %+v, ok=%v", p, ok)
	}
	if _, ok := m.Lookup("price_unknown"); ok {
		t.Error("unknown price resolved")
	}

	id, ok := m.PriceFor(tiers.TierBlaze, CadenceAnnual)
	if !ok || id != "price_blaze_a" {
		t.Errorf("PriceFor blaze annual = %q, ok=%v", id, ok)
	}
	if _, ok := m.PriceFor(tiers.TierRadiance, CadenceMonthly); ok {
		t.Error("empty price id registered")
	}
}
