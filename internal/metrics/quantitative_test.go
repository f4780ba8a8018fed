package metrics

import (
	"math"
	"testing"

	"github.com/TheNeuroneLab/CryptoBot/internal/domain"
)

func TestQuantitative_SelfCorrelationIsExactlyOne(t *testing.T) {
	// Constant series: zero return variance, where the general correlation
	// formula would divide zero by zero.
	s := constantSeries(t, 50, 100, 1000)
	got := priceCorrelation(s, s.Len()-1)
	if !got.Defined() || got.Value != 1 {
		t.Errorf("expected exactly 1, got %+v", got)
	}
}

func TestQuantitative_DCFRoundTrip(t *testing.T) {
	closes := []float64{90, 95, 100, 105, 137.5}
	volumes := []float64{1000, 1100, 900, 1200, 1000}
	s := testSeries(t, closes, volumes)
	p := domain.DefaultParameters(testSupply)

	intrinsic, valuation := priceDCF(s, p, s.Len()-1)
	if !intrinsic.Defined() || !valuation.Defined() {
		t.Fatalf("expected both defined, got %+v / %+v", intrinsic, valuation)
	}
	if valuation.Value != intrinsic.Value/137.5 {
		t.Errorf("ratio must round-trip exactly: %f vs %f", valuation.Value, intrinsic.Value/137.5)
	}
}

func TestQuantitative_VolatilityReductionFlooredAtZero(t *testing.T) {
	// Calm first half, wild second half: raw reduction is negative, the
	// metric reports 0.
	closes := make([]float64, 40)
	volumes := make([]float64, 40)
	for i := range closes {
		volumes[i] = 1000
		switch {
		case i < 20:
			closes[i] = 100 + 0.1*float64(i%2)
		case i%2 == 0:
			closes[i] = 80
		default:
			closes[i] = 120
		}
	}
	s := testSeries(t, closes, volumes)

	got := volatilityReduction(s, s.Len()-1)
	if !got.Defined() || got.Value != 0 {
		t.Errorf("expected floored 0, got %+v", got)
	}
}

func TestQuantitative_VolatilityReductionZeroEarlySigma(t *testing.T) {
	// Perfectly flat first half: the reduction base is zero, so the metric
	// is undefined rather than 0 or Inf.
	closes := make([]float64, 40)
	volumes := make([]float64, 40)
	for i := range closes {
		volumes[i] = 1000
		if i < 21 {
			closes[i] = 100
		} else {
			closes[i] = 100 + 5*float64(i%3)
		}
	}
	s := testSeries(t, closes, volumes)

	got := volatilityReduction(s, s.Len()-1)
	if got.Status != domain.StatusUndefinedDenominator {
		t.Errorf("expected undefined_denominator, got %s", got.Status)
	}
}

func TestQuantitative_MissingTakerDataOnlyAffectsComposition(t *testing.T) {
	s := constantSeries(t, 40, 100, 1000) // helper bars carry no taker data
	p := domain.DefaultParameters(testSupply)
	ents := computeQuantitative(s, p, s.Len()-1)

	buy := entryByName(t, ents, "Volume Composition Buy")
	sell := entryByName(t, ents, "Volume Composition Sell")
	if buy.Status != domain.StatusMissingInput || sell.Status != domain.StatusMissingInput {
		t.Errorf("expected missing_input for both, got %s / %s", buy.Status, sell.Status)
	}

	// The rest of the group is unaffected.
	if e := entryByName(t, ents, "Trading Volume"); !e.Defined() || e.Value != 100000 {
		t.Errorf("expected trading volume 100000, got %+v", e.MetricValue)
	}
	if e := entryByName(t, ents, "NVT Ratio"); !e.Defined() {
		t.Errorf("NVT should be unaffected, got %s", e.Status)
	}
}

func TestQuantitative_VolumeCompositionSellIsComplement(t *testing.T) {
	bars := buildBars([]float64{100, 100, 100}, []float64{1000, 1000, 1000})
	for i := range bars {
		bars[i].TakerBuyQuote = 60000 // 60% of the 100000 quote volume
	}
	s := mustSeries(t, bars)
	buy, sell := volumeComposition(s, s.Len()-1)

	if !buy.Defined() || math.Abs(buy.Value-0.6) > 1e-12 {
		t.Errorf("expected buy share 0.6, got %+v", buy)
	}
	if !sell.Defined() || math.Abs(sell.Value-0.4) > 1e-12 {
		t.Errorf("expected sell share 0.4, got %+v", sell)
	}
}

func TestQuantitative_SharpeUndefinedOnZeroVariance(t *testing.T) {
	s := constantSeries(t, 30, 100, 1000)
	p := domain.DefaultParameters(testSupply)

	got := sharpeRatio(s, p.StakingAPY, p.RiskFreeRate, s.Len()-1)
	if got.Status != domain.StatusUndefinedDenominator {
		t.Errorf("expected undefined_denominator, got %s", got.Status)
	}
}

func TestQuantitative_PriceVolumeRatio30NeedsHistory(t *testing.T) {
	s := constantSeries(t, 29, 100, 1000)
	if got := priceVolumeRatio30(s, s.Len()-1); got.Status != domain.StatusInsufficientHistory {
		t.Errorf("expected insufficient_history at 29 bars, got %s", got.Status)
	}

	s = constantSeries(t, 30, 100, 1000)
	got := priceVolumeRatio30(s, s.Len()-1)
	if !got.Defined() || got.Value != 100.0/100000 {
		t.Errorf("expected 0.001, got %+v", got)
	}
}

func TestQuantitative_RiskAdjustedVolumeDiscountBelowOne(t *testing.T) {
	closes := make([]float64, 30)
	volumes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + 3*float64(i%4)
		volumes[i] = 1000
	}
	s := testSeries(t, closes, volumes)
	p := domain.DefaultParameters(testSupply)

	got := riskAdjustedVolumeDiscount(s, p, s.Len()-1)
	if !got.Defined() {
		t.Fatalf("expected defined, got %s", got.Status)
	}
	if got.Value <= 0 || got.Value >= 1 {
		t.Errorf("discount ratio must be in (0,1) for a volatile series, got %f", got.Value)
	}
}

func TestQuantitative_CatalogueOrderStable(t *testing.T) {
	s := constantSeries(t, 10, 100, 1000)
	ents := computeQuantitative(s, domain.DefaultParameters(testSupply), s.Len()-1)
	if len(ents) != len(QuantitativeNames) {
		t.Fatalf("expected %d entries, got %d", len(QuantitativeNames), len(ents))
	}
	for i, e := range ents {
		if e.Name != QuantitativeNames[i] {
			t.Errorf("entry %d: expected %q, got %q", i, QuantitativeNames[i], e.Name)
		}
	}
}
