package metrics

import (
	"math"
	"testing"

	"github.com/TheNeuroneLab/CryptoBot/internal/domain"
)

func TestAggregator_GroupMetadata(t *testing.T) {
	s := constantSeries(t, 250, 100, 1000)
	agg := NewAggregator(domain.DefaultParameters(testSupply))

	fund := agg.Fundamental(s)
	if fund.Group != domain.GroupFundamental || fund.Symbol != "AAVEUSDT" {
		t.Errorf("unexpected metadata %s/%s", fund.Group, fund.Symbol)
	}
	if fund.AsOf != s.Timestamp(s.Len()-1) {
		t.Errorf("as-of must be the last bar timestamp, got %s", fund.AsOf)
	}

	quant := agg.Quantitative(s)
	if quant.Group != domain.GroupQuantitative {
		t.Errorf("unexpected group %s", quant.Group)
	}

	tech := agg.Technical(s)
	if tech.Group != domain.GroupTechnical {
		t.Errorf("unexpected group %s", tech.Group)
	}
	if len(tech.Timestamps) != s.Len() {
		t.Errorf("expected %d timestamps, got %d", s.Len(), len(tech.Timestamps))
	}
}

func TestAggregator_ConstantsRecorded(t *testing.T) {
	s := constantSeries(t, 50, 100, 1000)
	p := domain.DefaultParameters(testSupply)
	agg := NewAggregator(p)

	fund := agg.Fundamental(s)
	found := map[string]float64{}
	for _, c := range fund.Constants {
		found[c.Name] = c.Value
	}
	if found["CirculatingSupply"] != testSupply {
		t.Errorf("expected supply %d recorded, got %f", testSupply, found["CirculatingSupply"])
	}
	if found["UtilityDiscountRate"] != p.UtilityDiscountRate {
		t.Errorf("expected discount rate recorded, got %f", found["UtilityDiscountRate"])
	}

	quant := agg.Quantitative(s)
	found = map[string]float64{}
	for _, c := range quant.Constants {
		found[c.Name] = c.Value
	}
	if found["StakingAPY"] != p.StakingAPY || found["PriceDiscountRate"] != p.PriceDiscountRate {
		t.Errorf("quantitative constants incomplete: %v", found)
	}
}

func TestAggregator_Idempotent(t *testing.T) {
	// Pure computation: two runs over the same inputs are identical,
	// including every NaN/status pair.
	n := 250
	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/7)
		volumes[i] = 1000 + 50*float64(i%5)
	}
	s := testSeries(t, closes, volumes)
	agg := NewAggregator(domain.DefaultParameters(testSupply))

	a, b := agg.Fundamental(s), agg.Fundamental(s)
	if !equalEntries(a.Entries, b.Entries) {
		t.Error("fundamental results differ between runs")
	}

	qa, qb := agg.Quantitative(s), agg.Quantitative(s)
	if !equalEntries(qa.Entries, qb.Entries) {
		t.Error("quantitative results differ between runs")
	}

	ta, tb := agg.Technical(s), agg.Technical(s)
	if !equalEntries(ta.Entries, tb.Entries) {
		t.Error("technical scalar results differ between runs")
	}
	for i := range ta.Columns {
		if !equalColumn(ta.Columns[i].Values, tb.Columns[i].Values) {
			t.Errorf("column %s differs between runs", ta.Columns[i].Name)
		}
	}
}

func TestAggregator_AsOfIndexTruncatesHistory(t *testing.T) {
	s := constantSeries(t, 250, 100, 1000)
	agg := NewAggregator(domain.DefaultParameters(testSupply))

	// At bar 150 only 151 bars exist: Mayer has no 200-bar window yet.
	fund := agg.FundamentalAt(s, 150)
	mayer, _ := fund.Entry("Mayer Multiple")
	if mayer.Status != domain.StatusInsufficientHistory {
		t.Errorf("expected insufficient_history at bar 150, got %s", mayer.Status)
	}
	if fund.AsOf != s.Timestamp(150) {
		t.Errorf("as-of must be bar 150's timestamp")
	}

	tech := agg.TechnicalAt(s, 150)
	if len(tech.Timestamps) != 151 {
		t.Errorf("expected 151 timestamps, got %d", len(tech.Timestamps))
	}
}

func equalEntries(a, b []domain.MetricEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || a[i].Status != b[i].Status {
			return false
		}
		if !sameFloat(a[i].Value, b[i].Value) {
			return false
		}
	}
	return true
}

func equalColumn(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameFloat(a[i], b[i]) {
			return false
		}
	}
	return true
}

// sameFloat treats two NaNs as equal so undefined cells compare stable.
func sameFloat(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}
