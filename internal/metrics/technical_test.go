package metrics

import (
	"math"
	"testing"

	"github.com/TheNeuroneLab/CryptoBot/internal/domain"
)

func TestTechnical_ConstantSeriesScenario(t *testing.T) {
	s := constantSeries(t, 250, 100, 1000)
	ents, _ := computeTechnical(s, s.Len()-1)

	// No price change over the window: neutral RSI.
	rsi := entryByName(t, ents, "RSI-14")
	if !rsi.Defined() || rsi.Value != 50 {
		t.Errorf("expected RSI 50, got %+v", rsi.MetricValue)
	}

	// Zero sigma collapses the bands onto the middle.
	bb := entryByName(t, ents, "Bollinger Band Width")
	if !bb.Defined() || bb.Value != 0 {
		t.Errorf("expected width 0, got %+v", bb.MetricValue)
	}

	// No sign changes after bar 0.
	obv := entryByName(t, ents, "OBV")
	if !obv.Defined() || obv.Value != 0 {
		t.Errorf("expected OBV 0, got %+v", obv.MetricValue)
	}

	sma := entryByName(t, ents, "SMA-50")
	if !sma.Defined() || sma.Value != 100 {
		t.Errorf("expected SMA 100, got %+v", sma.MetricValue)
	}

	vwap := entryByName(t, ents, "VWAP")
	if !vwap.Defined() || vwap.Value != 100 {
		t.Errorf("expected VWAP 100, got %+v", vwap.MetricValue)
	}

	breakout := entryByName(t, ents, "Price Channel Breakout")
	if !breakout.Defined() || breakout.Value != 0 {
		t.Errorf("expected breakout 0, got %+v", breakout.MetricValue)
	}

	// Flat channel: %K and %R have no defined position.
	stoch := entryByName(t, ents, "Stochastic %K")
	if stoch.Status != domain.StatusUndefinedDenominator {
		t.Errorf("expected undefined_denominator for flat channel, got %s", stoch.Status)
	}
}

func TestTechnical_ShortSeriesIsInsufficientNotZero(t *testing.T) {
	s := constantSeries(t, 19, 100, 1000)
	ents, _ := computeTechnical(s, s.Len()-1)

	for _, name := range []string{"SMA-50", "EMA-20", "Bollinger Band Width", "MACD Histogram", "Volume Oscillator", "Price Channel Breakout"} {
		e := entryByName(t, ents, name)
		if e.Status != domain.StatusInsufficientHistory {
			t.Errorf("%s: expected insufficient_history, got %s", name, e.Status)
		}
		if !math.IsNaN(e.Value) {
			t.Errorf("%s: undefined metric must carry NaN, not %f", name, e.Value)
		}
	}

	// Short-window indicators still compute.
	if e := entryByName(t, ents, "RSI-14"); !e.Defined() {
		t.Errorf("RSI-14 should compute on 19 bars, got %s", e.Status)
	}
	if e := entryByName(t, ents, "OBV"); !e.Defined() {
		t.Errorf("OBV should compute on 19 bars, got %s", e.Status)
	}
}

func TestTechnical_MissingBarInsideWindowIsMissingInput(t *testing.T) {
	// One bar with no prices inside the RSI window. The as-of value is
	// undefined because an input is absent, not because a denominator
	// collapsed.
	closes := make([]float64, 20)
	volumes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
		volumes[i] = 1000
	}
	closes[15] = math.NaN()
	s := testSeries(t, closes, volumes)

	ents, _ := computeTechnical(s, s.Len()-1)
	rsi := entryByName(t, ents, "RSI-14")
	if rsi.Status != domain.StatusMissingInput {
		t.Errorf("expected missing_input, got %s", rsi.Status)
	}
	if !math.IsNaN(rsi.Value) {
		t.Errorf("undefined metric must carry NaN, not %f", rsi.Value)
	}
}

func TestRSI_SaturatesAt100OnUptrend(t *testing.T) {
	closes := make([]float64, 30)
	volumes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
		volumes[i] = 1000
	}
	s := testSeries(t, closes, volumes)
	ents, _ := computeTechnical(s, s.Len()-1)

	rsi := entryByName(t, ents, "RSI-14")
	if !rsi.Defined() || rsi.Value != 100 {
		t.Errorf("expected RSI 100 with no losses, got %+v", rsi.MetricValue)
	}
}

func TestRSI_BoundedOnMixedSeries(t *testing.T) {
	closes := make([]float64, 60)
	volumes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/3)
		volumes[i] = 1000
	}
	s := testSeries(t, closes, volumes)
	col := rsiColumn(s.Closes(), 14)

	for t2, v := range col {
		if math.IsNaN(v) {
			continue
		}
		if v < 0 || v > 100 {
			t.Errorf("RSI out of [0,100] at bar %d: %f", t2, v)
		}
	}
}

func TestMACDHistogram_FirstDefinedIndex(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	hist := macdHistogram(closes)

	// Slow EMA seeds at index 25, the signal EMA 9 bars later at 33.
	if !math.IsNaN(hist[32]) {
		t.Errorf("expected NaN at index 32, got %f", hist[32])
	}
	if math.IsNaN(hist[33]) {
		t.Error("expected defined histogram at index 33")
	}
}

func TestChannelBreakout_Tristate(t *testing.T) {
	closes := make([]float64, 25)
	volumes := make([]float64, 25)
	for i := range closes {
		closes[i] = 100
		volumes[i] = 1000
	}
	s := testSeries(t, closes, volumes)

	// Close above the 20-bar high breaks out; the helper bars use
	// high = low = close, so a higher close is also a higher channel top.
	highs := append([]float64(nil), s.Highs()...)
	lows := append([]float64(nil), s.Lows()...)
	cl := append([]float64(nil), s.Closes()...)
	cl[24] = 120
	highs[24] = 119 // channel top below the close

	out := channelBreakout(highs, lows, cl, 20)
	if out[24] != 1 {
		t.Errorf("expected breakout +1, got %f", out[24])
	}

	cl[24] = 80
	lows[24] = 81
	out = channelBreakout(highs, lows, cl, 20)
	if out[24] != -1 {
		t.Errorf("expected breakdown -1, got %f", out[24])
	}
}

func TestMomentum_AbsoluteDifference(t *testing.T) {
	closes := make([]float64, 15)
	volumes := make([]float64, 15)
	for i := range closes {
		closes[i] = 100 + float64(i)
		volumes[i] = 1000
	}
	s := testSeries(t, closes, volumes)
	ents, _ := computeTechnical(s, s.Len()-1)

	mom := entryByName(t, ents, "Momentum-10")
	if !mom.Defined() || mom.Value != 10 {
		t.Errorf("expected momentum 10, got %+v", mom.MetricValue)
	}

	roc := entryByName(t, ents, "ROC-14")
	if !roc.Defined() || math.Abs(roc.Value-14) > 1e-12 {
		t.Errorf("expected ROC 14%%, got %+v", roc.MetricValue)
	}
}

func TestTechnical_ColumnsAlignedToBars(t *testing.T) {
	s := constantSeries(t, 60, 100, 1000)
	_, cols := computeTechnical(s, s.Len()-1)

	if len(cols) != 15 {
		t.Fatalf("expected 15 indicator columns, got %d", len(cols))
	}
	for _, c := range cols {
		if len(c.Values) != s.Len() {
			t.Errorf("%s: expected %d values, got %d", c.Name, s.Len(), len(c.Values))
		}
	}
}
