package metrics

import (
	"math"

	"github.com/TheNeuroneLab/CryptoBot/internal/domain"
	"github.com/TheNeuroneLab/CryptoBot/internal/rolling"
	"github.com/TheNeuroneLab/CryptoBot/internal/series"
)

// indicator is one technical indicator column plus the minimum bar count
// before its as-of value is defined.
type indicator struct {
	name    string
	minBars int
	values  []float64
}

// computeTechnical evaluates every indicator column on bars [0, asof] and
// derives the scalar entries from each column's as-of value.
func computeTechnical(s *series.Series, asof int) ([]domain.MetricEntry, []domain.IndicatorColumn) {
	cols := technicalIndicators(s, asof)

	ents := make([]domain.MetricEntry, len(cols))
	out := make([]domain.IndicatorColumn, len(cols))
	for i, c := range cols {
		out[i] = domain.IndicatorColumn{Name: c.name, Values: c.values}
		ents[i] = domain.MetricEntry{Name: c.name, MetricValue: indicatorAt(s, c, asof)}
	}
	return ents, out
}

// indicatorAt grades the as-of value of one indicator column. An undefined
// value past the minimum history is a missing-input failure when the window
// contained a missing bar field, a zero denominator otherwise.
func indicatorAt(s *series.Series, c indicator, asof int) domain.MetricValue {
	if asof+1 < c.minBars {
		return domain.Undefined(domain.StatusInsufficientHistory)
	}
	v := c.values[asof]
	if math.IsNaN(v) {
		if windowHasMissingBar(s, asof-c.minBars+1, asof) {
			return domain.Undefined(domain.StatusMissingInput)
		}
		return domain.Undefined(domain.StatusUndefinedDenominator)
	}
	return domain.OK(v)
}

// windowHasMissingBar reports whether any O/H/L/C/V field is NaN on bars
// [from, to].
func windowHasMissingBar(s *series.Series, from, to int) bool {
	if from < 0 {
		from = 0
	}
	for i := from; i <= to; i++ {
		for _, v := range []float64{s.Open(i), s.High(i), s.Low(i), s.Close(i), s.Volume(i)} {
			if math.IsNaN(v) {
				return true
			}
		}
	}
	return false
}

func technicalIndicators(s *series.Series, asof int) []indicator {
	closes := s.Closes()[:asof+1]
	highs := s.Highs()[:asof+1]
	lows := s.Lows()[:asof+1]
	volumes := s.Volumes()[:asof+1]
	ranges := s.TrueRanges()[:asof+1]
	typical := s.TypicalPrices()[:asof+1]

	// MACD histogram needs the 26-bar slow EMA seed plus 9 more bars to
	// seed the signal line.
	return []indicator{
		{"SMA-50", 50, rolling.SMA(closes, 50)},
		{"EMA-20", 20, rolling.EMA(closes, 20)},
		{"RSI-14", 15, rsiColumn(closes, 14)},
		{"MACD Histogram", 34, macdHistogram(closes)},
		{"Bollinger Band Width", 20, bollingerWidth(closes, 20)},
		{"ATR-14", 15, rolling.SMA(ranges, 14)},
		{"OBV", 1, obvColumn(closes, volumes)},
		{"VWAP", 1, vwapColumn(typical, volumes)},
		{"ROC-14", 15, rocColumn(closes, 14)},
		{"Stochastic %K", 14, stochasticK(highs, lows, closes, 14)},
		{"Williams %R", 14, williamsR(highs, lows, closes, 14)},
		{"Momentum-10", 11, momentumColumn(closes, 10)},
		{"Volume Oscillator", 20, volumeOscillator(volumes, 5, 20)},
		{"CMO-14", 15, cmoColumn(closes, 14)},
		{"Price Channel Breakout", 20, channelBreakout(highs, lows, closes, 20)},
	}
}

// gainLoss splits close-to-close deltas into gain and loss columns. Index 0
// and bars with a missing neighbour are NaN in both.
func gainLoss(closes []float64) (gains, losses []float64) {
	gains = make([]float64, len(closes))
	losses = make([]float64, len(closes))
	gains[0], losses[0] = math.NaN(), math.NaN()
	for i := 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if math.IsNaN(d) {
			gains[i], losses[i] = math.NaN(), math.NaN()
			continue
		}
		gains[i], losses[i] = math.Max(d, 0), math.Max(-d, 0)
	}
	return gains, losses
}

// rsiColumn is the simple-average RSI. With no losses in the window RSI
// saturates at 100; a window with neither gains nor losses is the neutral 50.
func rsiColumn(closes []float64, period int) []float64 {
	gains, losses := gainLoss(closes)
	avgGain := rolling.SMA(gains, period)
	avgLoss := rolling.SMA(losses, period)

	out := make([]float64, len(closes))
	for t := range out {
		g, l := avgGain[t], avgLoss[t]
		switch {
		case math.IsNaN(g) || math.IsNaN(l):
			out[t] = math.NaN()
		case g == 0 && l == 0:
			out[t] = 50
		case l == 0:
			out[t] = 100
		default:
			out[t] = 100 - 100/(1+g/l)
		}
	}
	return out
}

// macdHistogram is the MACD line (EMA-12 minus EMA-26) minus its EMA-9
// signal line.
func macdHistogram(closes []float64) []float64 {
	fast := rolling.EMA(closes, 12)
	slow := rolling.EMA(closes, 26)
	macd := make([]float64, len(closes))
	for t := range macd {
		macd[t] = fast[t] - slow[t]
	}
	signal := rolling.EMA(macd, 9)

	out := make([]float64, len(closes))
	for t := range out {
		out[t] = macd[t] - signal[t]
	}
	return out
}

// bollingerWidth is the relative band width (upper minus lower over the
// middle band) with 2-sigma bands.
func bollingerWidth(closes []float64, period int) []float64 {
	mid := rolling.SMA(closes, period)
	std := rolling.RollingStd(closes, period)

	out := make([]float64, len(closes))
	for t := range out {
		if math.IsNaN(mid[t]) || math.IsNaN(std[t]) || mid[t] == 0 {
			out[t] = math.NaN()
			continue
		}
		out[t] = 4 * std[t] / mid[t]
	}
	return out
}

// obvColumn accumulates signed volume from a zero seed. Bars with a missing
// close delta or volume carry the previous total unchanged.
func obvColumn(closes, volumes []float64) []float64 {
	out := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		out[i] = out[i-1]
		d := closes[i] - closes[i-1]
		if math.IsNaN(d) || math.IsNaN(volumes[i]) {
			continue
		}
		switch {
		case d > 0:
			out[i] += volumes[i]
		case d < 0:
			out[i] -= volumes[i]
		}
	}
	return out
}

// vwapColumn is the cumulative volume-weighted typical price. Bars with
// missing inputs contribute nothing.
func vwapColumn(typical, volumes []float64) []float64 {
	out := make([]float64, len(typical))
	var cumTPV, cumV float64
	for t := range typical {
		if !math.IsNaN(typical[t]) && !math.IsNaN(volumes[t]) {
			cumTPV += typical[t] * volumes[t]
			cumV += volumes[t]
		}
		if cumV == 0 {
			out[t] = math.NaN()
			continue
		}
		out[t] = cumTPV / cumV
	}
	return out
}

// rocColumn is the percentage rate of change over the lookback period.
func rocColumn(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	for t := range out {
		if t < period {
			out[t] = math.NaN()
			continue
		}
		base := closes[t-period]
		if math.IsNaN(base) || math.IsNaN(closes[t]) || base == 0 {
			out[t] = math.NaN()
			continue
		}
		out[t] = (closes[t] - base) / base * 100
	}
	return out
}

// stochasticK places the close inside the rolling high-low channel, scaled
// to 0..100. A flat channel has no defined position.
func stochasticK(highs, lows, closes []float64, period int) []float64 {
	hh := rolling.Max(highs, period)
	ll := rolling.Min(lows, period)

	out := make([]float64, len(closes))
	for t := range out {
		span := hh[t] - ll[t]
		if math.IsNaN(span) || math.IsNaN(closes[t]) || span == 0 {
			out[t] = math.NaN()
			continue
		}
		out[t] = 100 * (closes[t] - ll[t]) / span
	}
	return out
}

// williamsR is the inverted channel position, scaled to -100..0.
func williamsR(highs, lows, closes []float64, period int) []float64 {
	hh := rolling.Max(highs, period)
	ll := rolling.Min(lows, period)

	out := make([]float64, len(closes))
	for t := range out {
		span := hh[t] - ll[t]
		if math.IsNaN(span) || math.IsNaN(closes[t]) || span == 0 {
			out[t] = math.NaN()
			continue
		}
		out[t] = -100 * (hh[t] - closes[t]) / span
	}
	return out
}

// momentumColumn is the absolute close change over the lookback period.
func momentumColumn(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	for t := range out {
		if t < period {
			out[t] = math.NaN()
			continue
		}
		out[t] = closes[t] - closes[t-period]
	}
	return out
}

// volumeOscillator is the percentage spread between a fast and a slow volume
// SMA.
func volumeOscillator(volumes []float64, fast, slow int) []float64 {
	f := rolling.SMA(volumes, fast)
	s := rolling.SMA(volumes, slow)

	out := make([]float64, len(volumes))
	for t := range out {
		if math.IsNaN(f[t]) || math.IsNaN(s[t]) || s[t] == 0 {
			out[t] = math.NaN()
			continue
		}
		out[t] = (f[t] - s[t]) / s[t] * 100
	}
	return out
}

// cmoColumn is the Chande Momentum Oscillator: net directional movement over
// total movement, scaled to -100..100. A windowful of unchanged closes has
// no movement to grade.
func cmoColumn(closes []float64, period int) []float64 {
	gains, losses := gainLoss(closes)
	up := rolling.RollingSum(gains, period)
	down := rolling.RollingSum(losses, period)

	out := make([]float64, len(closes))
	for t := range out {
		total := up[t] + down[t]
		if math.IsNaN(total) || total == 0 {
			out[t] = math.NaN()
			continue
		}
		out[t] = 100 * (up[t] - down[t]) / total
	}
	return out
}

// channelBreakout flags closes breaking the rolling 20-bar high-low channel:
// +1 above the channel high, -1 below the channel low, 0 inside. The window
// includes the current bar.
func channelBreakout(highs, lows, closes []float64, period int) []float64 {
	hh := rolling.Max(highs, period)
	ll := rolling.Min(lows, period)

	out := make([]float64, len(closes))
	for t := range out {
		if math.IsNaN(hh[t]) || math.IsNaN(ll[t]) || math.IsNaN(closes[t]) {
			out[t] = math.NaN()
			continue
		}
		switch {
		case closes[t] > hh[t]:
			out[t] = 1
		case closes[t] < ll[t]:
			out[t] = -1
		default:
			out[t] = 0
		}
	}
	return out
}
