// Package series builds the validated, immutable price series the metric
// formulas consume. Derived per-bar columns (returns, true range, quote
// volume, typical price) are computed once at construction and memoized.
package series

import (
	"fmt"
	"math"
	"time"

	"github.com/TheNeuroneLab/CryptoBot/internal/domain"
)

// DataError is a structural defect in the input bars. It is fatal for the
// affected asset: no partial result is produced from an invalid series.
type DataError struct {
	Symbol string
	Reason string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("invalid series %s: %s", e.Symbol, e.Reason)
}

// hoursPerYear converts elapsed wall time to the 365-day year the CAGR
// formulas assume.
const hoursPerYear = 24 * 365

// Series is an ordered daily OHLCV series for one asset. Construction
// validates the bars; the series and its derived columns are read-only
// afterwards. Column accessors return the memoized backing slices and must
// not be mutated by callers.
type Series struct {
	symbol     string
	timestamps []time.Time

	opens          []float64
	highs          []float64
	lows           []float64
	closes         []float64
	volumes        []float64
	takerBuyQuotes []float64

	returns       []float64 // (C_t - C_{t-1}) / C_{t-1}; NaN at t=0
	trueRanges    []float64 // NaN at t=0
	quoteVolumes  []float64 // close * volume, the formulas' volume base
	typicalPrices []float64 // (H + L + C) / 3

	hasTakerData bool
}

// New validates raw bars and builds a Series. It fails with *DataError when
// there are fewer than 2 bars, timestamps are not strictly increasing, or a
// required field (O/H/L/C/V) is missing for more than half of the bars.
// Non-finite or negative price/volume values count as missing and are
// normalized to NaN.
func New(symbol string, bars []domain.Bar) (*Series, error) {
	if len(bars) < 2 {
		return nil, &DataError{Symbol: symbol, Reason: fmt.Sprintf("need at least 2 bars, got %d", len(bars))}
	}

	s := &Series{
		symbol:         symbol,
		timestamps:     make([]time.Time, len(bars)),
		opens:          make([]float64, len(bars)),
		highs:          make([]float64, len(bars)),
		lows:           make([]float64, len(bars)),
		closes:         make([]float64, len(bars)),
		volumes:        make([]float64, len(bars)),
		takerBuyQuotes: make([]float64, len(bars)),
	}

	missing := map[string]int{}
	for i, b := range bars {
		if i > 0 && !b.Timestamp.After(bars[i-1].Timestamp) {
			return nil, &DataError{Symbol: symbol, Reason: fmt.Sprintf(
				"timestamps not strictly increasing at index %d (%s after %s)",
				i, b.Timestamp.Format(time.RFC3339), bars[i-1].Timestamp.Format(time.RFC3339))}
		}
		s.timestamps[i] = b.Timestamp
		s.opens[i] = sanitize(b.Open, "open", missing)
		s.highs[i] = sanitize(b.High, "high", missing)
		s.lows[i] = sanitize(b.Low, "low", missing)
		s.closes[i] = sanitize(b.Close, "close", missing)
		s.volumes[i] = sanitize(b.Volume, "volume", missing)

		if b.HasTakerBuyQuote() && b.TakerBuyQuote >= 0 {
			s.takerBuyQuotes[i] = b.TakerBuyQuote
			s.hasTakerData = true
		} else {
			s.takerBuyQuotes[i] = math.NaN()
		}
	}

	for _, field := range []string{"open", "high", "low", "close", "volume"} {
		if missing[field]*2 > len(bars) {
			return nil, &DataError{Symbol: symbol, Reason: fmt.Sprintf(
				"%s missing for %d of %d bars", field, missing[field], len(bars))}
		}
	}

	s.derive()
	return s, nil
}

// sanitize normalizes invalid field values to NaN and counts them as missing.
func sanitize(v float64, field string, missing map[string]int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		missing[field]++
		return math.NaN()
	}
	return v
}

func (s *Series) derive() {
	n := len(s.closes)
	s.returns = make([]float64, n)
	s.trueRanges = make([]float64, n)
	s.quoteVolumes = make([]float64, n)
	s.typicalPrices = make([]float64, n)

	s.returns[0] = math.NaN()
	s.trueRanges[0] = math.NaN()

	for i := 0; i < n; i++ {
		s.quoteVolumes[i] = s.closes[i] * s.volumes[i]
		s.typicalPrices[i] = (s.highs[i] + s.lows[i] + s.closes[i]) / 3

		if i == 0 {
			continue
		}
		prev := s.closes[i-1]
		if prev == 0 {
			s.returns[i] = math.NaN()
		} else {
			s.returns[i] = (s.closes[i] - prev) / prev
		}
		s.trueRanges[i] = trueRange(s.highs[i], s.lows[i], prev)
	}
}

// trueRange is the largest of the three candidate spans against the previous
// close.
func trueRange(high, low, prevClose float64) float64 {
	return math.Max(high-low, math.Max(math.Abs(high-prevClose), math.Abs(low-prevClose)))
}

// Len returns the number of bars.
func (s *Series) Len() int { return len(s.closes) }

// Symbol returns the asset symbol.
func (s *Series) Symbol() string { return s.symbol }

// Timestamp returns the timestamp of bar i.
func (s *Series) Timestamp(i int) time.Time { return s.timestamps[i] }

// Timestamps returns all bar timestamps.
func (s *Series) Timestamps() []time.Time { return s.timestamps }

// Open returns the open of bar i.
func (s *Series) Open(i int) float64 { return s.opens[i] }

// High returns the high of bar i.
func (s *Series) High(i int) float64 { return s.highs[i] }

// Low returns the low of bar i.
func (s *Series) Low(i int) float64 { return s.lows[i] }

// Close returns the close of bar i.
func (s *Series) Close(i int) float64 { return s.closes[i] }

// Volume returns the base-asset volume of bar i.
func (s *Series) Volume(i int) float64 { return s.volumes[i] }

// QuoteVolume returns close*volume of bar i.
func (s *Series) QuoteVolume(i int) float64 { return s.quoteVolumes[i] }

// Return returns the daily return at bar i (NaN at i=0).
func (s *Series) Return(i int) float64 { return s.returns[i] }

// TrueRange returns the true range at bar i (NaN at i=0).
func (s *Series) TrueRange(i int) float64 { return s.trueRanges[i] }

// Highs returns the high column.
func (s *Series) Highs() []float64 { return s.highs }

// Lows returns the low column.
func (s *Series) Lows() []float64 { return s.lows }

// Closes returns the close column.
func (s *Series) Closes() []float64 { return s.closes }

// Volumes returns the base-asset volume column.
func (s *Series) Volumes() []float64 { return s.volumes }

// QuoteVolumes returns the derived close*volume column. Formulas use this
// derived notional rather than the venue-reported quote volume so results
// stay consistent across providers that omit the field.
func (s *Series) QuoteVolumes() []float64 { return s.quoteVolumes }

// Returns returns the daily return column (NaN at index 0).
func (s *Series) Returns() []float64 { return s.returns }

// TrueRanges returns the true range column (NaN at index 0).
func (s *Series) TrueRanges() []float64 { return s.trueRanges }

// TypicalPrices returns the (H+L+C)/3 column.
func (s *Series) TypicalPrices() []float64 { return s.typicalPrices }

// TakerBuyQuotes returns the taker buy quote volume column (NaN where the
// venue supplied no value).
func (s *Series) TakerBuyQuotes() []float64 { return s.takerBuyQuotes }

// HasTakerBuyData reports whether at least one bar carries taker buy volume.
func (s *Series) HasTakerBuyData() bool { return s.hasTakerData }

// ElapsedYears returns the calendar time between the first bar and the as-of
// bar, in 365-day years.
func (s *Series) ElapsedYears(asof int) float64 {
	return s.timestamps[asof].Sub(s.timestamps[0]).Hours() / hoursPerYear
}

// Window returns the trailing window of n elements of xs ending at t,
// clamped at the start of the slice.
func Window(xs []float64, n, t int) []float64 {
	start := t - n + 1
	if start < 0 {
		start = 0
	}
	return xs[start : t+1]
}
