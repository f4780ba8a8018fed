// Package metrics implements the four metric formula groups (fundamental,
// technical, quantitative, peer) over a validated price series. Formulas
// shared by several groups live here once and are called per group with that
// group's constants, so the same metric can never drift between groups.
package metrics

import (
	"math"

	"github.com/TheNeuroneLab/CryptoBot/internal/domain"
	"github.com/TheNeuroneLab/CryptoBot/internal/rolling"
	"github.com/TheNeuroneLab/CryptoBot/internal/series"
)

// mayerWindow is the moving-average window of the Mayer Multiple.
const mayerWindow = 200

// FundamentalNames is the fundamental catalogue in serialization order.
var FundamentalNames = []string{
	"NVT Ratio",
	"Price/Volume Ratio",
	"Market Cap Growth Rate",
	"Volume CAGR",
	"Liquidity Ratio",
	"Mayer Multiple",
	"Price Momentum",
	"Volume Momentum",
	"Volatility-Adjusted Market Cap",
	"Turnover Ratio",
	"Price Stability Ratio",
	"Volume-to-Price Ratio",
	"Discounted Expected Utility Value",
	"Price to Volatility Cost",
	"Regulatory Discount",
}

// computeFundamental evaluates the fundamental catalogue on bars [0, asof].
func computeFundamental(s *series.Series, p domain.StaticParameters, asof int) []domain.MetricEntry {
	values := []domain.MetricValue{
		nvtRatio(s, p, asof),
		priceVolumeRatio(s, asof),
		marketCapGrowth(s, p, asof),
		volumeCAGR(s, asof),
		liquidityRatio(s, p, asof),
		mayerMultiple(s, asof),
		priceMomentum(s, asof),
		volumeMomentum(s, asof),
		volatilityAdjustedMarketCap(s, p, asof),
		turnoverRatio(s, p, asof),
		priceStabilityRatio(s, asof),
		volumeToPriceRatio(s, asof),
		deuv(s, p, p.UtilityGrowthRate, p.UtilityDiscountRate, asof),
		priceToVolatilityCost(s, asof),
		regulatoryDiscount(s, p, asof),
	}
	return entries(FundamentalNames, values)
}

// nvtRatio is the mean over all bars of market cap / quote volume. A single
// zero-volume bar makes the whole mean undefined; bars with missing volume
// are skipped.
func nvtRatio(s *series.Series, p domain.StaticParameters, asof int) domain.MetricValue {
	sum, n := 0.0, 0
	for i := 0; i <= asof; i++ {
		qv := s.QuoteVolume(i)
		if math.IsNaN(qv) || math.IsNaN(s.Close(i)) {
			continue
		}
		if qv == 0 {
			return domain.Undefined(domain.StatusUndefinedDenominator)
		}
		sum += s.Close(i) * p.CirculatingSupply / qv
		n++
	}
	if n == 0 {
		return domain.Undefined(domain.StatusMissingInput)
	}
	return domain.OK(sum / float64(n))
}

// priceVolumeRatio is current price over average quote volume.
func priceVolumeRatio(s *series.Series, asof int) domain.MetricValue {
	return ratio(s.Close(asof), rolling.Mean(s.QuoteVolumes()[:asof+1]))
}

// marketCapGrowth is the CAGR of market cap from the first to the as-of bar
// over the elapsed calendar years.
func marketCapGrowth(s *series.Series, p domain.StaticParameters, asof int) domain.MetricValue {
	start := s.Close(0) * p.CirculatingSupply
	end := s.Close(asof) * p.CirculatingSupply
	return cagr(start, end, s.ElapsedYears(asof))
}

// volumeCAGR is the CAGR of quote volume from the first to the as-of bar.
func volumeCAGR(s *series.Series, asof int) domain.MetricValue {
	return cagr(s.QuoteVolume(0), s.QuoteVolume(asof), s.ElapsedYears(asof))
}

// liquidityRatio is average quote volume over current market cap.
func liquidityRatio(s *series.Series, p domain.StaticParameters, asof int) domain.MetricValue {
	return ratio(rolling.Mean(s.QuoteVolumes()[:asof+1]), s.Close(asof)*p.CirculatingSupply)
}

// mayerMultiple is current price over its 200-day simple moving average.
// Undefined with fewer than 200 bars.
func mayerMultiple(s *series.Series, asof int) domain.MetricValue {
	if asof+1 < mayerWindow {
		return domain.Undefined(domain.StatusInsufficientHistory)
	}
	sma := rolling.SMA(s.Closes()[:asof+1], mayerWindow)
	return ratio(s.Close(asof), sma[asof])
}

// priceMomentum is the relative price change over the whole window.
func priceMomentum(s *series.Series, asof int) domain.MetricValue {
	return ratio(s.Close(asof)-s.Close(0), s.Close(0))
}

// volumeMomentum compares mean quote volume in the second half of the window
// against the first half.
func volumeMomentum(s *series.Series, asof int) domain.MetricValue {
	first, second := rolling.SplitHalves(s.QuoteVolumes()[:asof+1])
	early, late := rolling.Mean(first), rolling.Mean(second)
	return ratio(late-early, early)
}

// volatilityAdjustedMarketCap discounts market cap by annualized volatility.
// A zero-volatility series is worth its full market cap.
func volatilityAdjustedMarketCap(s *series.Series, p domain.StaticParameters, asof int) domain.MetricValue {
	mcap := s.Close(asof) * p.CirculatingSupply
	if math.IsNaN(mcap) {
		return domain.Undefined(domain.StatusMissingInput)
	}
	vol := rolling.AnnualizedVol(s.Returns()[:asof+1])
	if math.IsNaN(vol) {
		return domain.Undefined(domain.StatusInsufficientHistory)
	}
	return domain.OK(mcap / (1 + vol))
}

// turnoverRatio is total quote volume over circulating supply.
func turnoverRatio(s *series.Series, p domain.StaticParameters, asof int) domain.MetricValue {
	return ratio(rolling.Sum(s.QuoteVolumes()[:asof+1]), p.CirculatingSupply)
}

// priceStabilityRatio is average price over annualized volatility.
func priceStabilityRatio(s *series.Series, asof int) domain.MetricValue {
	vol := rolling.AnnualizedVol(s.Returns()[:asof+1])
	if math.IsNaN(vol) {
		return domain.Undefined(domain.StatusInsufficientHistory)
	}
	return ratio(rolling.Mean(s.Closes()[:asof+1]), vol)
}

// volumeToPriceRatio is average quote volume over current price.
func volumeToPriceRatio(s *series.Series, asof int) domain.MetricValue {
	return ratio(rolling.Mean(s.QuoteVolumes()[:asof+1]), s.Close(asof))
}

// deuv is the Discounted Expected Utility Value: market cap over the
// discounted sum of projected quote volume. Both the fundamental and
// quantitative groups call this with their own growth/discount constants.
func deuv(s *series.Series, p domain.StaticParameters, growth, discount float64, asof int) domain.MetricValue {
	mcap := s.Close(asof) * p.CirculatingSupply
	current := rolling.Mean(s.QuoteVolumes()[:asof+1])
	return ratio(mcap, discountedSum(current, growth, discount, p.ProjectionYears))
}

// priceToVolatilityCost is current price over its volatility opportunity
// cost (price times annualized volatility).
func priceToVolatilityCost(s *series.Series, asof int) domain.MetricValue {
	vol := rolling.AnnualizedVol(s.Returns()[:asof+1])
	if math.IsNaN(vol) {
		return domain.Undefined(domain.StatusInsufficientHistory)
	}
	return ratio(s.Close(asof), s.Close(asof)*vol)
}

// regulatoryDiscount applies the regulatory haircut to the current price.
func regulatoryDiscount(s *series.Series, p domain.StaticParameters, asof int) domain.MetricValue {
	c := s.Close(asof)
	if math.IsNaN(c) {
		return domain.Undefined(domain.StatusMissingInput)
	}
	return domain.OK(c * (1 - p.RegulatoryHaircut))
}

// discountedSum projects base at the growth rate and discounts each year
// back, over the given horizon.
func discountedSum(base, growth, discount float64, years int) float64 {
	sum := 0.0
	for t := 1; t <= years; t++ {
		sum += base * math.Pow(1+growth, float64(t)) / math.Pow(1+discount, float64(t))
	}
	return sum
}

// ratio builds a metric value from a quotient, propagating the two
// computability failures instead of coercing to 0 or Inf.
func ratio(num, den float64) domain.MetricValue {
	switch {
	case math.IsNaN(num) || math.IsNaN(den):
		return domain.Undefined(domain.StatusMissingInput)
	case den == 0:
		return domain.Undefined(domain.StatusUndefinedDenominator)
	}
	return domain.OK(num / den)
}

// cagr is (end/start)^(1/years) - 1.
func cagr(start, end, years float64) domain.MetricValue {
	switch {
	case math.IsNaN(start) || math.IsNaN(end):
		return domain.Undefined(domain.StatusMissingInput)
	case start == 0 || years == 0:
		return domain.Undefined(domain.StatusUndefinedDenominator)
	}
	return domain.OK(math.Pow(end/start, 1/years) - 1)
}

// entries zips catalogue names with computed values.
func entries(names []string, values []domain.MetricValue) []domain.MetricEntry {
	out := make([]domain.MetricEntry, len(names))
	for i, name := range names {
		out[i] = domain.MetricEntry{Name: name, MetricValue: values[i]}
	}
	return out
}
