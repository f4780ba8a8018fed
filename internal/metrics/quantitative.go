package metrics

import (
	"math"

	"github.com/TheNeuroneLab/CryptoBot/internal/domain"
	"github.com/TheNeuroneLab/CryptoBot/internal/rolling"
	"github.com/TheNeuroneLab/CryptoBot/internal/series"
)

// recentVolumeWindow is the lookback of the 30-day Price/Volume variant.
const recentVolumeWindow = 30

// QuantitativeNames is the quantitative catalogue in serialization order.
var QuantitativeNames = []string{
	"NVT Ratio",
	"Price/Volume Ratio",
	"Volume CAGR",
	"Price Momentum",
	"Mayer Multiple",
	"Discounted Expected Utility Value",
	"Price to Volatility Cost",
	"Regulatory Discount",
	"Volume-to-Price Ratio",
	"Sharpe Ratio",
	"Current Utility Value",
	"Volume Composition Buy",
	"Volume Composition Sell",
	"Volatility Reduction",
	"Risk-Adjusted Volume Discount",
	"Trading Volume",
	"Volume Volatility",
	"Price Correlation",
	"Price DCF Intrinsic Value",
	"Price DCF Valuation Ratio",
	"Price/Volume Ratio 30-Day",
}

// computeQuantitative evaluates the quantitative catalogue on bars [0, asof].
// Metrics shared with the fundamental group reuse the same formula functions
// with this group's constants.
func computeQuantitative(s *series.Series, p domain.StaticParameters, asof int) []domain.MetricEntry {
	buy, sell := volumeComposition(s, asof)
	intrinsic, valuation := priceDCF(s, p, asof)

	values := []domain.MetricValue{
		nvtRatio(s, p, asof),
		priceVolumeRatio(s, asof),
		volumeCAGR(s, asof),
		priceMomentum(s, asof),
		mayerMultiple(s, asof),
		deuv(s, p, p.UtilityGrowthRate, p.UtilityDiscountRate, asof),
		priceToVolatilityCost(s, asof),
		regulatoryDiscount(s, p, asof),
		volumeToPriceRatio(s, asof),
		sharpeRatio(s, p.StakingAPY, p.RiskFreeRate, asof),
		currentUtilityValue(s, p, asof),
		buy,
		sell,
		volatilityReduction(s, asof),
		riskAdjustedVolumeDiscount(s, p, asof),
		tradingVolume(s, asof),
		volumeVolatility(s, asof),
		priceCorrelation(s, asof),
		intrinsic,
		valuation,
		priceVolumeRatio30(s, asof),
	}
	return entries(QuantitativeNames, values)
}

// sharpeRatio annualizes the mean daily excess return (price return plus
// daily staking yield minus daily risk-free rate) over the daily return
// standard deviation.
func sharpeRatio(s *series.Series, stakingAPY, riskFree float64, asof int) domain.MetricValue {
	rets := s.Returns()[:asof+1]
	std := rolling.Std(rets)
	if math.IsNaN(std) {
		return domain.Undefined(domain.StatusInsufficientHistory)
	}
	if std == 0 {
		return domain.Undefined(domain.StatusUndefinedDenominator)
	}
	excess := rolling.Mean(rets) + stakingAPY/365 - riskFree/365
	return domain.OK(excess / std * math.Sqrt(365))
}

// currentUtilityValue is market cap over average quote volume, the
// no-discounting counterpart of DEUV.
func currentUtilityValue(s *series.Series, p domain.StaticParameters, asof int) domain.MetricValue {
	return ratio(s.Close(asof)*p.CirculatingSupply, rolling.Mean(s.QuoteVolumes()[:asof+1]))
}

// volumeComposition splits total quote volume into its taker-buy share and
// the complement. Both are undefined when the venue supplied no taker data
// for any bar in the window.
func volumeComposition(s *series.Series, asof int) (buy, sell domain.MetricValue) {
	taker := s.TakerBuyQuotes()[:asof+1]
	if !hasFinite(taker) {
		missing := domain.Undefined(domain.StatusMissingInput)
		return missing, missing
	}
	buy = ratio(rolling.Sum(taker), rolling.Sum(s.QuoteVolumes()[:asof+1]))
	if !buy.Defined() {
		return buy, buy
	}
	return buy, domain.OK(1 - buy.Value)
}

// volatilityReduction measures how much annualized volatility fell from the
// first half of the window to the second, floored at 0 so rising volatility
// reads as "no reduction" rather than a negative reduction.
func volatilityReduction(s *series.Series, asof int) domain.MetricValue {
	first, second := rolling.SplitHalves(s.Returns()[1 : asof+1])
	early := rolling.AnnualizedVol(first)
	late := rolling.AnnualizedVol(second)
	if math.IsNaN(early) || math.IsNaN(late) {
		return domain.Undefined(domain.StatusInsufficientHistory)
	}
	if early == 0 {
		return domain.Undefined(domain.StatusUndefinedDenominator)
	}
	return domain.OK(math.Max(0, (early-late)/early))
}

// riskAdjustedVolumeDiscount discounts average quote volume by a CAPM-style
// rate scaled with annualized volatility, reported as the ratio of the
// discounted to the raw average.
func riskAdjustedVolumeDiscount(s *series.Series, p domain.StaticParameters, asof int) domain.MetricValue {
	vol := rolling.AnnualizedVol(s.Returns()[:asof+1])
	if math.IsNaN(vol) {
		return domain.Undefined(domain.StatusInsufficientHistory)
	}
	avg := rolling.Mean(s.QuoteVolumes()[:asof+1])
	discountRate := p.RiskFreeRate + p.Beta*p.MarketRiskPremium
	adjusted := avg / (1 + discountRate*vol)
	return ratio(adjusted, avg)
}

// tradingVolume is the mean quote volume, passed through as its own metric.
func tradingVolume(s *series.Series, asof int) domain.MetricValue {
	avg := rolling.Mean(s.QuoteVolumes()[:asof+1])
	if math.IsNaN(avg) {
		return domain.Undefined(domain.StatusMissingInput)
	}
	return domain.OK(avg)
}

// volumeVolatility is the coefficient of variation of quote volume.
func volumeVolatility(s *series.Series, asof int) domain.MetricValue {
	qv := s.QuoteVolumes()[:asof+1]
	std := rolling.Std(qv)
	if math.IsNaN(std) {
		return domain.Undefined(domain.StatusInsufficientHistory)
	}
	return ratio(std, rolling.Mean(qv))
}

// priceCorrelation correlates daily returns against the market proxy. The
// proxy is the asset's own return series, so the value is the degenerate
// self-correlation of exactly 1.
func priceCorrelation(s *series.Series, asof int) domain.MetricValue {
	rets := s.Returns()[:asof+1]
	c := rolling.Correlation(rets, rets)
	if math.IsNaN(c) {
		return domain.Undefined(domain.StatusInsufficientHistory)
	}
	return domain.OK(c)
}

// priceDCF projects the current price over the horizon and discounts it
// back, producing the intrinsic value and its ratio to the current price.
func priceDCF(s *series.Series, p domain.StaticParameters, asof int) (intrinsic, valuation domain.MetricValue) {
	c := s.Close(asof)
	if math.IsNaN(c) {
		missing := domain.Undefined(domain.StatusMissingInput)
		return missing, missing
	}
	v := discountedSum(c, p.PriceGrowthRate, p.PriceDiscountRate, p.ProjectionYears)
	return domain.OK(v), ratio(v, c)
}

// priceVolumeRatio30 is current price over mean quote volume of the last 30
// bars. Undefined with fewer than 30 bars.
func priceVolumeRatio30(s *series.Series, asof int) domain.MetricValue {
	if asof+1 < recentVolumeWindow {
		return domain.Undefined(domain.StatusInsufficientHistory)
	}
	recent := series.Window(s.QuoteVolumes()[:asof+1], recentVolumeWindow, asof)
	return ratio(s.Close(asof), rolling.Mean(recent))
}

func hasFinite(xs []float64) bool {
	for _, x := range xs {
		if !math.IsNaN(x) {
			return true
		}
	}
	return false
}
