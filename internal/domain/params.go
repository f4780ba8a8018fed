package domain

// StaticParameters are per-analysis constants that cannot be derived from the
// price series: supply, yield and risk assumptions. They are supplied by the
// caller once per run and never mutated.
//
// Groups deliberately carry their own rate assumptions. DEUV uses the utility
// growth/discount pair in both the fundamental and quantitative groups
// (intentionally identical values, separate call sites), Price DCF uses its
// own pair, and the peer Sharpe ratio uses PeerStakingAPY rather than
// StakingAPY. These must not be unified.
type StaticParameters struct {
	CirculatingSupply float64

	StakingAPY     float64 // quantitative Sharpe ratio
	PeerStakingAPY float64 // peer Sharpe ratio
	RiskFreeRate   float64 // annualized

	Beta              float64
	MarketRiskPremium float64

	UtilityGrowthRate   float64 // DEUV projection growth
	UtilityDiscountRate float64 // DEUV discounting
	PriceGrowthRate     float64 // Price DCF projection growth
	PriceDiscountRate   float64 // Price DCF discounting

	RegulatoryHaircut float64
	ProjectionYears   int
}

// DefaultParameters returns the reference rate assumptions for a given
// circulating supply.
func DefaultParameters(circulatingSupply float64) StaticParameters {
	return StaticParameters{
		CirculatingSupply:   circulatingSupply,
		StakingAPY:          0.06,
		PeerStakingAPY:      0.05,
		RiskFreeRate:        0.025,
		Beta:                1.4,
		MarketRiskPremium:   0.06,
		UtilityGrowthRate:   0.08,
		UtilityDiscountRate: 0.12,
		PriceGrowthRate:     0.10,
		PriceDiscountRate:   0.15,
		RegulatoryHaircut:   0.20,
		ProjectionYears:     5,
	}
}
