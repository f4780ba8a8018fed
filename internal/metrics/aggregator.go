package metrics

import (
	"github.com/TheNeuroneLab/CryptoBot/internal/domain"
	"github.com/TheNeuroneLab/CryptoBot/internal/series"
)

// Aggregator runs the formula groups against a series and assembles the
// group result records. It is stateless apart from the static parameters, so
// one Aggregator is safe to reuse across assets with the same parameters and
// repeated runs over the same bars produce identical results.
type Aggregator struct {
	params domain.StaticParameters
}

// NewAggregator builds an Aggregator with the given static parameters.
func NewAggregator(params domain.StaticParameters) *Aggregator {
	return &Aggregator{params: params}
}

// Fundamental evaluates the fundamental catalogue at the last bar.
func (a *Aggregator) Fundamental(s *series.Series) *domain.GroupResult {
	return a.FundamentalAt(s, s.Len()-1)
}

// FundamentalAt evaluates the fundamental catalogue on bars [0, asof].
func (a *Aggregator) FundamentalAt(s *series.Series, asof int) *domain.GroupResult {
	return &domain.GroupResult{
		Group:   domain.GroupFundamental,
		Symbol:  s.Symbol(),
		AsOf:    s.Timestamp(asof),
		Entries: computeFundamental(s, a.params, asof),
		Constants: []domain.Constant{
			{Name: "CirculatingSupply", Value: a.params.CirculatingSupply},
			{Name: "UtilityGrowthRate", Value: a.params.UtilityGrowthRate},
			{Name: "UtilityDiscountRate", Value: a.params.UtilityDiscountRate},
			{Name: "RegulatoryHaircut", Value: a.params.RegulatoryHaircut},
			{Name: "ProjectionYears", Value: float64(a.params.ProjectionYears)},
		},
	}
}

// Technical evaluates the indicator columns at the last bar.
func (a *Aggregator) Technical(s *series.Series) *domain.TechnicalResult {
	return a.TechnicalAt(s, s.Len()-1)
}

// TechnicalAt evaluates every indicator column on bars [0, asof]. The scalar
// entries hold each indicator's as-of value; the columns carry one value per
// bar for the serialization contract.
func (a *Aggregator) TechnicalAt(s *series.Series, asof int) *domain.TechnicalResult {
	ents, cols := computeTechnical(s, asof)
	return &domain.TechnicalResult{
		GroupResult: domain.GroupResult{
			Group:   domain.GroupTechnical,
			Symbol:  s.Symbol(),
			AsOf:    s.Timestamp(asof),
			Entries: ents,
		},
		Timestamps: s.Timestamps()[:asof+1],
		Columns:    cols,
	}
}

// Quantitative evaluates the quantitative catalogue at the last bar.
func (a *Aggregator) Quantitative(s *series.Series) *domain.GroupResult {
	return a.QuantitativeAt(s, s.Len()-1)
}

// QuantitativeAt evaluates the quantitative catalogue on bars [0, asof].
func (a *Aggregator) QuantitativeAt(s *series.Series, asof int) *domain.GroupResult {
	return &domain.GroupResult{
		Group:   domain.GroupQuantitative,
		Symbol:  s.Symbol(),
		AsOf:    s.Timestamp(asof),
		Entries: computeQuantitative(s, a.params, asof),
		Constants: []domain.Constant{
			{Name: "CirculatingSupply", Value: a.params.CirculatingSupply},
			{Name: "StakingAPY", Value: a.params.StakingAPY},
			{Name: "RiskFreeRate", Value: a.params.RiskFreeRate},
			{Name: "Beta", Value: a.params.Beta},
			{Name: "MarketRiskPremium", Value: a.params.MarketRiskPremium},
			{Name: "UtilityGrowthRate", Value: a.params.UtilityGrowthRate},
			{Name: "UtilityDiscountRate", Value: a.params.UtilityDiscountRate},
			{Name: "PriceGrowthRate", Value: a.params.PriceGrowthRate},
			{Name: "PriceDiscountRate", Value: a.params.PriceDiscountRate},
			{Name: "RegulatoryHaircut", Value: a.params.RegulatoryHaircut},
			{Name: "ProjectionYears", Value: float64(a.params.ProjectionYears)},
		},
	}
}

// Peer evaluates the peer catalogue for every asset in the set. Each asset
// carries its own parameters inside the set; the aggregator's own parameters
// are not consulted.
func (a *Aggregator) Peer(ps domain.PeerSet) *domain.PeerResult {
	return computePeer(ps)
}
