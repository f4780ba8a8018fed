package metrics

import (
	"github.com/TheNeuroneLab/CryptoBot/internal/domain"
	"github.com/TheNeuroneLab/CryptoBot/internal/series"
)

// Speculative Signal thresholds.
const (
	speculativeNVT   = 50
	speculativeMayer = 2.4
)

// PeerNames is the peer catalogue in serialization order.
var PeerNames = []string{
	"NVT Ratio",
	"Sharpe Ratio",
	"Price/Volume Ratio",
	"Mayer Multiple",
	"Speculative Signal",
	"Price Stability Ratio",
	"RSI",
	"MACD Histogram",
}

// computePeer evaluates the peer catalogue for every asset in the set. Each
// asset uses its own static parameters and its own last bar as the as-of
// point. An asset whose bars fail structural validation is recorded as a
// failure and never aborts the remaining assets.
func computePeer(ps domain.PeerSet) *domain.PeerResult {
	out := &domain.PeerResult{
		Results: make(map[string]*domain.GroupResult, len(ps.Assets)),
	}
	for _, asset := range ps.Assets {
		s, err := series.New(asset.Symbol, asset.Bars)
		if err != nil {
			out.Failures = append(out.Failures, domain.PeerFailure{Symbol: asset.Symbol, Err: err})
			continue
		}
		r := peerAsset(s, asset.Params)
		out.Symbols = append(out.Symbols, asset.Symbol)
		out.Results[asset.Symbol] = r
		if r.AsOf.After(out.AsOf) {
			out.AsOf = r.AsOf
		}
	}
	return out
}

func peerAsset(s *series.Series, p domain.StaticParameters) *domain.GroupResult {
	asof := s.Len() - 1

	nvt := nvtRatio(s, p, asof)
	mayer := mayerMultiple(s, asof)
	ents, _ := computeTechnical(s, asof)

	values := []domain.MetricValue{
		nvt,
		sharpeRatio(s, p.PeerStakingAPY, p.RiskFreeRate, asof),
		priceVolumeRatio(s, asof),
		mayer,
		speculativeSignal(nvt, mayer),
		priceStabilityRatio(s, asof),
		technicalEntry(ents, "RSI-14"),
		technicalEntry(ents, "MACD Histogram"),
	}

	return &domain.GroupResult{
		Group:   domain.GroupPeer,
		Symbol:  s.Symbol(),
		AsOf:    s.Timestamp(asof),
		Entries: entries(PeerNames, values),
		Constants: []domain.Constant{
			{Name: "CirculatingSupply", Value: p.CirculatingSupply},
			{Name: "PeerStakingAPY", Value: p.PeerStakingAPY},
			{Name: "RiskFreeRate", Value: p.RiskFreeRate},
		},
	}
}

// speculativeSignal fires (1) when NVT exceeds 50 or the Mayer Multiple
// exceeds 2.4. It stays answerable as long as at least one input is defined:
// a defined non-firing input rules that trigger out on its own.
func speculativeSignal(nvt, mayer domain.MetricValue) domain.MetricValue {
	if nvt.Defined() && nvt.Value > speculativeNVT {
		return domain.OK(1)
	}
	if mayer.Defined() && mayer.Value > speculativeMayer {
		return domain.OK(1)
	}
	if !nvt.Defined() && !mayer.Defined() {
		return domain.Undefined(domain.StatusMissingInput)
	}
	return domain.OK(0)
}

func technicalEntry(ents []domain.MetricEntry, name string) domain.MetricValue {
	for _, e := range ents {
		if e.Name == name {
			return e.MetricValue
		}
	}
	return domain.Undefined(domain.StatusMissingInput)
}
