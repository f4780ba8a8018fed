package domain

import (
	"math"
	"time"
)

// AnalysisGroup identifies one of the four metric formula groups.
type AnalysisGroup string

const (
	GroupFundamental  AnalysisGroup = "fundamental"
	GroupTechnical    AnalysisGroup = "technical"
	GroupQuantitative AnalysisGroup = "quantitative"
	GroupPeer         AnalysisGroup = "peer"
)

// Status marks the computability of a single metric. A non-ok status always
// carries a NaN value: "the metric is zero" and "the metric is not
// computable" must stay distinguishable downstream.
type Status string

const (
	// StatusOK means the metric was computed.
	StatusOK Status = "ok"

	// StatusInsufficientHistory means the metric's required window exceeds
	// the available history. No partial-window fallback is ever applied.
	StatusInsufficientHistory Status = "insufficient_history"

	// StatusUndefinedDenominator means a denominator evaluated to exactly
	// zero. The value is never coerced to 0 or Inf.
	StatusUndefinedDenominator Status = "undefined_denominator"

	// StatusMissingInput means a required input column (e.g. taker buy
	// volume, a peer series) is absent from the supplied data.
	StatusMissingInput Status = "missing_input"
)

// MetricValue is one computed metric: a value plus its computability status.
type MetricValue struct {
	Value  float64
	Status Status
}

// OK wraps a computed value.
func OK(v float64) MetricValue {
	return MetricValue{Value: v, Status: StatusOK}
}

// Undefined returns a NaN value with the given failure status.
func Undefined(s Status) MetricValue {
	return MetricValue{Value: math.NaN(), Status: s}
}

// Defined reports whether the metric was computed.
func (v MetricValue) Defined() bool {
	return v.Status == StatusOK
}

// MetricEntry is a named metric inside a group result.
type MetricEntry struct {
	Name string
	MetricValue
}

// Constant records one static parameter actually used by a group, for
// reproducibility of the run.
type Constant struct {
	Name  string
	Value float64
}

// GroupResult is the output of one formula group for one asset: the ordered
// metric entries (catalogue order), the as-of bar timestamp, and the
// constants the group consumed.
type GroupResult struct {
	Group     AnalysisGroup
	Symbol    string
	AsOf      time.Time
	Entries   []MetricEntry
	Constants []Constant
}

// Entry returns the entry with the given name, or a zero entry if absent.
func (r *GroupResult) Entry(name string) (MetricEntry, bool) {
	for _, e := range r.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return MetricEntry{}, false
}

// IndicatorColumn is one technical indicator evaluated at every bar.
// Values is aligned to the series bars; entries before the indicator's first
// eligible index are NaN.
type IndicatorColumn struct {
	Name   string
	Values []float64
}

// TechnicalResult extends a GroupResult with the per-bar indicator columns.
// The scalar entries hold each indicator's value at the as-of bar.
type TechnicalResult struct {
	GroupResult
	Timestamps []time.Time
	Columns    []IndicatorColumn
}

// MetricRow is one scalar metric observation flattened for persistence.
type MetricRow struct {
	Symbol string
	Group  AnalysisGroup
	Metric string
	Value  float64
	Status Status
	AsOf   time.Time
}

// Rows flattens the group result into persistence rows, catalogue order
// preserved.
func (r *GroupResult) Rows() []MetricRow {
	rows := make([]MetricRow, len(r.Entries))
	for i, e := range r.Entries {
		rows[i] = MetricRow{
			Symbol: r.Symbol,
			Group:  r.Group,
			Metric: e.Name,
			Value:  e.Value,
			Status: e.Status,
			AsOf:   r.AsOf,
		}
	}
	return rows
}

// PeerAsset is one asset in a peer comparison: its bars and its own static
// parameters (supply differs per asset).
type PeerAsset struct {
	Symbol string
	Bars   []Bar
	Params StaticParameters
}

// PeerSet is the ordered input to a peer analysis. Output ordering follows
// the input asset order regardless of how the computation is executed.
type PeerSet struct {
	Assets []PeerAsset
}

// PeerFailure records one asset whose series failed structural validation.
// A failed asset never aborts the remaining assets.
type PeerFailure struct {
	Symbol string
	Err    error
}

// PeerResult holds per-asset group results in input order plus any per-asset
// structural failures.
type PeerResult struct {
	AsOf     time.Time
	Symbols  []string // input order, failed assets excluded
	Results  map[string]*GroupResult
	Failures []PeerFailure
}
