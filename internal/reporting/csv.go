// Package reporting renders computed metric results into the CSV and
// markdown formats downstream tooling consumes, and writes them to disk.
package reporting

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/TheNeuroneLab/CryptoBot/internal/domain"
)

// RenderGroupCSV renders a scalar group result: one row per metric in
// catalogue order. Undefined metrics keep a literal NaN cell next to their
// status so a zero can never be mistaken for "not computable".
func RenderGroupCSV(r *domain.GroupResult) string {
	var sb strings.Builder
	sb.WriteString("Metric,Value,Status\n")
	for _, e := range r.Entries {
		sb.WriteString(e.Name)
		sb.WriteByte(',')
		sb.WriteString(formatValue(e.Value))
		sb.WriteByte(',')
		sb.WriteString(string(e.Status))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// RenderTechnicalCSV renders the indicator columns: one row per bar,
// Timestamp plus the 15 indicator columns in catalogue order. Cells before
// an indicator's first eligible bar are NaN.
func RenderTechnicalCSV(r *domain.TechnicalResult) string {
	var sb strings.Builder
	sb.WriteString("Timestamp")
	for _, c := range r.Columns {
		sb.WriteByte(',')
		sb.WriteString(c.Name)
	}
	sb.WriteByte('\n')

	for i, ts := range r.Timestamps {
		sb.WriteString(ts.UTC().Format(time.RFC3339))
		for _, c := range r.Columns {
			sb.WriteByte(',')
			sb.WriteString(formatValue(c.Values[i]))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// RenderPeerCSV renders the peer comparison matrix: one row per metric, one
// column per asset in input order, quote suffix trimmed from the column
// headers. Failed assets are absent from the matrix.
func RenderPeerCSV(r *domain.PeerResult, names []string) string {
	var sb strings.Builder
	sb.WriteString("Metric")
	for _, sym := range r.Symbols {
		sb.WriteByte(',')
		sb.WriteString(assetColumn(sym))
	}
	sb.WriteByte('\n')

	for _, name := range names {
		sb.WriteString(name)
		for _, sym := range r.Symbols {
			sb.WriteByte(',')
			if e, ok := r.Results[sym].Entry(name); ok {
				sb.WriteString(formatValue(e.Value))
			} else {
				sb.WriteString("NaN")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// assetColumn trims the quote-currency suffix from a trading pair symbol.
func assetColumn(symbol string) string {
	return strings.TrimSuffix(symbol, "USDT")
}

// formatValue renders a metric value with full float precision; NaN is
// rendered literally.
func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
