package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/TheNeuroneLab/CryptoBot/internal/domain"
)

// Report is the run summary rendered to markdown next to the CSV files.
type Report struct {
	GeneratedAt time.Time
	Symbol      string

	Fundamental  *domain.GroupResult
	Technical    *domain.TechnicalResult
	Quantitative *domain.GroupResult
	Peer         *domain.PeerResult
}

// RenderMarkdown renders the report: per-group tables with statuses, the
// constants each group consumed, and per-asset peer failures.
func (r *Report) RenderMarkdown() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Metric Report: %s\n\n", assetColumn(r.Symbol))
	fmt.Fprintf(&sb, "Generated: %s\n\n", r.GeneratedAt.UTC().Format(time.RFC3339))

	if r.Fundamental != nil {
		writeGroupSection(&sb, "Fundamental", r.Fundamental)
	}
	if r.Quantitative != nil {
		writeGroupSection(&sb, "Quantitative", r.Quantitative)
	}
	if r.Technical != nil {
		fmt.Fprintf(&sb, "## Technical (as of %s)\n\n", r.Technical.AsOf.UTC().Format("2006-01-02"))
		writeEntryTable(&sb, r.Technical.Entries)
	}
	if r.Peer != nil {
		writePeerSection(&sb, r.Peer)
	}

	return sb.String()
}

func writeGroupSection(sb *strings.Builder, title string, g *domain.GroupResult) {
	fmt.Fprintf(sb, "## %s (as of %s)\n\n", title, g.AsOf.UTC().Format("2006-01-02"))
	writeEntryTable(sb, g.Entries)

	if len(g.Constants) > 0 {
		sb.WriteString("Constants used:\n\n")
		for _, c := range g.Constants {
			fmt.Fprintf(sb, "- %s = %s\n", c.Name, formatValue(c.Value))
		}
		sb.WriteString("\n")
	}
}

func writeEntryTable(sb *strings.Builder, entries []domain.MetricEntry) {
	sb.WriteString("| Metric | Value | Status |\n")
	sb.WriteString("|---|---|---|\n")
	for _, e := range entries {
		fmt.Fprintf(sb, "| %s | %s | %s |\n", e.Name, formatValue(e.Value), e.Status)
	}
	sb.WriteString("\n")
}

func writePeerSection(sb *strings.Builder, p *domain.PeerResult) {
	sb.WriteString("## Peer Comparison\n\n")

	sb.WriteString("| Metric |")
	for _, sym := range p.Symbols {
		fmt.Fprintf(sb, " %s |", assetColumn(sym))
	}
	sb.WriteString("\n|---|")
	for range p.Symbols {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")

	if len(p.Symbols) > 0 {
		for _, e := range p.Results[p.Symbols[0]].Entries {
			fmt.Fprintf(sb, "| %s |", e.Name)
			for _, sym := range p.Symbols {
				if pe, ok := p.Results[sym].Entry(e.Name); ok {
					fmt.Fprintf(sb, " %s |", formatValue(pe.Value))
				} else {
					sb.WriteString(" NaN |")
				}
			}
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")

	if len(p.Failures) > 0 {
		sb.WriteString("Failed assets:\n\n")
		for _, f := range p.Failures {
			fmt.Fprintf(sb, "- %s: %v\n", f.Symbol, f.Err)
		}
		sb.WriteString("\n")
	}
}
