package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/TheNeuroneLab/CryptoBot/internal/metrics"
)

// Generator writes the CSV files and the markdown report for one run.
type Generator struct {
	outDir string
	now    func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a generator writing into outDir.
func NewGenerator(outDir string) *Generator {
	return &Generator{
		outDir: outDir,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Write renders every present result group to its CSV file plus the markdown
// summary. File names follow the <asset>_<group>_metrics.csv convention,
// e.g. aave_fundamental_metrics.csv.
func (g *Generator) Write(report *Report) error {
	if err := os.MkdirAll(g.outDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	report.GeneratedAt = g.now()
	asset := strings.ToLower(assetColumn(report.Symbol))

	if report.Fundamental != nil {
		if err := g.writeFile(asset+"_fundamental_metrics.csv", RenderGroupCSV(report.Fundamental)); err != nil {
			return err
		}
	}
	if report.Quantitative != nil {
		if err := g.writeFile(asset+"_quantitative_metrics.csv", RenderGroupCSV(report.Quantitative)); err != nil {
			return err
		}
	}
	if report.Technical != nil {
		if err := g.writeFile(asset+"_technical_metrics.csv", RenderTechnicalCSV(report.Technical)); err != nil {
			return err
		}
	}
	if report.Peer != nil {
		if err := g.writeFile("peer_metrics.csv", RenderPeerCSV(report.Peer, metrics.PeerNames)); err != nil {
			return err
		}
	}

	return g.writeFile(asset+"_report.md", report.RenderMarkdown())
}

func (g *Generator) writeFile(name, content string) error {
	path := filepath.Join(g.outDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
