package reporting

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGenerator_WritesExpectedFiles(t *testing.T) {
	dir := t.TempDir()
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	gen := NewGenerator(dir).WithClock(func() time.Time { return fixed })

	report := &Report{
		Symbol:      "AAVEUSDT",
		Fundamental: scalarResult(),
	}
	if err := gen.Write(report); err != nil {
		t.Fatalf("write: %v", err)
	}

	csvPath := filepath.Join(dir, "aave_fundamental_metrics.csv")
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("expected CSV at %s: %v", csvPath, err)
	}
	if !strings.HasPrefix(string(data), "Metric,Value,Status\n") {
		t.Errorf("unexpected CSV content %q", string(data))
	}

	md, err := os.ReadFile(filepath.Join(dir, "aave_report.md"))
	if err != nil {
		t.Fatalf("expected markdown report: %v", err)
	}
	if !strings.Contains(string(md), "Generated: 2024-06-01T12:00:00Z") {
		t.Errorf("report must use the injected clock, got %q", string(md))
	}
	if !strings.Contains(string(md), "| Mayer Multiple | NaN | insufficient_history |") {
		t.Errorf("report must surface statuses, got %q", string(md))
	}
}

func TestGenerator_SkipsAbsentGroups(t *testing.T) {
	dir := t.TempDir()
	gen := NewGenerator(dir)

	if err := gen.Write(&Report{Symbol: "SOLUSDT"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "sol_report.md" {
		t.Errorf("expected only the markdown report, got %v", entries)
	}
}
