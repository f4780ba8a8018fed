package rolling

import (
	"math"
	"testing"
)

func TestMean_SkipsNaN(t *testing.T) {
	got := Mean([]float64{1, math.NaN(), 3})
	if got != 2 {
		t.Errorf("expected mean 2, got %f", got)
	}
}

func TestMean_AllNaN(t *testing.T) {
	if got := Mean([]float64{math.NaN(), math.NaN()}); !math.IsNaN(got) {
		t.Errorf("expected NaN, got %f", got)
	}
}

func TestStd_SampleDenominator(t *testing.T) {
	// Sample std of {1,2,3,4} = sqrt(10/6/... ) → mean 2.5, sumSq 5, /3 → sqrt(5/3)
	got := Std([]float64{1, 2, 3, 4})
	want := math.Sqrt(5.0 / 3.0)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("expected %f, got %f", want, got)
	}
}

func TestStd_SingleFiniteValue(t *testing.T) {
	if got := Std([]float64{math.NaN(), 5}); !math.IsNaN(got) {
		t.Errorf("expected NaN for one finite value, got %f", got)
	}
}

func TestSMA_UndefinedBeforeWindowFills(t *testing.T) {
	out := SMA([]float64{1, 2, 3, 4, 5}, 3)
	if !math.IsNaN(out[0]) || !math.IsNaN(out[1]) {
		t.Errorf("expected NaN before index 2, got %v", out[:2])
	}
	if out[2] != 2 || out[3] != 3 || out[4] != 4 {
		t.Errorf("unexpected SMA values %v", out[2:])
	}
}

func TestSMA_NaNInWindowPoisonsOnlyThatWindow(t *testing.T) {
	out := SMA([]float64{1, math.NaN(), 3, 4, 5}, 2)
	if !math.IsNaN(out[1]) || !math.IsNaN(out[2]) {
		t.Errorf("windows touching the NaN must be NaN, got %v", out)
	}
	if out[3] != 3.5 || out[4] != 4.5 {
		t.Errorf("windows past the NaN must recover, got %v", out)
	}
}

func TestEMA_SeedsWithSimpleMean(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	out := EMA(xs, 3)
	if !math.IsNaN(out[0]) || !math.IsNaN(out[1]) {
		t.Errorf("expected NaN before seed, got %v", out[:2])
	}
	// Seed = mean(1,2,3) = 2; k = 2/4 = 0.5
	if out[2] != 2 {
		t.Errorf("expected seed 2, got %f", out[2])
	}
	if out[3] != 3 { // 4*0.5 + 2*0.5
		t.Errorf("expected 3, got %f", out[3])
	}
	if out[4] != 4 { // 5*0.5 + 3*0.5
		t.Errorf("expected 4, got %f", out[4])
	}
}

func TestEMA_SkipsLeadingNaN(t *testing.T) {
	xs := []float64{math.NaN(), math.NaN(), 1, 2, 3, 4}
	out := EMA(xs, 3)
	if !math.IsNaN(out[3]) {
		t.Errorf("expected NaN before shifted seed, got %f", out[3])
	}
	if out[4] != 2 {
		t.Errorf("expected seed 2 at shifted index, got %f", out[4])
	}
}

func TestCorrelation_SelfIsExactlyOne(t *testing.T) {
	// Constant series has zero variance; the general formula would divide
	// zero by zero, but self-correlation must still be exactly 1.
	xs := []float64{7, 7, 7, 7}
	if got := Correlation(xs, xs); got != 1 {
		t.Errorf("expected exactly 1, got %f", got)
	}
}

func TestCorrelation_PerfectInverse(t *testing.T) {
	a := []float64{1, 2, 3, 4}
	b := []float64{4, 3, 2, 1}
	if got := Correlation(a, b); math.Abs(got+1) > 1e-12 {
		t.Errorf("expected -1, got %f", got)
	}
}

func TestCorrelation_ZeroVarianceIsUndefined(t *testing.T) {
	a := []float64{1, 1, 1}
	b := []float64{1, 2, 3}
	if got := Correlation(a, b); !math.IsNaN(got) {
		t.Errorf("expected NaN for zero variance, got %f", got)
	}
}

func TestSplitHalves_OddLengthExtraGoesFirst(t *testing.T) {
	first, second := SplitHalves([]float64{1, 2, 3, 4, 5})
	if len(first) != 3 || len(second) != 2 {
		t.Errorf("expected 3/2 split, got %d/%d", len(first), len(second))
	}
}

func TestAnnualizedVol_ScalesBySqrt365(t *testing.T) {
	rets := []float64{0.01, -0.01, 0.02, -0.02}
	want := Std(rets) * math.Sqrt(365)
	if got := AnnualizedVol(rets); got != want {
		t.Errorf("expected %f, got %f", want, got)
	}
}

func TestMinMax_TrailingWindows(t *testing.T) {
	xs := []float64{3, 1, 4, 1, 5}
	lo := Min(xs, 3)
	hi := Max(xs, 3)
	if lo[4] != 1 || hi[4] != 5 {
		t.Errorf("expected min 1 max 5, got %f/%f", lo[4], hi[4])
	}
	if !math.IsNaN(lo[1]) || !math.IsNaN(hi[1]) {
		t.Errorf("expected NaN before window fills")
	}
}
