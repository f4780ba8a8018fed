// Package rolling provides the windowed statistics every metric group is
// built from. All functions are pure. "Undefined" is always NaN: a trailing
// window shorter than n never falls back to a partial window, which would
// silently understate early-period averages and volatility.
package rolling

import "math"

// daysPerYear annualizes daily statistics.
const daysPerYear = 365

// Mean returns the arithmetic mean of the finite elements of xs.
// NaN when no finite element exists.
func Mean(xs []float64) float64 {
	sum, n := 0.0, 0
	for _, x := range xs {
		if !math.IsNaN(x) {
			sum += x
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// Sum returns the sum of the finite elements of xs. NaN when none exist.
func Sum(xs []float64) float64 {
	sum, n := 0.0, 0
	for _, x := range xs {
		if !math.IsNaN(x) {
			sum += x
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum
}

// Std returns the sample standard deviation (n-1 denominator) of the finite
// elements of xs. NaN with fewer than 2 finite elements.
func Std(xs []float64) float64 {
	mean := Mean(xs)
	if math.IsNaN(mean) {
		return math.NaN()
	}
	sumSq, n := 0.0, 0
	for _, x := range xs {
		if !math.IsNaN(x) {
			d := x - mean
			sumSq += d * d
			n++
		}
	}
	if n < 2 {
		return math.NaN()
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// AnnualizedVol annualizes the sample standard deviation of daily returns.
func AnnualizedVol(returns []float64) float64 {
	return Std(returns) * math.Sqrt(daysPerYear)
}

// SMA returns the trailing simple moving average column: out[t] is the mean
// of xs[t-n+1..t], NaN before index n-1 and whenever the window contains a
// NaN element.
func SMA(xs []float64, n int) []float64 {
	return rollingApply(xs, n, func(w []float64) float64 {
		sum := 0.0
		for _, x := range w {
			sum += x
		}
		return sum / float64(len(w))
	})
}

// RollingSum returns the trailing window sum column with SMA availability
// rules.
func RollingSum(xs []float64, n int) []float64 {
	return rollingApply(xs, n, func(w []float64) float64 {
		sum := 0.0
		for _, x := range w {
			sum += x
		}
		return sum
	})
}

// RollingStd returns the trailing sample standard deviation column with SMA
// availability rules.
func RollingStd(xs []float64, n int) []float64 {
	return rollingApply(xs, n, func(w []float64) float64 {
		mean := 0.0
		for _, x := range w {
			mean += x
		}
		mean /= float64(len(w))
		sumSq := 0.0
		for _, x := range w {
			d := x - mean
			sumSq += d * d
		}
		return math.Sqrt(sumSq / float64(len(w)-1))
	})
}

// Min returns the trailing window minimum column.
func Min(xs []float64, n int) []float64 {
	return rollingApply(xs, n, func(w []float64) float64 {
		m := w[0]
		for _, x := range w[1:] {
			if x < m {
				m = x
			}
		}
		return m
	})
}

// Max returns the trailing window maximum column.
func Max(xs []float64, n int) []float64 {
	return rollingApply(xs, n, func(w []float64) float64 {
		m := w[0]
		for _, x := range w[1:] {
			if x > m {
				m = x
			}
		}
		return m
	})
}

// rollingApply evaluates f on each full trailing window of n elements.
// Windows containing NaN yield NaN.
func rollingApply(xs []float64, n int, f func([]float64) float64) []float64 {
	out := make([]float64, len(xs))
	for t := range xs {
		if t < n-1 {
			out[t] = math.NaN()
			continue
		}
		w := xs[t-n+1 : t+1]
		if hasNaN(w) {
			out[t] = math.NaN()
			continue
		}
		out[t] = f(w)
	}
	return out
}

// EMA returns the recursive exponential moving average column with
// k = 2/(n+1), seeded with the simple mean of the first n finite values at
// the first eligible index and NaN before it. Leading NaNs are skipped so
// the function also works on derived columns such as the MACD line.
func EMA(xs []float64, n int) []float64 {
	out := make([]float64, len(xs))
	for i := range out {
		out[i] = math.NaN()
	}

	start := 0
	for start < len(xs) && math.IsNaN(xs[start]) {
		start++
	}
	seedAt := start + n - 1
	if seedAt >= len(xs) {
		return out
	}

	seed := 0.0
	for i := start; i <= seedAt; i++ {
		seed += xs[i]
	}
	if math.IsNaN(seed) {
		return out
	}
	out[seedAt] = seed / float64(n)

	k := 2.0 / float64(n+1)
	for t := seedAt + 1; t < len(xs); t++ {
		out[t] = xs[t]*k + out[t-1]*(1-k)
	}
	return out
}

// Correlation returns the Pearson correlation of a and b over pairwise
// finite elements. A series compared against itself is the degenerate
// self-correlation and is exactly 1 by definition rather than via the
// general formula, which would divide zero by zero on a constant series.
// NaN when fewer than 2 pairs exist or either side has zero variance.
func Correlation(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.NaN()
	}
	if len(a) > 0 && &a[0] == &b[0] {
		return 1
	}

	var sumA, sumB float64
	n := 0
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		sumA += a[i]
		sumB += b[i]
		n++
	}
	if n < 2 {
		return math.NaN()
	}
	meanA, meanB := sumA/float64(n), sumB/float64(n)

	var cov, varA, varB float64
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		da, db := a[i]-meanA, b[i]-meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(varA*varB)
}

// SplitHalves splits xs into its first and second half. An odd-length slice
// puts the extra element in the first half.
func SplitHalves(xs []float64) (first, second []float64) {
	mid := (len(xs) + 1) / 2
	return xs[:mid], xs[mid:]
}

func hasNaN(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) {
			return true
		}
	}
	return false
}
