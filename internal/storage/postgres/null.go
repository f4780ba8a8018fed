package postgres

import "math"

// nullable maps a NaN field to SQL NULL.
func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// fromNullable maps SQL NULL back to NaN.
func fromNullable(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}
