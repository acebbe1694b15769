package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/bfbs-cli/internal/numeric"
	"github.com/KaramelBytes/bfbs-cli/internal/stats"
)

// MaxBaselineDigits is the most decimal digits a float64 result can share
// with the exact one.
const MaxBaselineDigits = 17

// Baseline compares a column's statistics with plain float64 arithmetic.
type Baseline struct {
	Mean           float64 `json:"mean" yaml:"mean"`
	Variance       float64 `json:"variance" yaml:"variance"`
	MeanDigits     int     `json:"mean_digits" yaml:"mean_digits"`
	VarianceDigits int     `json:"variance_digits" yaml:"variance_digits"`
}

func baselineFor(col *stats.Column, s stats.Summary) *Baseline {
	vals := col.Values()
	xs := make([]float64, len(vals))
	for i, v := range vals {
		xs[i] = v.Float64()
	}
	b := &Baseline{Mean: stat.Mean(xs, nil)}
	if len(xs) > 1 {
		b.Variance = stat.Variance(xs, nil)
	}
	b.MeanDigits = AgreeingDigits(col.Context(), s.Mean, b.Mean)
	b.VarianceDigits = AgreeingDigits(col.Context(), s.Variance, b.Variance)
	return b
}

// AgreeingDigits returns how many leading significant decimal digits approx
// shares with exact, capped at MaxBaselineDigits.
func AgreeingDigits(ctx numeric.Context, exact numeric.Value, approx float64) int {
	if math.IsNaN(approx) {
		return 0
	}
	diff := ctx.Sub(exact, ctx.FromFloat64(approx))
	if diff.IsZero() {
		return MaxBaselineDigits
	}
	rel, err := ctx.Quo(diff, exact)
	if err != nil {
		// exact is zero and approx is not
		return 0
	}
	r := math.Abs(rel.Float64())
	if r == 0 {
		return MaxBaselineDigits
	}
	if r >= 1 || math.IsInf(r, 0) {
		return 0
	}
	d := int(math.Floor(-math.Log10(r)))
	if d > MaxBaselineDigits {
		return MaxBaselineDigits
	}
	return d
}
