package stats

import (
	"math"
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/bfbs-cli/internal/numeric"
)

func newCtx(t *testing.T, prec uint) numeric.Context {
	t.Helper()
	ctx, err := numeric.NewContext(prec)
	require.NoError(t, err)
	return ctx
}

func column(t *testing.T, ctx numeric.Context, tokens ...string) *Column {
	t.Helper()
	c := NewColumn(ctx)
	for _, tok := range tokens {
		v, err := ctx.Parse(tok)
		require.NoError(t, err, "parse %q", tok)
		c.Add(v)
	}
	return c
}

func assertValue(t *testing.T, ctx numeric.Context, want string, got numeric.Value, what string) {
	t.Helper()
	w, err := ctx.Parse(want)
	require.NoError(t, err)
	assert.Equal(t, 0, w.Cmp(got), "%s: want %s, got %s", what, want, got)
}

func TestSummarizeSmallColumn(t *testing.T) {
	ctx := newCtx(t, numeric.DefaultPrecision)
	s := Summarize(column(t, ctx, "1", "2", "3"))

	assert.Equal(t, uint64(3), s.Count)
	assertValue(t, ctx, "6", s.Sum, "sum")
	assertValue(t, ctx, "2", s.Mean, "mean")
	assertValue(t, ctx, "2", s.Median, "median")
	assertValue(t, ctx, "1", s.Min, "min")
	assertValue(t, ctx, "3", s.Max, "max")
	assertValue(t, ctx, "2", s.Range, "range")
	assertValue(t, ctx, "1", s.Variance, "variance")
	assertValue(t, ctx, "1", s.StdDev, "stddev")
}

func TestSingleValueHasZeroVariance(t *testing.T) {
	ctx := newCtx(t, numeric.DefaultPrecision)
	c := column(t, ctx, "-12.5")
	s := Summarize(c)

	assert.Equal(t, uint64(1), s.Count)
	assertValue(t, ctx, "-12.5", s.Mean, "mean")
	assertValue(t, ctx, "-12.5", s.Min, "min")
	assertValue(t, ctx, "-12.5", s.Max, "max")
	assertValue(t, ctx, "-12.5", s.Median, "median")
	assert.True(t, s.Range.IsZero())
	assert.True(t, s.Variance.IsZero())
	assert.True(t, s.StdDev.IsZero())
	assert.True(t, Variance(c).IsZero())
	assert.True(t, StdDev(c).IsZero())
}

func TestEmptyColumnIsZero(t *testing.T) {
	ctx := newCtx(t, 64)
	c := NewColumn(ctx)
	require.True(t, c.Empty())

	s := Summarize(c)
	assert.Equal(t, uint64(0), s.Count)
	for name, v := range map[string]numeric.Value{
		"sum": s.Sum, "min": s.Min, "max": s.Max, "mean": s.Mean, "median": s.Median,
		"range": s.Range, "variance": s.Variance, "stddev": s.StdDev,
	} {
		assert.True(t, v.IsZero(), "%s should be 0, got %s", name, v)
	}
	assert.Empty(t, c.Values())
}

func TestMinMaxFollowFirstValue(t *testing.T) {
	ctx := newCtx(t, 64)
	// All negative values: extrema must not stay at the zero they start from.
	c := column(t, ctx, "-5", "-2", "-9")
	assertValue(t, ctx, "-9", c.Min(), "min")
	assertValue(t, ctx, "-2", c.Max(), "max")

	c = column(t, ctx, "7", "8", "9")
	assertValue(t, ctx, "7", c.Min(), "min")
}

func TestMedianEvenCount(t *testing.T) {
	ctx := newCtx(t, 64)
	c := column(t, ctx, "4", "1", "3", "2")
	assertValue(t, ctx, "2.5", Median(c), "median")
	// Median sorts a copy; insertion order is preserved.
	assertValue(t, ctx, "4", c.Values()[0], "first value")
}

func TestValuesIsACopy(t *testing.T) {
	ctx := newCtx(t, 64)
	c := column(t, ctx, "1", "2")
	vs := c.Values()
	vs[0] = ctx.FromInt(100)
	assertValue(t, ctx, "1", c.Values()[0], "retained value")
}

// Values with a large common offset; a single-pass sum of squares loses every
// significant digit of the variance in float64.
func TestLargeOffsetExactVariance(t *testing.T) {
	ctx := newCtx(t, numeric.DefaultPrecision)
	c := column(t, ctx, "10000001", "10000003", "10000002")
	assertValue(t, ctx, "10000002", Mean(c), "mean")
	assertValue(t, ctx, "1", Variance(c), "variance")
	assertValue(t, ctx, "1", StdDev(c), "stddev")

	c = column(t, ctx, "1000000000000001", "1000000000000003", "1000000000000002")
	assertValue(t, ctx, "1", Variance(c), "variance")
}

func numAcc3(t *testing.T, ctx numeric.Context) *Column {
	t.Helper()
	tokens := []string{"1000000.2"}
	for i := 0; i < 500; i++ {
		tokens = append(tokens, "1000000.1", "1000000.3")
	}
	return column(t, ctx, tokens...)
}

func TestNumAcc3(t *testing.T) {
	ctx := newCtx(t, numeric.DefaultPrecision)
	s := Summarize(numAcc3(t, ctx))
	assert.Equal(t, uint64(1001), s.Count)
	assert.Equal(t, "1000000.200000000000000000000000000000", s.Mean.Text('f', 30))
	assert.Equal(t, "0.010000000000000000000000000000", s.Variance.Text('f', 30))
	assert.Equal(t, "0.100000000000000000000000000000", s.StdDev.Text('f', 30))
}

func TestInvariantsOnRandomData(t *testing.T) {
	ctx := newCtx(t, 128)
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		c := NewColumn(ctx)
		n := 1 + rng.Intn(200)
		for i := 0; i < n; i++ {
			tok := strconv.FormatFloat(rng.NormFloat64()*1000, 'g', -1, 64)
			v, err := ctx.Parse(tok)
			require.NoError(t, err)
			c.Add(v)
		}
		s := Summarize(c)
		require.Equal(t, uint64(len(c.Values())), s.Count)
		assert.LessOrEqual(t, s.Min.Cmp(s.Mean), 0)
		assert.LessOrEqual(t, s.Mean.Cmp(s.Max), 0)
		assert.GreaterOrEqual(t, s.Variance.Sign(), 0)
		for _, v := range c.Values() {
			assert.LessOrEqual(t, s.Min.Cmp(v), 0)
			assert.GreaterOrEqual(t, s.Max.Cmp(v), 0)
		}
		assert.Equal(t, 0, s.Range.Cmp(ctx.Sub(s.Max, s.Min)))

		// mean*count reproduces the sum to within one rounding of the division.
		back := ctx.Mul(s.Mean, ctx.FromInt(int64(s.Count)))
		diff := math.Abs(ctx.Sub(back, s.Sum).Float64())
		assert.LessOrEqual(t, diff, math.Abs(s.Sum.Float64())*math.Ldexp(1, -120)+1e-300)
	}
}

func TestOrderIndependenceWithinRounding(t *testing.T) {
	const prec = 24
	ctx := newCtx(t, prec)
	rng := rand.New(rand.NewSource(42))
	var tokens []string
	for i := 0; i < 300; i++ {
		tokens = append(tokens, strconv.FormatFloat(rng.Float64()*100, 'f', 6, 64))
	}
	a := column(t, ctx, tokens...)
	shuffled := append([]string(nil), tokens...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	b := column(t, ctx, shuffled...)

	assert.Equal(t, a.Count(), b.Count())
	assert.Equal(t, 0, a.Min().Cmp(b.Min()))
	assert.Equal(t, 0, a.Max().Cmp(b.Max()))

	// Sums may differ in the last bits; compare with a precision-derived epsilon.
	eps := float64(len(tokens)) * math.Ldexp(1, -prec) * 4
	assert.InEpsilon(t, Mean(a).Float64(), Mean(b).Float64(), eps)
	assert.InEpsilon(t, Variance(a).Float64(), Variance(b).Float64(), eps*10)
}

// agreeingDigits returns the number of leading decimal digits shared by ref and v.
func agreeingDigits(ref, v numeric.Value, ctx numeric.Context) int {
	diff := ctx.Sub(ref, v)
	if diff.IsZero() {
		return math.MaxInt32
	}
	rel, err := ctx.Quo(diff, ref)
	if err != nil {
		return 0
	}
	r := math.Abs(rel.Float64())
	if r >= 1 {
		return 0
	}
	return int(math.Floor(-math.Log10(r)))
}

func TestPrecisionConvergence(t *testing.T) {
	refCtx := newCtx(t, numeric.MaxPrecision)
	ref := Summarize(numAcc3(t, refCtx))

	prevMean, prevVar := -1, -1
	for _, prec := range []uint{32, 64, 128, 256, 512} {
		ctx := newCtx(t, prec)
		s := Summarize(numAcc3(t, ctx))
		m := agreeingDigits(ref.Mean, s.Mean, refCtx)
		v := agreeingDigits(ref.Variance, s.Variance, refCtx)
		assert.GreaterOrEqual(t, m, prevMean, "mean digits regressed at %d bits", prec)
		assert.GreaterOrEqual(t, v, prevVar, "variance digits regressed at %d bits", prec)
		prevMean, prevVar = m, v
	}
	assert.Greater(t, prevVar, 100)
}
