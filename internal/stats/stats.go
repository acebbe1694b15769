package stats

import (
	"sort"

	"github.com/KaramelBytes/bfbs-cli/internal/numeric"
)

// Summary bundles the statistics derived from one column.
type Summary struct {
	Count    uint64
	Sum      numeric.Value
	Min      numeric.Value
	Max      numeric.Value
	Mean     numeric.Value
	Median   numeric.Value
	Range    numeric.Value
	Variance numeric.Value
	StdDev   numeric.Value
}

// Summarize derives every statistic of c.
func Summarize(c *Column) Summary {
	mean := Mean(c)
	variance := varianceAbout(c, mean)
	return Summary{
		Count:    c.Count(),
		Sum:      c.Sum(),
		Min:      c.Min(),
		Max:      c.Max(),
		Mean:     mean,
		Median:   Median(c),
		Range:    Range(c),
		Variance: variance,
		StdDev:   sqrt(c.ctx, variance),
	}
}

// Mean returns sum/count, or 0 for an empty column.
func Mean(c *Column) numeric.Value {
	if c.count == 0 {
		return c.ctx.Zero()
	}
	return quoCount(c.ctx, c.sum, c.count)
}

// Variance returns the sample variance Σ(v-mean)²/(count-1) using a second
// pass over the retained values. Columns with fewer than two values have
// variance 0.
func Variance(c *Column) numeric.Value {
	return varianceAbout(c, Mean(c))
}

func varianceAbout(c *Column, mean numeric.Value) numeric.Value {
	if c.count < 2 {
		return c.ctx.Zero()
	}
	ss := c.ctx.Zero()
	for _, v := range c.values {
		d := c.ctx.Sub(v, mean)
		ss = c.ctx.Add(ss, c.ctx.Square(d))
	}
	return quoCount(c.ctx, ss, c.count-1)
}

// StdDev returns the square root of Variance.
func StdDev(c *Column) numeric.Value {
	return sqrt(c.ctx, Variance(c))
}

// Range returns max - min.
func Range(c *Column) numeric.Value {
	return c.ctx.Sub(c.max, c.min)
}

// Median returns the middle value, or the mean of the two middle values for
// an even count. An empty column has median 0.
func Median(c *Column) numeric.Value {
	n := len(c.values)
	if n == 0 {
		return c.ctx.Zero()
	}
	sorted := c.Values()
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Cmp(sorted[j]) < 0 })
	if n%2 == 1 {
		return sorted[n/2]
	}
	return quoCount(c.ctx, c.ctx.Add(sorted[n/2-1], sorted[n/2]), 2)
}

// quoCount divides v by a positive count.
func quoCount(ctx numeric.Context, v numeric.Value, n uint64) numeric.Value {
	q, err := ctx.QuoUint(v, n)
	if err != nil {
		return ctx.Zero()
	}
	return q
}

// sqrt is only applied to sums of squares, which cannot be negative.
func sqrt(ctx numeric.Context, v numeric.Value) numeric.Value {
	r, err := ctx.Sqrt(v)
	if err != nil {
		return ctx.Zero()
	}
	return r
}
