// Package stats holds the per-column accumulator and the statistics derived
// from it.
package stats

import "github.com/KaramelBytes/bfbs-cli/internal/numeric"

// Column accumulates every value observed for one column of a file.
//
// The sum is built in insertion order; at finite precision a different order
// can give a different sum. While the column is empty, sum, min and max are 0.
type Column struct {
	ctx    numeric.Context
	count  uint64
	sum    numeric.Value
	min    numeric.Value
	max    numeric.Value
	values []numeric.Value
}

// NewColumn returns an empty column computing at ctx's precision.
func NewColumn(ctx numeric.Context) *Column {
	return &Column{ctx: ctx, sum: ctx.Zero(), min: ctx.Zero(), max: ctx.Zero()}
}

// Add records v. Values are never removed or replaced.
func (c *Column) Add(v numeric.Value) {
	c.values = append(c.values, v)
	c.count++
	c.sum = c.ctx.Add(c.sum, v)
	if c.count == 1 {
		c.min, c.max = v, v
		return
	}
	if v.Cmp(c.min) < 0 {
		c.min = v
	}
	if v.Cmp(c.max) > 0 {
		c.max = v
	}
}

// Context returns the numeric context the column computes with.
func (c *Column) Context() numeric.Context { return c.ctx }

// Count is the number of values added.
func (c *Column) Count() uint64 { return c.count }

// Empty reports whether no value has been added.
func (c *Column) Empty() bool { return c.count == 0 }

// Sum returns the running total.
func (c *Column) Sum() numeric.Value { return c.sum }

// Min returns the smallest value added, or 0 for an empty column.
func (c *Column) Min() numeric.Value { return c.min }

// Max returns the largest value added, or 0 for an empty column.
func (c *Column) Max() numeric.Value { return c.max }

// Values returns the added values in insertion order. The slice is a copy.
func (c *Column) Values() []numeric.Value {
	return append([]numeric.Value(nil), c.values...)
}
