// Package numeric provides the arbitrary-precision real numbers used for every
// statistic. All values of a run share the bit precision of one Context.
package numeric

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

const (
	// MinPrecision and MaxPrecision bound the significand width in bits.
	MinPrecision uint = 16
	MaxPrecision uint = 1024
	// DefaultPrecision is used when no precision is configured.
	DefaultPrecision uint = 256
)

var (
	// ErrNotANumber is returned by Parse for tokens that are not decimal numerals.
	ErrNotANumber = errors.New("not a number")
	// ErrDivisionByZero is returned by Quo and QuoUint for a zero divisor.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrNegativeSqrt is returned by Sqrt for negative operands.
	ErrNegativeSqrt = errors.New("square root of negative value")
	// ErrPrecisionRange is returned by NewContext for widths outside [MinPrecision, MaxPrecision].
	ErrPrecisionRange = errors.New("precision out of range")
)

// Decimal or scientific notation only; big.ParseFloat alone would also accept
// "Inf" and binary exponents.
var numeral = regexp.MustCompile(`^[+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)

// Context carries the bit precision shared by all values of a run.
type Context struct {
	prec uint
}

// NewContext returns a Context with the given significand precision in bits.
func NewContext(prec uint) (Context, error) {
	if prec < MinPrecision || prec > MaxPrecision {
		return Context{}, fmt.Errorf("%w: %d bits (must be %d-%d)", ErrPrecisionRange, prec, MinPrecision, MaxPrecision)
	}
	return Context{prec: prec}, nil
}

// Precision reports the context's width in bits.
func (c Context) Precision() uint { return c.prec }

func (c Context) newFloat() *big.Float {
	return new(big.Float).SetPrec(c.prec).SetMode(big.ToNearestEven)
}

// Zero returns 0 at the context precision.
func (c Context) Zero() Value { return Value{f: c.newFloat()} }

// FromInt returns n rounded to the context precision.
func (c Context) FromInt(n int64) Value { return Value{f: c.newFloat().SetInt64(n)} }

// FromFloat64 returns x rounded to the context precision. x must not be NaN.
func (c Context) FromFloat64(x float64) Value { return Value{f: c.newFloat().SetFloat64(x)} }

// Parse converts a decimal token to a Value rounded to the context precision.
// Surrounding whitespace is ignored. Numerals beyond the exponent range of
// big.Float are rejected rather than becoming infinite.
func (c Context) Parse(token string) (Value, error) {
	s := strings.TrimSpace(token)
	if !numeral.MatchString(s) {
		return Value{}, fmt.Errorf("%w: %q", ErrNotANumber, token)
	}
	f, _, err := big.ParseFloat(s, 10, c.prec, big.ToNearestEven)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %q: %v", ErrNotANumber, token, err)
	}
	if f.IsInf() {
		return Value{}, fmt.Errorf("%w: %q: exponent overflow", ErrNotANumber, token)
	}
	return Value{f: f}, nil
}

// Add returns a + b.
func (c Context) Add(a, b Value) Value { return Value{f: c.newFloat().Add(a.float(), b.float())} }

// Sub returns a - b.
func (c Context) Sub(a, b Value) Value { return Value{f: c.newFloat().Sub(a.float(), b.float())} }

// Mul returns a * b.
func (c Context) Mul(a, b Value) Value { return Value{f: c.newFloat().Mul(a.float(), b.float())} }

// Square returns v * v.
func (c Context) Square(v Value) Value { return c.Mul(v, v) }

// Quo returns a / b.
func (c Context) Quo(a, b Value) (Value, error) {
	if b.IsZero() {
		return Value{}, ErrDivisionByZero
	}
	return Value{f: c.newFloat().Quo(a.float(), b.float())}, nil
}

// QuoUint returns a / n. The divisor is used exactly, so the only rounding is
// that of the quotient.
func (c Context) QuoUint(a Value, n uint64) (Value, error) {
	if n == 0 {
		return Value{}, ErrDivisionByZero
	}
	d := new(big.Float).SetUint64(n)
	return Value{f: c.newFloat().Quo(a.float(), d)}, nil
}

// Sqrt returns the square root of v.
func (c Context) Sqrt(v Value) (Value, error) {
	if v.Sign() < 0 {
		return Value{}, ErrNegativeSqrt
	}
	return Value{f: c.newFloat().Sqrt(v.float())}, nil
}

// Value is an immutable arbitrary-precision number. The zero Value is 0.
type Value struct {
	f *big.Float
}

var zero = new(big.Float)

func (v Value) float() *big.Float {
	if v.f == nil {
		return zero
	}
	return v.f
}

// Cmp compares v and w and returns -1, 0 or +1.
func (v Value) Cmp(w Value) int { return v.float().Cmp(w.float()) }

// Sign returns -1, 0 or +1 depending on the sign of v.
func (v Value) Sign() int { return v.float().Sign() }

// IsZero reports whether v == 0.
func (v Value) IsZero() bool { return v.Sign() == 0 }

// Float64 returns the float64 nearest to v.
func (v Value) Float64() float64 {
	x, _ := v.float().Float64()
	return x
}

// Big returns a copy of the underlying big.Float.
func (v Value) Big() *big.Float { return new(big.Float).Copy(v.float()) }

// Text renders v like big.Float.Text: format 'f' prints digits after the
// decimal point, 'e' prints digits after the point of the mantissa.
func (v Value) Text(format byte, digits int) string { return v.float().Text(format, digits) }

// String returns the shortest decimal text that round-trips at v's precision.
func (v Value) String() string { return v.float().Text('g', -1) }
