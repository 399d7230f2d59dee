// Package fraction provides the exact rational scaling factors used to
// describe how long one tick of a clock or duration lasts, in seconds.
package fraction

import "embtime/core"

// Fraction is an immutable num/den ratio of seconds per tick.
// Both terms are always non-zero. It is not kept in lowest terms;
// all comparisons and arithmetic treat it as an exact rational.
type Fraction struct {
	num uint32
	den uint32
}

// New returns num/den. Scaling factors are package-level constants,
// so a zero term is a programming error and panics.
func New(num, den uint32) Fraction {
	if num == 0 || den == 0 {
		panic("fraction: zero term")
	}
	return Fraction{num: num, den: den}
}

// Hz returns the period of a clock running at freq ticks per second.
func Hz(freq uint32) Fraction {
	return New(1, freq)
}

// Numerator returns the numerator
func (f Fraction) Numerator() uint32 {
	return f.num
}

// Denominator returns the denominator
func (f Fraction) Denominator() uint32 {
	return f.den
}

// IsZero reports whether f is the zero value, which is not a valid factor.
func (f Fraction) IsZero() bool {
	return f.num == 0 || f.den == 0
}

// Reduce returns f in lowest terms.
func (f Fraction) Reduce() Fraction {
	g := uint32(gcd(uint64(f.num), uint64(f.den)))
	if g <= 1 {
		return f
	}
	return Fraction{num: f.num / g, den: f.den / g}
}

// Recip returns den/num.
func (f Fraction) Recip() Fraction {
	return Fraction{num: f.den, den: f.num}
}

// Equal reports whether f and o denote the same rational (1/2 == 2/4).
func (f Fraction) Equal(o Fraction) bool {
	return uint64(f.num)*uint64(o.den) == uint64(o.num)*uint64(f.den)
}

// String formats f as "num/den".
func (f Fraction) String() string {
	return core.Utoa(f.num) + "/" + core.Utoa(f.den)
}

// Ratio returns the reduced p/q equal to a/b. Each product of two
// 32-bit terms fits in 64 bits, so the result is exact.
func Ratio(a, b Fraction) (p, q uint64) {
	p = uint64(a.num) * uint64(b.den)
	q = uint64(a.den) * uint64(b.num)
	if g := gcd(p, q); g > 1 {
		p /= g
		q /= g
	}
	return p, q
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
