// Package duration implements typed time spans on top of the fixed-point
// engine.
//
// A Duration[T, U] is a tick count of integer type T in unit U. The unit is
// part of the type, so a Duration[uint32, Millisecond] cannot be added to a
// Duration[uint32, Microsecond] by accident; Convert moves between them with
// an explicit rounding policy.
//
//	d := duration.Milliseconds[uint32](5)
//	us, err := duration.Convert[uint32, duration.Microsecond](d, fixedpoint.Exact)
package duration

import (
	"errors"
	"math"
	"time"

	"embtime/core"
	"embtime/fixedpoint"
	"embtime/fraction"
	"embtime/timeint"
)

// ErrNegative is returned when converting a negative time.Duration.
var ErrNegative = errors.New("duration: negative span")

// Duration is an immutable span of ticks of unit U.
type Duration[T timeint.TimeInt, U Unit] struct {
	ticks T
}

// New returns a span of ticks in unit U.
func New[U Unit, T timeint.TimeInt](ticks T) Duration[T, U] {
	return Duration[T, U]{ticks: ticks}
}

// Hours returns a span of n hours.
func Hours[T timeint.TimeInt](n T) Duration[T, Hour] { return New[Hour](n) }

// Minutes returns a span of n minutes.
func Minutes[T timeint.TimeInt](n T) Duration[T, Minute] { return New[Minute](n) }

// Seconds returns a span of n seconds.
func Seconds[T timeint.TimeInt](n T) Duration[T, Second] { return New[Second](n) }

// Milliseconds returns a span of n milliseconds.
func Milliseconds[T timeint.TimeInt](n T) Duration[T, Millisecond] { return New[Millisecond](n) }

// Microseconds returns a span of n microseconds.
func Microseconds[T timeint.TimeInt](n T) Duration[T, Microsecond] { return New[Microsecond](n) }

// Nanoseconds returns a span of n nanoseconds.
func Nanoseconds[T timeint.TimeInt](n T) Duration[T, Nanosecond] { return New[Nanosecond](n) }

// Ticks returns the raw tick count.
func (d Duration[T, U]) Ticks() T {
	return d.ticks
}

// ScalingFactor returns the seconds per tick of U.
func (d Duration[T, U]) ScalingFactor() fraction.Fraction {
	return Factor[U]()
}

// Fixed implements fixedpoint.Fixed.
func (d Duration[T, U]) Fixed() (uint64, fraction.Fraction) {
	return uint64(d.ticks), Factor[U]()
}

// IsZero reports whether d spans no time.
func (d Duration[T, U]) IsZero() bool {
	return d.ticks == 0
}

// CheckedAdd returns d+o, or false on overflow.
func (d Duration[T, U]) CheckedAdd(o Duration[T, U]) (Duration[T, U], bool) {
	v, ok := timeint.CheckedAdd(d.ticks, o.ticks)
	return Duration[T, U]{ticks: v}, ok
}

// CheckedSub returns d-o, or false if o is longer than d.
func (d Duration[T, U]) CheckedSub(o Duration[T, U]) (Duration[T, U], bool) {
	v, ok := timeint.CheckedSub(d.ticks, o.ticks)
	return Duration[T, U]{ticks: v}, ok
}

// CheckedMul returns d*n, or false on overflow.
func (d Duration[T, U]) CheckedMul(n T) (Duration[T, U], bool) {
	v, ok := timeint.CheckedMul(d.ticks, n)
	return Duration[T, U]{ticks: v}, ok
}

// CheckedDiv returns d/n truncated, or false if n is zero.
func (d Duration[T, U]) CheckedDiv(n T) (Duration[T, U], bool) {
	v, ok := timeint.CheckedDiv(d.ticks, n)
	return Duration[T, U]{ticks: v}, ok
}

// Compare returns -1, 0 or 1 as d is shorter than, equal to or longer than o.
func (d Duration[T, U]) Compare(o Duration[T, U]) int {
	switch {
	case d.ticks < o.ticks:
		return -1
	case d.ticks > o.ticks:
		return 1
	}
	return 0
}

// String formats d as ticks followed by the unit symbol, e.g. "5ms".
func (d Duration[T, U]) String() string {
	var u U
	return core.Utoa64(uint64(d.ticks)) + u.Symbol()
}

// Std returns d as a time.Duration, truncated to whole nanoseconds.
func (d Duration[T, U]) Std() (time.Duration, error) {
	ns, err := fixedpoint.ConvertTicks(uint64(d.ticks), Factor[U](), Factor[Nanosecond](), fixedpoint.Floor)
	if err != nil {
		return 0, err
	}
	if ns > math.MaxInt64 {
		return 0, &fixedpoint.ConversionError{
			Kind:  fixedpoint.Overflow,
			Value: uint64(d.ticks),
			From:  Factor[U](),
			To:    Factor[Nanosecond](),
		}
	}
	return time.Duration(ns), nil
}

// Convert re-expresses d as integer type T2 in unit U2. The arithmetic is
// done in 64 bits and narrowed to T2 at the end.
func Convert[T2 timeint.TimeInt, U2 Unit, T1 timeint.TimeInt, U1 Unit](d Duration[T1, U1], mode fixedpoint.Rounding) (Duration[T2, U2], error) {
	wide, err := fixedpoint.ConvertTicks(uint64(d.ticks), Factor[U1](), Factor[U2](), mode)
	if err != nil {
		return Duration[T2, U2]{}, err
	}
	ticks, ok := timeint.FromUint64[T2](wide)
	if !ok {
		return Duration[T2, U2]{}, &fixedpoint.ConversionError{
			Kind:  fixedpoint.Overflow,
			Value: uint64(d.ticks),
			From:  Factor[U1](),
			To:    Factor[U2](),
		}
	}
	return Duration[T2, U2]{ticks: ticks}, nil
}

// FromStd converts a time.Duration into unit U.
func FromStd[T timeint.TimeInt, U Unit](d time.Duration, mode fixedpoint.Rounding) (Duration[T, U], error) {
	if d < 0 {
		return Duration[T, U]{}, ErrNegative
	}
	return Convert[T, U](Nanoseconds(uint64(d)), mode)
}

// Compare orders two spans of any units by the real time they represent.
func Compare(a, b fixedpoint.Fixed) int {
	return fixedpoint.Compare(a, b)
}
