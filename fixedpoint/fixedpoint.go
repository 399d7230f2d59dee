// Package fixedpoint converts tick counts between scaling factors.
//
// A fixed-point time value is a tick count plus the rational number of
// seconds one tick lasts. Converting between two factors is
//
//	value * from.num * to.den / (from.den * to.num)
//
// evaluated with a 128-bit intermediate so no width in between can
// overflow. Only the final narrowing to the target integer type, or a
// quotient beyond 64 bits, reports ErrOverflow.
package fixedpoint

import (
	"errors"

	"embtime/core"
	"embtime/fraction"
	"embtime/timeint"
)

// Rounding selects what happens when a conversion is inexact.
type Rounding uint8

const (
	// Exact fails with ErrExactRequired when the division leaves a remainder.
	Exact Rounding = iota

	// Floor truncates toward zero.
	Floor

	// Ceil rounds up to the next whole target tick.
	Ceil

	// FloorCorrected adds one tick to an exact result and two to an inexact
	// one. The extra tick covers a partially elapsed target tick at the moment
	// a wait begins, so a wait of this many ticks is never shorter than asked.
	FloorCorrected
)

// String returns a human-readable rounding name.
func (r Rounding) String() string {
	switch r {
	case Exact:
		return "exact"
	case Floor:
		return "floor"
	case Ceil:
		return "ceil"
	case FloorCorrected:
		return "floor+correction"
	default:
		return "unknown"
	}
}

// ErrorKind classifies a conversion failure.
type ErrorKind uint8

const (
	// Overflow means the result does not fit the representation.
	Overflow ErrorKind = iota + 1

	// ExactRequired means Exact rounding met a remainder.
	ExactRequired
)

// Conversion errors, usable with errors.Is.
var (
	ErrOverflow      = errors.New("fixedpoint: overflow")
	ErrExactRequired = errors.New("fixedpoint: inexact conversion")
)

// ConversionError describes a failed ConvertTicks call.
type ConversionError struct {
	Kind  ErrorKind
	Value uint64
	From  fraction.Fraction
	To    fraction.Fraction
}

func (e *ConversionError) Error() string {
	msg := "fixedpoint: overflow"
	if e.Kind == ExactRequired {
		msg = "fixedpoint: inexact conversion"
	}
	return msg + " converting " + core.Utoa64(e.Value) + " ticks of " +
		e.From.String() + "s to " + e.To.String() + "s"
}

// Is matches the ErrOverflow and ErrExactRequired sentinels.
func (e *ConversionError) Is(target error) bool {
	switch target {
	case ErrOverflow:
		return e.Kind == Overflow
	case ErrExactRequired:
		return e.Kind == ExactRequired
	}
	return false
}

// Fixed is the type-erased view of any fixed-point time value: its tick
// count and the seconds-per-tick factor those ticks are counted in.
type Fixed interface {
	Fixed() (ticks uint64, factor fraction.Fraction)
}

// ConvertTicks returns the number of ticks at factor to that represents the
// same span as value ticks at factor from.
func ConvertTicks[T timeint.TimeInt](value T, from, to fraction.Fraction, mode Rounding) (T, error) {
	v := uint64(value)
	fail := func(kind ErrorKind) (T, error) {
		return 0, &ConversionError{Kind: kind, Value: v, From: from, To: to}
	}

	p, q := fraction.Ratio(from, to)
	quo, rem, ok := timeint.MulDiv(v, p, q)
	if !ok {
		return fail(Overflow)
	}

	var extra uint64
	switch mode {
	case Exact:
		if rem != 0 {
			return fail(ExactRequired)
		}
	case Ceil:
		if rem != 0 {
			extra = 1
		}
	case FloorCorrected:
		extra = 1
		if rem != 0 {
			extra = 2
		}
	}

	quo, ok = timeint.CheckedAdd(quo, extra)
	if !ok {
		return fail(Overflow)
	}
	out, ok := timeint.FromUint64[T](quo)
	if !ok {
		return fail(Overflow)
	}
	return out, nil
}

// Compare orders two fixed-point values by the real span they represent,
// whatever their factors: -1 if a < b, 0 if equal, 1 if a > b.
func Compare(a, b Fixed) int {
	at, af := a.Fixed()
	bt, bf := b.Fixed()
	// a.ticks*af ? b.ticks*bf  <=>  a.ticks*p ? b.ticks*q with p/q = af/bf
	p, q := fraction.Ratio(af, bf)
	return timeint.CompareProducts(at, p, bt, q)
}
