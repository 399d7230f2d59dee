package duration

import "embtime/fraction"

// Unit is a compile-time time unit: a zero-size type whose ScalingFactor is
// the number of seconds one tick of that unit lasts. Clock drivers declare
// their own tick units the same way.
type Unit interface {
	ScalingFactor() fraction.Fraction
	Symbol() string
}

// Standard units
type (
	Hour        struct{}
	Minute      struct{}
	Second      struct{}
	Millisecond struct{}
	Microsecond struct{}
	Nanosecond  struct{}
)

func (Hour) ScalingFactor() fraction.Fraction        { return fraction.New(3600, 1) }
func (Minute) ScalingFactor() fraction.Fraction      { return fraction.New(60, 1) }
func (Second) ScalingFactor() fraction.Fraction      { return fraction.New(1, 1) }
func (Millisecond) ScalingFactor() fraction.Fraction { return fraction.New(1, 1000) }
func (Microsecond) ScalingFactor() fraction.Fraction { return fraction.New(1, 1000000) }
func (Nanosecond) ScalingFactor() fraction.Fraction  { return fraction.New(1, 1000000000) }

func (Hour) Symbol() string        { return "h" }
func (Minute) Symbol() string      { return "min" }
func (Second) Symbol() string      { return "s" }
func (Millisecond) Symbol() string { return "ms" }
func (Microsecond) Symbol() string { return "us" }
func (Nanosecond) Symbol() string  { return "ns" }

// Factor returns the scaling factor of unit U.
func Factor[U Unit]() fraction.Fraction {
	var u U
	return u.ScalingFactor()
}
