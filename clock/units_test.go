package clock_test

import "embtime/fraction"

// tick3us is the tick of a clock whose period does not divide 1ms evenly.
type tick3us struct{}

func (tick3us) ScalingFactor() fraction.Fraction { return fraction.New(3, 1000000) }
func (tick3us) Symbol() string                   { return "ticks" }
