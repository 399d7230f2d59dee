// Package clock provides the hardware-facing Clock capability and the
// values built on it: Instants and state-typed software Timers.
//
// A Clock is characterized by its tick counter type T (uint32 or uint64)
// and its tick unit U, whose ScalingFactor is the duration of one count in
// seconds. Both are type parameters, so the tick rate of a clock is fixed
// at compile time and Instants of different clocks are different types.
//
// Any number of timers can be spawned from one Clock. Timers are polled:
// nothing happens between calls, and TryNow is the only thing a timer ever
// asks of its clock.
package clock

import (
	"embtime/core"
	"embtime/duration"
	"embtime/fixedpoint"
	"embtime/fraction"
	"embtime/timeint"
)

// Clock is implemented by clock drivers: hardware timer peripherals,
// software tick counters, remote MCU clocks.
type Clock[T timeint.TimeInt, U duration.Unit] interface {
	// TryNow returns the current Instant. Failures are *Error values.
	TryNow() (Instant[T, U], error)
}

// ScalingFactor returns the duration of one tick of c in seconds.
func ScalingFactor[T timeint.TimeInt, U duration.Unit](c Clock[T, U]) fraction.Fraction {
	return duration.Factor[U]()
}

// NewTimer returns a disarmed OneShot timer for d on c.
func NewTimer[T timeint.TimeInt, U duration.Unit, D fixedpoint.Fixed](c Clock[T, U], d D) OneShot[T, U, D] {
	return NewOneShot(c, d)
}

// StartTimer creates a OneShot timer for d and starts it immediately.
func StartTimer[T timeint.TimeInt, U duration.Unit, D fixedpoint.Fixed](c Clock[T, U], d D) (ArmedOneShot[T, U, D], error) {
	return NewOneShot(c, d).Start()
}

// clockTicks converts d to whole ticks of unit U, rounding up so a deadline
// is never earlier than requested.
func clockTicks[T timeint.TimeInt, U duration.Unit](d fixedpoint.Fixed) (T, error) {
	ticks, factor := d.Fixed()
	wide, err := fixedpoint.ConvertTicks(ticks, factor, duration.Factor[U](), fixedpoint.Ceil)
	if err != nil {
		return 0, err
	}
	out, ok := timeint.FromUint64[T](wide)
	if !ok {
		return 0, &fixedpoint.ConversionError{
			Kind:  fixedpoint.Overflow,
			Value: ticks,
			From:  factor,
			To:    duration.Factor[U](),
		}
	}
	return out, nil
}

// recordClockError notes a failed clock read in the timing ring.
func recordClockError(err error) {
	kind, _ := KindOf(err)
	core.RecordTiming(core.EvtClockError, 0, uint32(kind), 0)
}
