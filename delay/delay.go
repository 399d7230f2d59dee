// Package delay implements blocking delays on top of a Clock by spawning a
// OneShot timer and polling it.
//
// A delay is never shorter than requested. The tick count is the requested
// span converted to clock ticks, rounded up, plus one tick: the clock may
// be part-way through a tick when the delay starts, so a 1ms delay on a
// 1kHz clock waits for two tick edges, not one.
package delay

import (
	"embtime/clock"
	"embtime/core"
	"embtime/duration"
	"embtime/fixedpoint"
	"embtime/fraction"
	"embtime/timeint"
)

// Delay blocks the caller using clock c.
type Delay[T timeint.TimeInt, U duration.Unit] struct {
	clock clock.Clock[T, U]
	wait  func()
}

// New returns a Delay on c. wait is called on every poll while a delay is
// in progress; it can do other work or sleep the core, and may be nil.
func New[T timeint.TimeInt, U duration.Unit](c clock.Clock[T, U], wait func()) *Delay[T, U] {
	return &Delay[T, U]{clock: c, wait: wait}
}

// DelayMs blocks for at least ms milliseconds.
func (d *Delay[T, U]) DelayMs(ms T) error {
	return d.delay(ms, duration.Factor[duration.Millisecond]())
}

// DelayUs blocks for at least us microseconds.
func (d *Delay[T, U]) DelayUs(us T) error {
	return d.delay(us, duration.Factor[duration.Microsecond]())
}

// DelayNs blocks for at least ns nanoseconds.
func (d *Delay[T, U]) DelayNs(ns T) error {
	return d.delay(ns, duration.Factor[duration.Nanosecond]())
}

// Sleep blocks for at least span, which may be in any unit.
func (d *Delay[T, U]) Sleep(span fixedpoint.Fixed) error {
	ticks, factor := span.Fixed()
	n, ok := timeint.FromUint64[T](ticks)
	if !ok {
		// Too many source ticks for T; go through 64 bits and narrow after scaling
		wide, err := fixedpoint.ConvertTicks(ticks, factor, duration.Factor[U](), fixedpoint.FloorCorrected)
		if err != nil {
			return d.fail("delay: conversion failed: ", err)
		}
		clockTicks, ok := timeint.FromUint64[T](wide)
		if !ok {
			return d.fail("delay: conversion failed: ", &fixedpoint.ConversionError{
				Kind:  fixedpoint.Overflow,
				Value: ticks,
				From:  factor,
				To:    duration.Factor[U](),
			})
		}
		return d.run(ticks, clockTicks)
	}
	return d.delay(n, factor)
}

func (d *Delay[T, U]) delay(n T, unit fraction.Fraction) error {
	ticks, err := fixedpoint.ConvertTicks(n, unit, duration.Factor[U](), fixedpoint.FloorCorrected)
	if err != nil {
		return d.fail("delay: conversion failed: ", err)
	}
	return d.run(uint64(n), ticks)
}

func (d *Delay[T, U]) run(requested uint64, ticks T) error {
	timer, err := clock.StartTimer(d.clock, duration.New[U](ticks))
	if err != nil {
		return d.fail("delay: start failed: ", err)
	}
	deadline := timer.Deadline().Ticks()
	core.RecordTiming(core.EvtDelayStart, uint32(deadline-ticks), uint32(requested), uint32(ticks))

	var polls uint32
	_, err = timer.Wait(func() {
		polls++
		if d.wait != nil {
			d.wait()
		}
	})
	if err != nil {
		return d.fail("delay: wait failed: ", err)
	}

	core.RecordTiming(core.EvtDelayDone, uint32(deadline), polls, 0)
	return nil
}

func (d *Delay[T, U]) fail(msg string, err error) error {
	core.DebugPrintln(msg + err.Error())
	return err
}
