//go:build rp2040 || rp2350

// Package rp2 provides clocks backed by the RP2040/RP2350 TIMER peripheral,
// a free-running 64-bit microsecond counter.
package rp2

import (
	"runtime/volatile"
	"unsafe"

	"embtime/clock"
	"embtime/core"
	"embtime/duration"
)

var (
	timerRAWH = (*volatile.Register32)(unsafe.Pointer(uintptr(timerRawHAddr)))
	timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerRawLAddr)))
)

// Clock is the full 64-bit microsecond counter. It does not wrap in the
// lifetime of a device.
type Clock struct{}

// TryNow implements clock.Clock.
func (Clock) TryNow() (clock.Instant[uint64, duration.Microsecond], error) {
	return clock.NewInstant[duration.Microsecond](readUptime()), nil
}

// Clock32 is the low word of the counter. It is a single register read and
// wraps about every 71 minutes.
type Clock32 struct{}

// TryNow implements clock.Clock.
func (Clock32) TryNow() (clock.Instant[uint32, duration.Microsecond], error) {
	return clock.NewInstant[duration.Microsecond](timerRAWL.Get()), nil
}

// Init settles the counter after the runtime has started the tick
// generators.
func Init() {
	// First reads after clock setup can be stale on RP2350
	_ = timerRAWL.Get()
	_ = timerRAWL.Get()
	_ = timerRAWL.Get()
	core.DebugPrintln("rp2: timer at " + core.Utoa64(readUptime()) + "us")
}

// SyncSysTick copies the low word of the hardware counter into the core
// software tick counter. Call it from the main loop when core ticks are
// meant to follow the hardware timer.
func SyncSysTick() {
	core.SetTime(timerRAWL.Get())
}

func readUptime() uint64 {
	// High, low, high: retry if the low word rolled over between reads
	for {
		high1 := timerRAWH.Get()
		low := timerRAWL.Get()
		high2 := timerRAWH.Get()
		if high1 == high2 {
			return uint64(high1)<<32 | uint64(low)
		}
	}
}

var (
	_ clock.Clock[uint64, duration.Microsecond] = Clock{}
	_ clock.Clock[uint32, duration.Microsecond] = Clock32{}
)
