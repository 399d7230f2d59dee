// Package sysclock exposes the core software tick counter as clocks.
//
// The counter runs at core.TimerFreq and is driven by platform code through
// core.AdvanceTime or core.SetTime. SysTick reads the raw 32-bit counter and
// wraps every few minutes; Uptime extends it to 64 bits with the wrap count.
package sysclock

import (
	"embtime/clock"
	"embtime/core"
	"embtime/fraction"
)

// Tick is one period of the system tick counter.
type Tick struct{}

func (Tick) ScalingFactor() fraction.Fraction { return fraction.Hz(core.TimerFreq) }
func (Tick) Symbol() string                   { return "ticks" }

// SysTick is the 32-bit system tick counter.
type SysTick struct{}

// TryNow implements clock.Clock.
func (SysTick) TryNow() (clock.Instant[uint32, Tick], error) {
	if !core.TimerRunning() {
		return clock.Instant[uint32, Tick]{}, clock.ErrNotRunning
	}
	return clock.NewInstant[Tick](core.GetTime()), nil
}

// Uptime is the 64-bit tick count since the counter was last reset.
type Uptime struct{}

// TryNow implements clock.Clock.
func (Uptime) TryNow() (clock.Instant[uint64, Tick], error) {
	if !core.TimerRunning() {
		return clock.Instant[uint64, Tick]{}, clock.ErrNotRunning
	}
	return clock.NewInstant[Tick](core.GetUptime()), nil
}

var (
	_ clock.Clock[uint32, Tick] = SysTick{}
	_ clock.Clock[uint64, Tick] = Uptime{}
)
