//go:build rp2350

package rp2

// RP2350 TIMER0. Offsets differ from the RP2040: 0x08/0x0C are the latched
// pair here, and the raw unlatched words sit at 0x24/0x28.
const (
	timerBase     = 0x400B0000
	timerRawHAddr = timerBase + 0x24 // TIMERAWH
	timerRawLAddr = timerBase + 0x28 // TIMERAWL
)
