//go:build rp2040 && !rp2350

package rp2

// RP2040 TIMER
const (
	timerBase     = 0x40054000
	timerRawHAddr = timerBase + 0x08 // TIMERAWH
	timerRawLAddr = timerBase + 0x0C // TIMERAWL
)
