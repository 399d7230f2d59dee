//go:build tinygo

package core

import "runtime/interrupt"

// State is the saved interrupt mask
type State = interrupt.State

// disableInterrupts enters a critical section and returns the previous mask.
// Cortex-M0+ has no 64-bit atomics, so the two-word uptime is read here.
func disableInterrupts() State {
	return interrupt.Disable()
}

// restoreInterrupts leaves a critical section
func restoreInterrupts(state State) {
	interrupt.Restore(state)
}
