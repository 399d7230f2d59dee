//go:build rp2040

package pio

var (
	// RP2040 has 2 PIO blocks (PIO0, PIO1) with 4 state machines each
	smAllocations = [2][4]bool{} // [pioNum][smNum]
	nextPIONum    = uint8(0)
	nextSMNum     = uint8(0)
)

// allocateSM reserves the next free state machine, round-robin across
// both blocks. Returns (pioNum, smNum, ok).
func allocateSM() (uint8, uint8, bool) {
	for i := 0; i < 8; i++ {
		pioNum := nextPIONum
		smNum := nextSMNum

		nextSMNum++
		if nextSMNum >= 4 {
			nextSMNum = 0
			nextPIONum = (nextPIONum + 1) % 2
		}

		if !smAllocations[pioNum][smNum] {
			smAllocations[pioNum][smNum] = true
			return pioNum, smNum, true
		}
	}
	return 0, 0, false
}

func releaseSM(pioNum, smNum uint8) {
	smAllocations[pioNum][smNum] = false
}

// AllocationStatus returns which state machines are in use
func AllocationStatus() [2][4]bool {
	return smAllocations
}
