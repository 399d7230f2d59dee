// Package core holds the runtime services shared by the time engine and
// its clock drivers: the software system tick counter, critical sections,
// debug output and the timing event ring.
package core

// TimerFreq is the software system tick rate
const (
	TimerFreq = 12000000 // 12MHz default timer frequency
)

var (
	uptimeHigh   uint32 // Number of times the 32-bit tick counter wrapped
	timerRunning bool
)

// GetTime returns the current system time in timer ticks
func GetTime() uint32 {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return getSystemTicks()
}

// SetTime sets the current system time. A value lower than the previous one
// is taken as a counter wrap and extends the 64-bit uptime.
func SetTime(ticks uint32) {
	state := disableInterrupts()
	prev := getSystemTicks()
	setSystemTicks(ticks)
	wrapped := ticks < prev
	if wrapped {
		uptimeHigh++
	}
	high := uptimeHigh
	restoreInterrupts(state)

	if wrapped {
		RecordTiming(EvtTickWrap, ticks, high, 0)
	}
}

// AdvanceTime moves the system time forward by ticks, wrapping modulo 2^32.
// Called from the platform's tick interrupt or main loop.
func AdvanceTime(ticks uint32) {
	SetTime(GetTime() + ticks)
}

// GetUptime returns 64-bit uptime in timer ticks
func GetUptime() uint64 {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return uint64(uptimeHigh)<<32 | uint64(getSystemTicks())
}

// TimerFromUS converts microseconds to timer ticks
func TimerFromUS(us uint32) uint32 {
	return uint32(uint64(us) * TimerFreq / 1000000)
}

// TimerToUS converts timer ticks to microseconds
func TimerToUS(ticks uint32) uint32 {
	return uint32(uint64(ticks) * 1000000 / TimerFreq)
}

// TimerInit marks the system timer as running. Until it is called, clocks
// built on the tick counter report that they are not running.
func TimerInit() {
	state := disableInterrupts()
	timerRunning = true
	restoreInterrupts(state)
}

// TimerStop marks the system timer as halted
func TimerStop() {
	state := disableInterrupts()
	timerRunning = false
	restoreInterrupts(state)
}

// TimerRunning reports whether TimerInit has been called
func TimerRunning() bool {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return timerRunning
}

// TimerReset stops the timer and clears the counter (for testing)
func TimerReset() {
	state := disableInterrupts()
	setSystemTicks(0)
	uptimeHigh = 0
	timerRunning = false
	restoreInterrupts(state)
}
