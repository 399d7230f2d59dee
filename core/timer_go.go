//go:build !tinygo

package core

var systemTicks uint32

// getSystemTicks reads the tick counter (host builds and tests)
func getSystemTicks() uint32 {
	return systemTicks
}

// setSystemTicks writes the tick counter (host builds and tests)
func setSystemTicks(ticks uint32) {
	systemTicks = ticks
}
