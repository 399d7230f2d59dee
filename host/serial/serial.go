// Package serial abstracts the host side of an MCU serial link.
package serial

import (
	"io"
)

// Port is a serial connection to an MCU. Implementations: NativePort over
// github.com/tarm/serial, and in-memory fakes in tests.
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string `json:"device"`

	// Baud rate (typically 250000 for Klipper, but USB CDC ignores this)
	Baud int `json:"baud"`

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int `json:"read_timeout_ms"`
}

// DefaultConfig returns the usual Klipper link settings for device
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        250000,
		ReadTimeout: 100,
	}
}
