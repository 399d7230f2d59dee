package mcuclock

import (
	"encoding/json"
	"fmt"
	"os"

	"embtime/host/serial"
)

// Config describes how to reach an MCU and query its uptime.
type Config struct {
	Serial serial.Config `json:"serial"`

	// How long to keep retrying while the port does not open, in
	// milliseconds. USB CDC devices vanish for a moment after an MCU reset.
	OpenTimeout int `json:"open_timeout_ms"`

	// How long to wait for the uptime reply, in milliseconds
	ResponseTimeout int `json:"response_timeout_ms"`

	// Message IDs from the MCU's data dictionary
	Commands CommandIDs `json:"commands"`
}

// CommandIDs maps the messages used by the clock to their dictionary IDs.
type CommandIDs struct {
	GetUptime uint16 `json:"get_uptime"`
	Uptime    uint16 `json:"uptime"`
}

// LoadConfig parses a JSON configuration and fills in defaults
func LoadConfig(jsonData []byte) (*Config, error) {
	var config Config

	if err := json.Unmarshal(jsonData, &config); err != nil {
		return nil, fmt.Errorf("mcuclock: parse config: %w", err)
	}

	applyDefaults(&config)
	return &config, nil
}

// LoadConfigFile reads and parses a JSON configuration file
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mcuclock: read config: %w", err)
	}
	return LoadConfig(data)
}

// DefaultConfig returns the configuration for a gopper MCU on device
func DefaultConfig(device string) *Config {
	config := &Config{Serial: serial.Config{Device: device}}
	applyDefaults(config)
	return config
}

// withDefaults returns a copy of cfg with missing values filled in
func withDefaults(cfg *Config) *Config {
	if cfg == nil {
		return DefaultConfig("")
	}
	config := *cfg
	applyDefaults(&config)
	return &config
}

// applyDefaults fills in missing configuration values
func applyDefaults(config *Config) {
	defaults := serial.DefaultConfig("/dev/ttyACM0")
	if config.Serial.Device == "" {
		config.Serial.Device = defaults.Device
	}
	if config.Serial.Baud == 0 {
		config.Serial.Baud = defaults.Baud
	}
	if config.Serial.ReadTimeout == 0 {
		config.Serial.ReadTimeout = defaults.ReadTimeout
	}

	if config.OpenTimeout == 0 {
		config.OpenTimeout = 5000
	}
	if config.ResponseTimeout == 0 {
		config.ResponseTimeout = 1000
	}

	// gopper registers get_uptime third and uptime fourteenth
	if config.Commands.GetUptime == 0 {
		config.Commands.GetUptime = 2
	}
	if config.Commands.Uptime == 0 {
		config.Commands.Uptime = 13
	}
}
