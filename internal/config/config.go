// Package config carries the startup configuration: tap detection
// targets, sensor and strip wiring, animation timing and telemetry.
// Nothing here changes at runtime.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tap struct {
	ThresholdG float64 `yaml:"threshold_g"` // acceleration spike that counts as a step
	TimeLimitS float64 `yaml:"time_limit_s"`
}

type Sensor struct {
	Bus          string `yaml:"bus"` // I2C bus name, "" for the first one
	Addr         uint16 `yaml:"addr"`
	RangeG       int    `yaml:"range_g"`
	SampleRateHz int    `yaml:"sample_rate_hz"`
}

type Strip struct {
	Driver string `yaml:"driver"` // "auto" | "spi" | "console"
	Port   string `yaml:"port"`   // SPI port name, "" for the first one
	Pixels int    `yaml:"pixels"`
}

type Animation struct {
	FlashS float64 `yaml:"flash_s"`
	FreqHz float64 `yaml:"freq_hz"`
}

type Loop struct {
	IntervalMs int `yaml:"interval_ms"`
}

type Telemetry struct {
	Listen     string `yaml:"listen"`      // HTTP address for /ws, /diag, /healthz; "" disables
	MQTTBroker string `yaml:"mqtt_broker"` // e.g. tcp://host:1883; "" disables
	MQTTTopic  string `yaml:"mqtt_topic"`
}

type Log struct {
	Level string `yaml:"level"`
}

type Config struct {
	Tap       Tap       `yaml:"tap"`
	Sensor    Sensor    `yaml:"sensor"`
	Strip     Strip     `yaml:"strip"`
	Animation Animation `yaml:"animation"`
	Loop      Loop      `yaml:"loop"`
	Telemetry Telemetry `yaml:"telemetry,omitempty"`
	Log       Log       `yaml:"log,omitempty"`
}

// Default returns the sneakers build: 10 pixels, 1.5g steps inside a
// 250ms window, half-second rainbow flash.
func Default() *Config {
	return &Config{
		Tap:       Tap{ThresholdG: 1.5, TimeLimitS: 0.25},
		Sensor:    Sensor{Addr: 0x19, RangeG: 4, SampleRateHz: 50},
		Strip:     Strip{Driver: "auto", Pixels: 10},
		Animation: Animation{FlashS: 0.5, FreqHz: 1.0},
		Loop:      Loop{IntervalMs: 10},
		Telemetry: Telemetry{MQTTTopic: "circuitwalker/steps"},
		Log:       Log{Level: "info"},
	}
}

// Load reads the YAML at path over the defaults; fields absent from
// the file keep their default values.
func Load(path string) (*Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return c, nil
}

// Validate rejects values the hardware or animation math cannot take.
func (c *Config) Validate() error {
	if c.Tap.ThresholdG <= 0 {
		return fmt.Errorf("config: tap threshold must be positive, got %v", c.Tap.ThresholdG)
	}
	if c.Tap.TimeLimitS <= 0 {
		return fmt.Errorf("config: tap time limit must be positive, got %v", c.Tap.TimeLimitS)
	}
	if c.Sensor.RangeG <= 0 {
		return fmt.Errorf("config: sensor range must be positive, got %d", c.Sensor.RangeG)
	}
	if c.Sensor.SampleRateHz <= 0 {
		return fmt.Errorf("config: sensor sample rate must be positive, got %d", c.Sensor.SampleRateHz)
	}
	switch c.Strip.Driver {
	case "auto", "spi", "console":
	default:
		return fmt.Errorf("config: unknown strip driver %q", c.Strip.Driver)
	}
	if c.Strip.Pixels <= 0 {
		return fmt.Errorf("config: pixel count must be positive, got %d", c.Strip.Pixels)
	}
	if c.Animation.FlashS <= 0 {
		return fmt.Errorf("config: flash duration must be positive, got %v", c.Animation.FlashS)
	}
	if c.Animation.FreqHz <= 0 {
		return fmt.Errorf("config: animation frequency must be positive, got %v", c.Animation.FreqHz)
	}
	if c.Loop.IntervalMs <= 0 {
		return fmt.Errorf("config: loop interval must be positive, got %d", c.Loop.IntervalMs)
	}
	return nil
}
