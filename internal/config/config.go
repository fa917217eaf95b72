// Package config loads and saves the oven controller configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the daemon configuration.
type Config struct {
	Hardware HardwareConfig `yaml:"hardware"`
	Loop     LoopConfig     `yaml:"loop"`
	PID      PIDConfig      `yaml:"pid"`
	Profile  []PhaseConfig  `yaml:"profile"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Web      WebConfig      `yaml:"web"`
}

// HardwareConfig selects and calibrates the oven device.
type HardwareConfig struct {
	Driver     string  `yaml:"driver"`      // "gpio" or "serial"
	SSRPin     int     `yaml:"ssr_pin"`     // BCM line for the heater SSR (gpio driver)
	ADCPath    string  `yaml:"adc_path"`    // IIO sysfs channel (gpio driver)
	SerialPort string  `yaml:"serial_port"` // shield port (serial driver)
	BaudRate   int     `yaml:"baud_rate"`
	RefVolts   float64 `yaml:"ref_volts"`   // ADC reference voltage
	FullScale  int     `yaml:"full_scale"`  // ADC full-scale code
	VoltsPerC  float64 `yaml:"volts_per_c"` // probe amplifier gain
}

// LoopConfig sets the daemon timing.
type LoopConfig struct {
	SampleMs    int     `yaml:"sample_ms"`     // probe cadence
	FilterSize  int     `yaml:"filter_size"`   // probe ring average size
	HeaterMs    int     `yaml:"heater_ms"`     // heater proportioning window
	PIDMs       int     `yaml:"pid_ms"`        // regulation period
	ProfileMs   int     `yaml:"profile_ms"`    // setpoint update period
	IdleTempMs  int     `yaml:"idle_temp_ms"`  // idle temperature record period
	IdleTempLog bool    `yaml:"idle_temp_log"` // emit temp records while idle
	MaxSlope    float64 `yaml:"max_slope"`     // degC/s cap for auto ramps
}

// PIDConfig carries the regulator gains. All three stay zero until tuned
// for the actual oven; a zero-gain regulator never heats.
type PIDConfig struct {
	Kp float64 `yaml:"kp"`
	Ki float64 `yaml:"ki"`
	Kd float64 `yaml:"kd"`
}

// PhaseConfig is one ramp/soak phase.
type PhaseConfig struct {
	Name     string  `yaml:"name"`
	EndTemp  float64 `yaml:"end_temp"`
	Slope    float64 `yaml:"slope"`    // degC/s magnitude; 0 = derive from duration
	Duration int     `yaml:"duration"` // seconds; 0 = until measured, <0 = hold forever
}

// MQTTConfig configures the broker link. An empty broker disables MQTT.
type MQTTConfig struct {
	Broker string `yaml:"broker"`
}

// WebConfig configures the status server. An empty addr disables it.
type WebConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Hardware: HardwareConfig{
			Driver:     "gpio",
			SSRPin:     18,
			ADCPath:    "/sys/bus/iio/devices/iio:device0/in_voltage0_raw",
			SerialPort: "/dev/ttyACM0",
			BaudRate:   115200,
			RefVolts:   1.1,
			FullScale:  1023,
			VoltsPerC:  0.005,
		},
		Loop: LoopConfig{
			SampleMs:   10,
			FilterSize: 100,
			HeaterMs:   250,
			PIDMs:      250,
			ProfileMs:  50,
			IdleTempMs: 500,
			MaxSlope:   100,
		},
		Web: WebConfig{
			Addr: ":8080",
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	// Ensure minimum required fields are set (use defaults if missing)
	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// ensureDefaults restores required fields an edited file may have zeroed.
// PID gains, the profile, the broker and the web address are left alone:
// zero values are meaningful there.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Hardware.Driver == "" {
		c.Hardware.Driver = def.Hardware.Driver
	}
	if c.Hardware.SSRPin == 0 {
		c.Hardware.SSRPin = def.Hardware.SSRPin
	}
	if c.Hardware.ADCPath == "" {
		c.Hardware.ADCPath = def.Hardware.ADCPath
	}
	if c.Hardware.SerialPort == "" {
		c.Hardware.SerialPort = def.Hardware.SerialPort
	}
	if c.Hardware.BaudRate == 0 {
		c.Hardware.BaudRate = def.Hardware.BaudRate
	}
	if c.Hardware.RefVolts == 0 {
		c.Hardware.RefVolts = def.Hardware.RefVolts
	}
	if c.Hardware.FullScale == 0 {
		c.Hardware.FullScale = def.Hardware.FullScale
	}
	if c.Hardware.VoltsPerC == 0 {
		c.Hardware.VoltsPerC = def.Hardware.VoltsPerC
	}

	if c.Loop.SampleMs == 0 {
		c.Loop.SampleMs = def.Loop.SampleMs
	}
	if c.Loop.FilterSize == 0 {
		c.Loop.FilterSize = def.Loop.FilterSize
	}
	if c.Loop.HeaterMs == 0 {
		c.Loop.HeaterMs = def.Loop.HeaterMs
	}
	if c.Loop.PIDMs == 0 {
		c.Loop.PIDMs = def.Loop.PIDMs
	}
	if c.Loop.ProfileMs == 0 {
		c.Loop.ProfileMs = def.Loop.ProfileMs
	}
	if c.Loop.IdleTempMs == 0 {
		c.Loop.IdleTempMs = def.Loop.IdleTempMs
	}
	if c.Loop.MaxSlope == 0 {
		c.Loop.MaxSlope = def.Loop.MaxSlope
	}
}
