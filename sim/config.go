package sim

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"tinygo.org/x/rtcclock/rtc"
)

// Config describes a simulated board for clocksim.
type Config struct {
	// Reset is the reset cause at boot: "software", "power" or "pin".
	Reset string `yaml:"reset"`
	// Sentinel is the backup register content at boot.
	Sentinel uint16 `yaml:"sentinel"`
	// Counter is the counter value at boot, used on a warm start.
	Counter uint32 `yaml:"counter"`

	Oscillator string `yaml:"oscillator"`
	// OscillatorReadyAfter is the number of failed ready polls; -1 never comes up.
	OscillatorReadyAfter int    `yaml:"oscillator_ready_after"`
	Start                uint32 `yaml:"start"`
	AlarmDelay           uint32 `yaml:"alarm_delay"`

	DisplayReady bool `yaml:"display_ready"`
	// Ticks is the number of seconds to simulate; 0 runs forever.
	Ticks    int  `yaml:"ticks"`
	Realtime bool `yaml:"realtime"`

	MQTT MQTTConfig `yaml:"mqtt"`
}

type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"client_id"`
}

// DefaultConfig is a freshly flashed board with a working crystal and display.
func DefaultConfig() Config {
	return Config{
		Reset:        "software",
		Oscillator:   "lse",
		DisplayReady: true,
		Ticks:        20,
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Reset = strings.ToLower(strings.TrimSpace(c.Reset))
	c.Oscillator = strings.ToLower(strings.TrimSpace(c.Oscillator))
	if c.MQTT.Broker != "" {
		if c.MQTT.Topic == "" {
			c.MQTT.Topic = "rtcclock/frame"
		}
		if c.MQTT.ClientID == "" {
			c.MQTT.ClientID = "clocksim"
		}
	}
}

// Validate checks the configuration without changing it.
func (c *Config) Validate() error {
	if _, err := c.ResetCause(); err != nil {
		return err
	}
	if _, err := c.OscillatorSource(); err != nil {
		return err
	}
	if c.OscillatorReadyAfter < -1 {
		return fmt.Errorf("oscillator_ready_after must be -1 or more, got %d", c.OscillatorReadyAfter)
	}
	if c.Ticks < 0 {
		return fmt.Errorf("ticks must not be negative, got %d", c.Ticks)
	}
	if c.MQTT.Broker != "" && c.MQTT.Topic == "" {
		return fmt.Errorf("mqtt: topic is required with broker %q", c.MQTT.Broker)
	}
	return nil
}

// ResetCause maps Reset onto reset flags.
func (c *Config) ResetCause() (rtc.ResetCause, error) {
	switch c.Reset {
	case "", "software":
		return 0, nil
	case "power":
		return rtc.ResetPowerOn, nil
	case "pin":
		return rtc.ResetPin, nil
	default:
		return 0, fmt.Errorf("unknown reset cause %q", c.Reset)
	}
}

// OscillatorSource maps Oscillator onto a clock source.
func (c *Config) OscillatorSource() (rtc.Oscillator, error) {
	switch c.Oscillator {
	case "", "lse":
		return rtc.OscillatorLSE, nil
	case "lsi":
		return rtc.OscillatorLSI, nil
	default:
		return 0, fmt.Errorf("unknown oscillator %q", c.Oscillator)
	}
}

// Board builds the simulated peripheral described by the configuration.
func (c *Config) Board() (*RTC, error) {
	cause, err := c.ResetCause()
	if err != nil {
		return nil, err
	}
	r := NewRTC()
	r.Cause = cause
	r.Backup = c.Sentinel
	r.Value = c.Counter
	r.ReadyAfter = c.OscillatorReadyAfter
	if c.Sentinel == rtc.Sentinel {
		// a board that finished a cold start earlier keeps ticking with interrupts armed
		r.InterruptsEnabled = true
		r.Selected = true
	}
	return r, nil
}

// RTCConfig returns the initializer configuration.
func (c *Config) RTCConfig() (rtc.Config, error) {
	o, err := c.OscillatorSource()
	if err != nil {
		return rtc.Config{}, err
	}
	return rtc.Config{
		Oscillator: o,
		Start:      c.Start,
		AlarmDelay: c.AlarmDelay,
	}, nil
}
