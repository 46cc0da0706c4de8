package config

import (
	"fmt"
	"time"

	"cuelang.org/go/cue"

	"github.com/yap-protocol/yap/pkg/transport"
)

// Config is the yap configuration document.
//
//	address: "localhost:12345"
//	timeout: "5s"
//	serial:
//	  path: /dev/ttyUSB0
//	  baud_rate: 19200
//	responder:
//	  listen: ":12345"
//	  values:
//	    SERIAL_NUMBER: "AFG4387X01"
//	gateway:
//	  listen: ":8080"
type Config struct {
	Address   string          `json:"address,omitempty"`
	Timeout   string          `json:"timeout,omitempty"`
	Serial    *SerialConfig   `json:"serial,omitempty"`
	Responder ResponderConfig `json:"responder,omitempty"`
	Gateway   GatewayConfig   `json:"gateway,omitempty"`
}

// SerialConfig selects a serial line instead of TCP.
type SerialConfig struct {
	Path     string `json:"path"`
	BaudRate int    `json:"baud_rate,omitempty"`
	DataBits int    `json:"data_bits,omitempty"`
	StopBits int    `json:"stop_bits,omitempty"`
	Parity   string `json:"parity,omitempty"`
}

// ResponderConfig configures `yap serve`.
type ResponderConfig struct {
	Listen string `json:"listen,omitempty"`
	// Values maps data point names to the values served.
	Values map[string]any `json:"values,omitempty"`
}

// GatewayConfig configures `yap gateway`.
type GatewayConfig struct {
	Listen string `json:"listen,omitempty"`
}

// Decode reads a Config out of a loaded value.
func Decode(v cue.Value) (*Config, error) {
	var cfg Config
	if err := v.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if _, err := cfg.ReadTimeout(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads the files matching patterns into a Config.
func Load(patterns ...string) (*Config, error) {
	v, err := LoadAndUnifyPaths(patterns)
	if err != nil {
		return nil, err
	}
	return Decode(v)
}

// ReadTimeout parses Timeout. An empty value yields zero.
func (c *Config) ReadTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid timeout %q: must be positive", c.Timeout)
	}
	return d, nil
}

// PortOptions returns the serial line settings.
func (s *SerialConfig) PortOptions() transport.PortOptions {
	return transport.PortOptions{
		BaudRate: s.BaudRate,
		DataBits: s.DataBits,
		StopBits: s.StopBits,
		Parity:   s.Parity,
	}
}
