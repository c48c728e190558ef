// Package config loads and validates the viewportd YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete viewportd configuration
type Config struct {
	InstanceID       string         `yaml:"instance_id"`
	ShutdownTimeoutS int            `yaml:"shutdown_timeout_s"` // Graceful shutdown timeout in seconds (default: 5)
	Viewport         ViewportConfig `yaml:"viewport"`
	Simulation       SimConfig      `yaml:"simulation"`
	HTTP             HTTPConfig     `yaml:"http"`
	MQTT             MQTTConfig     `yaml:"mqtt"`
}

// ViewportConfig contains orchestrator tuning
type ViewportConfig struct {
	Quality         string  `yaml:"quality"`           // draft, standard, high
	SettleWindow    int     `yaml:"settle_window"`     // pose history window (default: 4)
	SettleThreshold float64 `yaml:"settle_threshold"`  // per-axis world units (default: 0.01)
	PaceIntervalMS  int     `yaml:"pace_interval_ms"`  // settle/progressive tick period (default: 16)
	Width           int     `yaml:"width"`             // viewport width in pixels
	Height          int     `yaml:"height"`            // viewport height in pixels
}

// SimConfig drives the synthetic orbit pose source
type SimConfig struct {
	OrbitRadius   float64 `yaml:"orbit_radius"`    // camera distance from target (default: 6)
	OrbitHeight   float64 `yaml:"orbit_height"`    // camera height (default: 2)
	PoseRateHz    int     `yaml:"pose_rate_hz"`    // pose emission rate during bursts (default: 60)
	BurstS        float64 `yaml:"burst_s"`         // motion burst duration in seconds (default: 1.5)
	PauseS        float64 `yaml:"pause_s"`         // still pause duration in seconds (default: 4)
	Seed          int64   `yaml:"seed"`            // tracer rng seed
}

// HTTPConfig contains the debug/metrics HTTP listener settings
type HTTPConfig struct {
	Addr string `yaml:"addr"` // listen address, e.g. :8089; empty disables HTTP
}

// MQTTConfig contains MQTT broker settings; empty broker disables emission
type MQTTConfig struct {
	Broker          string `yaml:"broker"`
	StatsTopic      string `yaml:"stats_topic"`
	QoS             byte   `yaml:"qos"`
	EmitIntervalS   int    `yaml:"emit_interval_s"`   // stats emission period (default: 5)
	ConnectTimeoutS int    `yaml:"connect_timeout_s"` // initial connect timeout (default: 10)
}

// PaceInterval returns the configured tick period as a duration.
func (v ViewportConfig) PaceInterval() time.Duration {
	return time.Duration(v.PaceIntervalMS) * time.Millisecond
}

// Load reads and parses a YAML configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
