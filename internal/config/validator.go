package config

import (
	"fmt"
	"regexp"

	viewport "github.com/e7canasta/orion-viewport"
)

var instanceIDPattern = regexp.MustCompile(`^[a-z0-9\-]+$`)

// Validate checks the configuration and fills defaults in place
func Validate(cfg *Config) error {
	if cfg.InstanceID == "" {
		return fmt.Errorf("instance_id is required")
	}
	if !instanceIDPattern.MatchString(cfg.InstanceID) {
		return fmt.Errorf("instance_id must match pattern [a-z0-9-]+")
	}
	if cfg.ShutdownTimeoutS <= 0 {
		cfg.ShutdownTimeoutS = 5
	}

	// Viewport tuning
	if cfg.Viewport.Quality == "" {
		cfg.Viewport.Quality = "standard"
	}
	if _, err := viewport.ParseQualityTier(cfg.Viewport.Quality); err != nil {
		return fmt.Errorf("viewport.quality: %w", err)
	}
	if cfg.Viewport.SettleWindow == 0 {
		cfg.Viewport.SettleWindow = 4
	}
	if cfg.Viewport.SettleWindow < 2 {
		return fmt.Errorf("viewport.settle_window must be >= 2")
	}
	if cfg.Viewport.SettleThreshold == 0 {
		cfg.Viewport.SettleThreshold = 0.01
	}
	if cfg.Viewport.SettleThreshold < 0 {
		return fmt.Errorf("viewport.settle_threshold must be >= 0")
	}
	if cfg.Viewport.PaceIntervalMS <= 0 {
		cfg.Viewport.PaceIntervalMS = 16
	}
	if cfg.Viewport.Width <= 0 {
		cfg.Viewport.Width = 960
	}
	if cfg.Viewport.Height <= 0 {
		cfg.Viewport.Height = 540
	}

	// Simulation defaults
	if cfg.Simulation.OrbitRadius <= 0 {
		cfg.Simulation.OrbitRadius = 6
	}
	if cfg.Simulation.OrbitHeight == 0 {
		cfg.Simulation.OrbitHeight = 2
	}
	if cfg.Simulation.PoseRateHz <= 0 {
		cfg.Simulation.PoseRateHz = 60
	}
	if cfg.Simulation.BurstS <= 0 {
		cfg.Simulation.BurstS = 1.5
	}
	if cfg.Simulation.PauseS <= 0 {
		cfg.Simulation.PauseS = 4
	}

	// MQTT is optional; validate only when a broker is set
	if cfg.MQTT.Broker != "" {
		if cfg.MQTT.StatsTopic == "" {
			cfg.MQTT.StatsTopic = fmt.Sprintf("care/viewport/stats/%s", cfg.InstanceID)
		}
		if cfg.MQTT.QoS > 2 {
			return fmt.Errorf("mqtt.qos must be 0, 1 or 2")
		}
		if cfg.MQTT.EmitIntervalS <= 0 {
			cfg.MQTT.EmitIntervalS = 5
		}
		if cfg.MQTT.ConnectTimeoutS <= 0 {
			cfg.MQTT.ConnectTimeoutS = 10
		}
	}

	return nil
}
