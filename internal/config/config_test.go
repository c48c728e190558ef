package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "viewport.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
instance_id: console-demo-01
shutdown_timeout_s: 3
viewport:
  quality: high
  settle_window: 6
  settle_threshold: 0.02
  pace_interval_ms: 8
  width: 1280
  height: 720
simulation:
  orbit_radius: 8
  pose_rate_hz: 120
http:
  addr: ":8089"
mqtt:
  broker: tcp://localhost:1883
  qos: 1
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Viewport.Quality != "high" || cfg.Viewport.SettleWindow != 6 {
		t.Errorf("viewport = %+v", cfg.Viewport)
	}
	if cfg.Viewport.PaceInterval().Milliseconds() != 8 {
		t.Errorf("pace interval = %v", cfg.Viewport.PaceInterval())
	}
	if cfg.MQTT.StatsTopic != "care/viewport/stats/console-demo-01" {
		t.Errorf("stats topic = %q", cfg.MQTT.StatsTopic)
	}
	if cfg.MQTT.EmitIntervalS != 5 {
		t.Errorf("emit interval default = %d", cfg.MQTT.EmitIntervalS)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "instance_id: demo\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Viewport.Quality != "standard" {
		t.Errorf("quality default = %q", cfg.Viewport.Quality)
	}
	if cfg.Viewport.SettleWindow != 4 || cfg.Viewport.SettleThreshold != 0.01 {
		t.Errorf("settle defaults = %d / %v", cfg.Viewport.SettleWindow, cfg.Viewport.SettleThreshold)
	}
	if cfg.Viewport.PaceIntervalMS != 16 {
		t.Errorf("pace default = %d", cfg.Viewport.PaceIntervalMS)
	}
	if cfg.ShutdownTimeoutS != 5 {
		t.Errorf("shutdown default = %d", cfg.ShutdownTimeoutS)
	}
	if cfg.MQTT.StatsTopic != "" {
		t.Errorf("mqtt should stay disabled, topic = %q", cfg.MQTT.StatsTopic)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"missing instance", "viewport: {quality: draft}\n", "instance_id is required"},
		{"bad instance", "instance_id: Not_Valid\n", "instance_id must match"},
		{"bad quality", "instance_id: demo\nviewport: {quality: ultra}\n", "viewport.quality"},
		{"small window", "instance_id: demo\nviewport: {settle_window: 1}\n", "settle_window"},
		{"negative threshold", "instance_id: demo\nviewport: {settle_threshold: -0.5}\n", "settle_threshold"},
		{"bad qos", "instance_id: demo\nmqtt: {broker: tcp://x:1883, qos: 3}\n", "mqtt.qos"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want substring %q", err, tc.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
