// Package emitter publishes orchestrator stats snapshots to MQTT for the
// care-console fleet dashboard.
package emitter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/vmihailenco/msgpack/v5"

	viewport "github.com/e7canasta/orion-viewport"
	"github.com/e7canasta/orion-viewport/internal/config"
)

// StatsSource yields the snapshot the emitter publishes.
type StatsSource interface {
	Stats() viewport.StatsSnapshot
}

// MQTTEmitter periodically publishes msgpack-encoded stats snapshots.
type MQTTEmitter struct {
	cfg    *config.Config
	source StatsSource
	client mqtt.Client

	mu        sync.RWMutex
	published uint64
	errors    uint64
	connected bool
}

// NewMQTTEmitter creates an emitter; Connect must be called before Run.
func NewMQTTEmitter(cfg *config.Config, source StatsSource) *MQTTEmitter {
	return &MQTTEmitter{cfg: cfg, source: source}
}

// Connect establishes connection to the MQTT broker
func (e *MQTTEmitter) Connect(ctx context.Context) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(e.cfg.MQTT.Broker)
	opts.SetClientID(fmt.Sprintf("viewport-%s", e.cfg.InstanceID))
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(c mqtt.Client) {
		e.mu.Lock()
		e.connected = true
		e.mu.Unlock()
		slog.Info("mqtt connection established",
			"broker", e.cfg.MQTT.Broker,
			"topic", e.cfg.MQTT.StatsTopic)
	}

	opts.OnConnectionLost = func(c mqtt.Client, err error) {
		e.mu.Lock()
		e.connected = false
		e.mu.Unlock()
		slog.Warn("mqtt connection lost, will auto-reconnect",
			"error", err,
			"broker", e.cfg.MQTT.Broker)
	}

	e.client = mqtt.NewClient(opts)

	slog.Info("connecting to mqtt broker", "broker", e.cfg.MQTT.Broker)

	timeout := time.Duration(e.cfg.MQTT.ConnectTimeoutS) * time.Second
	token := e.client.Connect()
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("mqtt connection timeout after %s", timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connection failed: %w", err)
	}

	e.mu.Lock()
	e.connected = true
	e.mu.Unlock()

	return nil
}

// Run publishes one snapshot per emit interval until ctx is cancelled.
func (e *MQTTEmitter) Run(ctx context.Context) {
	interval := time.Duration(e.cfg.MQTT.EmitIntervalS) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := e.publishOnce(); err != nil {
				slog.Warn("stats publish failed", "error", err)
			}
		}
	}
}

func (e *MQTTEmitter) publishOnce() error {
	if !e.isConnected() {
		e.countError()
		return fmt.Errorf("mqtt not connected")
	}

	payload, err := EncodeSnapshot(e.cfg.InstanceID, e.source.Stats())
	if err != nil {
		e.countError()
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	token := e.client.Publish(e.cfg.MQTT.StatsTopic, e.cfg.MQTT.QoS, false, payload)
	if !token.WaitTimeout(2 * time.Second) {
		e.countError()
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		e.countError()
		return fmt.Errorf("publish failed: %w", err)
	}

	e.mu.Lock()
	e.published++
	e.mu.Unlock()
	return nil
}

// Close disconnects from the broker.
func (e *MQTTEmitter) Close() {
	if e.client != nil && e.client.IsConnected() {
		e.client.Disconnect(250)
	}
	slog.Info("mqtt emitter closed", "published", e.Published(), "errors", e.Errors())
}

// Published returns the number of successfully published snapshots.
func (e *MQTTEmitter) Published() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.published
}

// Errors returns the number of failed publish attempts.
func (e *MQTTEmitter) Errors() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.errors
}

func (e *MQTTEmitter) isConnected() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.connected
}

func (e *MQTTEmitter) countError() {
	e.mu.Lock()
	e.errors++
	e.mu.Unlock()
}

// StatsMessage is the wire envelope around a snapshot.
type StatsMessage struct {
	InstanceID string                 `msgpack:"instance_id"`
	TimestampS int64                  `msgpack:"ts"`
	Stats      viewport.StatsSnapshot `msgpack:"stats"`
}

// EncodeSnapshot wraps a snapshot in the wire envelope and encodes it.
func EncodeSnapshot(instanceID string, s viewport.StatsSnapshot) ([]byte, error) {
	return msgpack.Marshal(StatsMessage{
		InstanceID: instanceID,
		TimestampS: time.Now().Unix(),
		Stats:      s,
	})
}
