package emitter

import (
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	viewport "github.com/e7canasta/orion-viewport"
)

func TestEncodeSnapshotRoundTrip(t *testing.T) {
	in := viewport.StatsSnapshot{
		PosesReceived:    120,
		PosesCoalesced:   40,
		RendersCompleted: 7,
		State:            "progressive",
		SampleIndex:      9,
	}

	payload, err := EncodeSnapshot("console-demo-01", in)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	var out StatsMessage
	if err := msgpack.Unmarshal(payload, &out); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if out.InstanceID != "console-demo-01" {
		t.Errorf("instance = %q", out.InstanceID)
	}
	if out.TimestampS == 0 {
		t.Error("timestamp not set")
	}
	if out.Stats != in {
		t.Errorf("stats = %+v, want %+v", out.Stats, in)
	}
}

func TestPublishWithoutConnectFails(t *testing.T) {
	e := NewMQTTEmitter(nil, nil)
	if err := e.publishOnce(); err == nil {
		t.Fatal("expected error before Connect")
	}
	if e.Errors() != 1 {
		t.Errorf("errors = %d, want 1", e.Errors())
	}
}
