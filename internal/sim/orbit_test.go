package sim

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	viewport "github.com/e7canasta/orion-viewport"
	"github.com/e7canasta/orion-viewport/internal/config"
)

func testCfg() config.SimConfig {
	return config.SimConfig{
		OrbitRadius: 6,
		OrbitHeight: 2,
		PoseRateHz:  200,
		BurstS:      0.05,
		PauseS:      0.02,
	}
}

func TestPoseStaysOnOrbit(t *testing.T) {
	src := NewOrbitSource(testCfg(), 640, 480)

	p := src.Pose()
	r := math.Hypot(p.Position.X, p.Position.Z)
	if math.Abs(r-6) > 1e-9 {
		t.Errorf("orbit radius = %v, want 6", r)
	}
	if p.Position.Y != 2 || p.Target != (viewport.Vec3{Y: 1}) {
		t.Errorf("pose = %+v", p)
	}
	if p.ViewportWidth != 640 || p.ViewportHeight != 480 {
		t.Errorf("viewport = %dx%d", p.ViewportWidth, p.ViewportHeight)
	}
}

func TestSubscribeAndCancel(t *testing.T) {
	src := NewOrbitSource(testCfg(), 320, 240)

	var mu sync.Mutex
	var got []viewport.CameraPose
	cancel := src.Subscribe(func(p viewport.CameraPose) {
		mu.Lock()
		got = append(got, p)
		mu.Unlock()
	})

	src.emit(src.Pose())
	src.emit(src.Pose())
	cancel()
	cancel() // must be safe to call twice
	src.emit(src.Pose())

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 {
		t.Errorf("received %d poses, want 2", len(got))
	}
}

func TestRunEmitsDistinctPosesDuringBurst(t *testing.T) {
	src := NewOrbitSource(testCfg(), 320, 240)

	var mu sync.Mutex
	seen := map[viewport.Vec3]bool{}
	src.Subscribe(func(p viewport.CameraPose) {
		mu.Lock()
		seen[p.Position] = true
		mu.Unlock()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	src.Run(ctx)

	mu.Lock()
	defer mu.Unlock()
	if len(seen) < 3 {
		t.Errorf("saw %d distinct poses, want several", len(seen))
	}
}
