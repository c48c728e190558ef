// Package sim provides a synthetic camera operator for soak runs: an
// orbiting pose source that alternates motion bursts with still pauses,
// exercising coalescing during bursts and settle/refine during pauses.
package sim

import (
	"context"
	"math"
	"sync"
	"time"

	viewport "github.com/e7canasta/orion-viewport"
	"github.com/e7canasta/orion-viewport/internal/config"
)

// OrbitSource implements viewport.PoseSource with a scripted orbit.
type OrbitSource struct {
	cfg           config.SimConfig
	width, height int

	mu     sync.Mutex
	nextID int
	subs   map[int]func(viewport.CameraPose)
	angle  float64
}

// NewOrbitSource creates a source emitting poses for a w x h viewport.
func NewOrbitSource(cfg config.SimConfig, w, h int) *OrbitSource {
	return &OrbitSource{
		cfg:    cfg,
		width:  w,
		height: h,
		subs:   make(map[int]func(viewport.CameraPose)),
	}
}

// Subscribe implements viewport.PoseSource.
func (o *OrbitSource) Subscribe(fn func(viewport.CameraPose)) (cancel func()) {
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.subs[id] = fn
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		delete(o.subs, id)
		o.mu.Unlock()
	}
}

// Run drives the orbit until ctx is cancelled: a burst of poses at the
// configured rate, then a still pause long enough for the viewport to
// settle and refine, then the next burst.
func (o *OrbitSource) Run(ctx context.Context) {
	step := time.Second / time.Duration(o.cfg.PoseRateHz)
	burst := time.Duration(o.cfg.BurstS * float64(time.Second))
	pause := time.Duration(o.cfg.PauseS * float64(time.Second))

	// Initial pose so the viewport has something to show before the
	// first burst.
	o.emit(o.advance(0))

	for {
		burstEnd := time.Now().Add(burst)
		for time.Now().Before(burstEnd) {
			select {
			case <-ctx.Done():
				return
			case <-time.After(step):
				o.emit(o.advance(0.8 * step.Seconds()))
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(pause):
		}
	}
}

// Pose returns the camera pose at the current orbit angle.
func (o *OrbitSource) Pose() viewport.CameraPose {
	o.mu.Lock()
	angle := o.angle
	o.mu.Unlock()
	return o.poseAt(angle)
}

func (o *OrbitSource) advance(delta float64) viewport.CameraPose {
	o.mu.Lock()
	o.angle += delta
	angle := o.angle
	o.mu.Unlock()
	return o.poseAt(angle)
}

func (o *OrbitSource) poseAt(angle float64) viewport.CameraPose {
	return viewport.CameraPose{
		Position: viewport.Vec3{
			X: o.cfg.OrbitRadius * math.Cos(angle),
			Y: o.cfg.OrbitHeight,
			Z: o.cfg.OrbitRadius * math.Sin(angle),
		},
		Target:         viewport.Vec3{Y: 1},
		FOV:            45,
		ViewportWidth:  o.width,
		ViewportHeight: o.height,
	}
}

func (o *OrbitSource) emit(pose viewport.CameraPose) {
	o.mu.Lock()
	fns := make([]func(viewport.CameraPose), 0, len(o.subs))
	for _, fn := range o.subs {
		fns = append(fns, fn)
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn(pose)
	}
}
