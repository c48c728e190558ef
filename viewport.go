package viewport

import (
	"context"
	"time"

	"github.com/e7canasta/orion-viewport/internal"
)

// Types are re-exported from the internal package to keep one
// implementation package while hiding it from clients.

// Vec3 is a camera-space position.
type Vec3 = internal.Vec3

// CameraPose is an immutable camera snapshot.
// See internal/types.go for full documentation.
type CameraPose = internal.CameraPose

// QualityTier selects resolution scale, pixel budget and sample target.
type QualityTier = internal.QualityTier

// Quality tiers.
const (
	TierDraft    = internal.TierDraft
	TierStandard = internal.TierStandard
	TierHigh     = internal.TierHigh
)

// ParseQualityTier maps "draft", "standard" or "high" to a QualityTier.
func ParseQualityTier(s string) (QualityTier, error) {
	return internal.ParseQualityTier(s)
}

// PixelBuffer is a complete rendered frame.
// See internal/types.go for the immutability contract.
type PixelBuffer = internal.PixelBuffer

// RenderRequest is the unit of work handed to the renderer.
type RenderRequest = internal.RenderRequest

// Renderer is the single-flight async rendering capability contract.
// See internal/types.go for full documentation.
type Renderer = internal.Renderer

// PresentSink receives completed frames for display.
type PresentSink = internal.PresentSink

// Pacer is the deferred-scheduling ("next frame") primitive.
type Pacer = internal.Pacer

// PoseSource is an optional push-style pose feed, subscribed on Start and
// disposed on Stop.
type PoseSource = internal.PoseSource

// StatsSnapshot is a non-blocking operational snapshot.
type StatsSnapshot = internal.StatsSnapshot

// Config wires an orchestrator to its collaborators.
// See internal/orchestrator.go for field documentation and defaults.
type Config = internal.Config

// DefaultPaceInterval is the timer pacer's default tick period.
const DefaultPaceInterval = internal.DefaultPaceInterval

// TimerPacer paces on the wall clock (default 16ms).
type TimerPacer = internal.TimerPacer

// FramePacer is manually advanced: deterministic for tests, and the right
// pacer for hosts that own a frame loop (call Advance once per frame).
type FramePacer = internal.FramePacer

// NewTimerPacer creates a wall-clock pacer. Non-positive interval uses the
// 16ms default.
func NewTimerPacer(interval time.Duration) *TimerPacer {
	return internal.NewTimerPacer(interval)
}

// NewFramePacer creates a manually-advanced pacer.
func NewFramePacer() *FramePacer {
	return internal.NewFramePacer()
}

// Orchestrator is the public interface for viewport render orchestration.
//
// Design:
//   - Interface (not concrete type) for future extensibility
//   - Lifecycle: New() → Start() → OnPose()/OnQualityChanged() → Stop()
//   - OnPose/OnQualityChanged/Stats are non-blocking and safe for
//     concurrent use; intended usage is a single pose source.
//
// Implementation is in internal/orchestrator.go (hidden from clients).
type Orchestrator interface {
	// Start spawns the orchestration loop and subscribes the configured
	// PoseSource, if any. Returns an error if already started.
	Start(ctx context.Context) error

	// Stop disposes the pose subscription and shuts the loop down,
	// blocking until it exits. Idempotent.
	Stop() error

	// OnPose accepts a materially different camera pose. Non-blocking;
	// bursts are coalesced, only the latest pose is acted on.
	OnPose(pose CameraPose)

	// OnQualityChanged selects a new quality tier. If a pose has been
	// seen, accumulation resets and a fresh render is dispatched.
	OnQualityChanged(tier QualityTier)

	// Stats returns an operational snapshot (non-blocking).
	Stats() StatsSnapshot
}

// New creates an orchestrator for one viewport.
//
// A nil cfg.Renderer yields a degraded no-op instance: every method returns
// immediately and no pixels are ever produced (documented mode, not an
// error).
func New(cfg Config) Orchestrator {
	return internal.New(cfg)
}
