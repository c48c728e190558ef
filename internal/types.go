// Package internal implements the viewport render orchestrator.
//
// This package is INTERNAL - clients MUST use the public API in the parent
// package. Reason: allows internal refactoring without breaking changes.
package internal

import (
	"context"
	"errors"
)

// Vec3 is a camera-space position (normalized camera-distance units).
type Vec3 struct {
	X, Y, Z float64
}

// Sub returns the component-wise difference a-b.
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

// CameraPose is an immutable camera snapshot, replaced wholesale on each
// update (no partial updates).
//
// The pose source is responsible for dirty-checking against a small per-axis
// epsilon before delivering a pose; the orchestrator does not re-validate.
type CameraPose struct {
	// Position is the camera eye point.
	Position Vec3

	// Target is the look-at point.
	Target Vec3

	// FOV is the vertical field of view in degrees.
	FOV float64

	// ViewportWidth and ViewportHeight are the presentation surface
	// dimensions in pixels. A collapsed viewport (either ≤0) makes the
	// pose unrenderable (dispatch is skipped, see policy.go).
	ViewportWidth  int
	ViewportHeight int
}

// QualityTier selects a resolution scale, pixel budget and progressive
// sample target. Tiers trade interactivity against final image quality.
type QualityTier int

const (
	// TierDraft renders at half scale with a small sample target.
	// Also forced during interaction regardless of the configured tier.
	TierDraft QualityTier = iota

	// TierStandard renders at native scale.
	TierStandard

	// TierHigh renders at double scale for supersampled output.
	TierHigh
)

// String implements fmt.Stringer (used in logs, stats and config).
func (t QualityTier) String() string {
	switch t {
	case TierDraft:
		return "draft"
	case TierStandard:
		return "standard"
	case TierHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ErrUnknownTier is returned by ParseQualityTier for unrecognized names.
var ErrUnknownTier = errors.New("unknown quality tier")

// ParseQualityTier maps a config string ("draft", "standard", "high") to a
// QualityTier.
func ParseQualityTier(s string) (QualityTier, error) {
	switch s {
	case "draft":
		return TierDraft, nil
	case "standard":
		return TierStandard, nil
	case "high":
		return TierHigh, nil
	default:
		return TierDraft, ErrUnknownTier
	}
}

// RenderRequest is the unit of work handed to the renderer worker.
// Derived from a pose at dispatch time, never persisted.
type RenderRequest struct {
	Pose   CameraPose
	Width  int
	Height int

	// TraceID correlates a dispatch with its completion in logs and stats.
	// Assigned by the orchestrator (uuid) at dispatch time.
	TraceID string

	// Progressive marks a refinement sample for an unchanged pose
	// (as opposed to a fresh dispatch after camera motion).
	Progressive bool
}

// PixelBuffer is a complete rendered frame.
//
// IMMUTABILITY CONTRACT: Pix is shared by reference along the
// renderer → orchestrator → sink chain. The renderer MUST NOT reuse the
// slice after returning it; the sink MUST NOT modify it.
type PixelBuffer struct {
	// Pix holds RGBA pixel data, 4 bytes per pixel, row-major.
	Pix []uint8

	// Width and Height are the buffer dimensions in pixels.
	Width  int
	Height int

	// Samples is the accumulated sample count this buffer represents
	// (1 for the first sample after a reset).
	Samples int

	// TraceID echoes the originating request's TraceID.
	TraceID string
}

// Renderer is the expensive asynchronous image-rendering capability.
//
// The orchestrator enforces single-flight: Render is never invoked again
// before a prior call has returned. Render runs on a worker goroutine owned
// by the orchestrator; it may block for less or more than one pacing
// interval. ResetAccumulation and SampleIndex are called from the
// orchestrator loop, possibly while a Render call is in flight, so
// implementations must make them safe against a concurrent Render.
//
// Accumulation state is exclusively owned by the renderer: the sample index
// strictly increases only while the pose is unchanged since the last reset,
// and any reset sets it back to 0.
type Renderer interface {
	// Render produces one (more) sample for pose at the given resolution.
	// Honoring ctx cancellation is optional but recommended; a renderer
	// that never returns permanently stalls this viewport's rendering
	// (documented limitation, not retried).
	Render(ctx context.Context, pose CameraPose, width, height int) (*PixelBuffer, error)

	// ResetAccumulation discards accumulated samples (sample index → 0).
	ResetAccumulation()

	// SampleIndex reports the number of samples accumulated since the
	// last reset. Monotonically increasing between resets.
	SampleIndex() int
}

// PresentSink receives completed frames for display. Present scales/draws
// the buffer to the target viewport size; it is synchronous, side-effect
// only, and never fails observably to the orchestrator.
type PresentSink interface {
	Present(pb *PixelBuffer, targetWidth, targetHeight int)
}

// Pacer is the host's deferred-scheduling primitive ("next opportunity",
// roughly one display-refresh interval). Schedule arranges for fn to run
// once; the returned cancel func prevents a not-yet-fired callback from
// running and is idempotent.
//
// Implementations: TimerPacer (wall clock), FramePacer (manually advanced,
// for deterministic tests and hosts with their own frame loop).
type Pacer interface {
	Schedule(fn func()) (cancel func())
}

// PoseSource is an optional push-style pose feed. When configured, the
// orchestrator subscribes on Start and disposes the subscription on Stop.
// The returned cancel func must be safe to call more than once.
type PoseSource interface {
	Subscribe(fn func(CameraPose)) (cancel func())
}
