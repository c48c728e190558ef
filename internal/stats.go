package internal

import "sync/atomic"

// StatsSnapshot is a non-blocking snapshot of orchestrator operational
// state. Drops (coalesced poses) are EXPECTED and HEALTHY here: they mean
// latest-wins semantics are protecting the renderer from stale work.
//
// Tagged for the telemetry emitter (msgpack) and the debug HTTP surface
// (json).
type StatsSnapshot struct {
	// PosesReceived counts poses accepted by OnPose.
	PosesReceived uint64 `json:"poses_received" msgpack:"poses_received"`

	// PosesCoalesced counts poses discarded by latest-wins overwrite,
	// either at the ingress mailbox or in the render gate's pending slot.
	PosesCoalesced uint64 `json:"poses_coalesced" msgpack:"poses_coalesced"`

	// RendersDispatched counts render calls issued to the renderer.
	RendersDispatched uint64 `json:"renders_dispatched" msgpack:"renders_dispatched"`

	// RendersCompleted counts render calls that returned a frame.
	RendersCompleted uint64 `json:"renders_completed" msgpack:"renders_completed"`

	// RenderFailures counts render calls that returned an error.
	// A failure clears the gate through the normal completion path and
	// never halts future renders.
	RenderFailures uint64 `json:"render_failures" msgpack:"render_failures"`

	// RendersSkippedDegenerate counts dispatches skipped because the
	// resolution policy produced a zero dimension (collapsed viewport).
	RendersSkippedDegenerate uint64 `json:"renders_skipped_degenerate" msgpack:"renders_skipped_degenerate"`

	// ProgressiveSteps counts refinement renders issued after settling.
	ProgressiveSteps uint64 `json:"progressive_steps" msgpack:"progressive_steps"`

	// TicksScheduled and TicksCancelled count settle-scheduler pacing
	// ticks. Cancellations are the structural guard against stale
	// progressive steps firing after the camera moved again.
	TicksScheduled uint64 `json:"ticks_scheduled" msgpack:"ticks_scheduled"`
	TicksCancelled uint64 `json:"ticks_cancelled" msgpack:"ticks_cancelled"`

	// State is the current orchestrator state name.
	State string `json:"state" msgpack:"state"`

	// SampleIndex is the renderer's accumulated sample count at snapshot
	// time (0 when no renderer is configured).
	SampleIndex int `json:"sample_index" msgpack:"sample_index"`

	// LastPresentedWidth/Height are the buffer dimensions of the most
	// recently presented frame (0 before the first present).
	LastPresentedWidth  int `json:"last_presented_width" msgpack:"last_presented_width"`
	LastPresentedHeight int `json:"last_presented_height" msgpack:"last_presented_height"`
}

// counters holds the orchestrator's operational counters. Written only by
// the loop goroutine, read by Stats() from any goroutine, hence atomics
// rather than a lock.
type counters struct {
	posesReceived     atomic.Uint64
	posesCoalesced    atomic.Uint64
	dispatched        atomic.Uint64
	completed         atomic.Uint64
	failures          atomic.Uint64
	skippedDegenerate atomic.Uint64
	progressiveSteps  atomic.Uint64
	ticksScheduled    atomic.Uint64
	ticksCancelled    atomic.Uint64
	state             atomic.Int64
	lastPresentedW    atomic.Int64
	lastPresentedH    atomic.Int64
}

func (c *counters) snapshot(sampleIndex int) StatsSnapshot {
	return StatsSnapshot{
		PosesReceived:            c.posesReceived.Load(),
		PosesCoalesced:           c.posesCoalesced.Load(),
		RendersDispatched:        c.dispatched.Load(),
		RendersCompleted:         c.completed.Load(),
		RenderFailures:           c.failures.Load(),
		RendersSkippedDegenerate: c.skippedDegenerate.Load(),
		ProgressiveSteps:         c.progressiveSteps.Load(),
		TicksScheduled:           c.ticksScheduled.Load(),
		TicksCancelled:           c.ticksCancelled.Load(),
		State:                    State(c.state.Load()).String(),
		SampleIndex:              sampleIndex,
		LastPresentedWidth:       int(c.lastPresentedW.Load()),
		LastPresentedHeight:      int(c.lastPresentedH.Load()),
	}
}
