// Package viewport implements progressive render orchestration for a
// single interactive 3D viewport backed by an expensive, single-flight
// renderer.
//
// # Philosophy
//
// "Drop poses, never queue. Responsiveness > Completeness."
//
// The camera pose stream is uncontrolled and fast (nominally one update
// per display refresh during motion); renders are slow. Acting on every
// pose would bury the renderer in stale work. The orchestrator keeps the
// display live during motion with cheap draft-resolution frames, coalesces
// pose bursts down to the newest pose, and once the camera holds still it
// progressively refines the image up to the quality tier's sample target,
// all without further input.
//
// # Architecture
//
// One state machine per viewport, five states:
//
//	pose source → OnPose ─┐
//	                      ├→ [gate busy? mark pending : dispatch draft]
//	quality UI → OnQualityChanged ─┘        │
//	                                        ▼
//	                               Renderer.Render (async, single-flight)
//	                                        │ completion
//	                                        ▼
//	                        present → pending pose? redispatch fresh
//	                                        │ no
//	                                        ▼
//	                        settle check (pose-history window)
//	                          not still → recheck next pacing tick
//	                          still     → progressive samples, one per
//	                                      tick, until the sample target
//
// Components: PoseHistory (K-window per-axis stillness check),
// resolution policy (tier scale + pixel budget + forced draft while
// interacting), render gate (single-flight + latest-pending coalescing),
// settle scheduler (debounce-then-refine with cancellable pacing ticks).
//
// # Concurrency
//
// All state machine data is owned by one loop goroutine; public methods
// post into single-slot mailboxes with overwrite policy (latest wins).
// The only suspending operation is the renderer call, which runs on a
// transient worker goroutine and re-enters the loop through a completion
// mailbox. There is no busy-waiting and the state machine itself takes no
// locks.
//
// # Basic Usage
//
//	orch := viewport.New(viewport.Config{
//	    Renderer: tracer,                       // your Renderer
//	    Sink:     sink,                         // your PresentSink
//	    Pacer:    viewport.NewTimerPacer(0),    // or a FramePacer
//	    Tier:     viewport.TierStandard,
//	})
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//
//	if err := orch.Start(ctx); err != nil {
//	    log.Fatalf("orchestrator failed: %v", err)
//	}
//	defer orch.Stop()
//
//	// Camera controller side, on every materially changed pose:
//	orch.OnPose(pose)
//
// Hosts that own a frame loop (ebiten, a UI toolkit) should use a
// FramePacer and call Advance once per frame, so settle rechecks and
// progressive steps run on the host's cadence.
//
// # Monitoring
//
// Stats() returns a snapshot for health checks and telemetry:
//
//	stats := orch.Stats()
//	if stats.RenderFailures > 0 {
//	    log.Warn("renderer failing", "failures", stats.RenderFailures)
//	}
//
// Coalesced poses are EXPECTED and HEALTHY: they indicate latest-wins
// semantics protecting the renderer from stale work, not lost input.
//
// # Degraded Mode
//
// With no Renderer configured every method is a no-op and no pixels are
// ever produced. Render failures are logged and cleared through the normal
// completion path; nothing in this package is fatal to the process, all
// failure is local and self-heals on the next pose update.
package viewport
