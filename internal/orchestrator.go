package internal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Config wires the orchestrator to its collaborators and tuning knobs.
type Config struct {
	// Renderer is the expensive async capability being orchestrated.
	// A nil Renderer puts the orchestrator in degraded no-op mode: every
	// public method returns immediately and no pixels are ever produced.
	Renderer Renderer

	// Sink receives completed frames. Optional; with a nil Sink frames
	// are rendered and dropped (useful for soak tests).
	Sink PresentSink

	// Pacer defers settle rechecks and progressive steps by roughly one
	// display-refresh interval. Defaults to a 16ms TimerPacer.
	Pacer Pacer

	// Poses is an optional push-style pose feed. When set, Start
	// subscribes it to OnPose and Stop disposes the subscription.
	Poses PoseSource

	// Tier is the initial quality tier (default draft).
	Tier QualityTier

	// SettleWindow is the pose-history size: the current sample plus
	// SettleWindow-1 predecessors must agree before the camera counts as
	// settled. Default 4.
	SettleWindow int

	// SettleThreshold is the per-axis position tolerance, in the host's
	// coordinate units. Default 0.01. Empirical; tune to the host's
	// coordinate-unit scale.
	SettleThreshold float64

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

const (
	defaultSettleWindow    = 4
	defaultSettleThreshold = 0.01
)

// renderDone carries a render completion back into the loop.
type renderDone struct {
	req RenderRequest
	pb  *PixelBuffer
	err error
}

// Orchestrator coordinates the single-flight renderer against an
// uncontrolled stream of camera poses: immediate draft-resolution feedback
// during motion, debounced settling once motion stops, then progressive
// refinement up to the tier's sample target.
//
// Concurrency model:
//   - OnPose / OnQualityChanged are non-blocking posts into single-slot
//     mailboxes with overwrite policy (latest wins, older values counted
//     as coalesced, never queued).
//   - One loop goroutine owns ALL state machine data; inside the loop
//     there are no locks.
//   - The renderer runs on a transient worker goroutine (at most one at a
//     time, enforced by the render gate) and re-enters the loop through a
//     completion mailbox.
//   - Pacer callbacks re-enter the loop through a tick mailbox carrying a
//     generation number; cancellation bumps the generation so a tick that
//     already fired is recognized as stale and ignored.
//
// Goroutine topology:
//   - 1 fixed: run loop (spawned by Start, stopped by Stop)
//   - 0-1 transient: render worker (exits when Render returns; a renderer
//     that never returns stalls this viewport but does not block Stop)
type Orchestrator struct {
	renderer Renderer
	sink     PresentSink
	pacer    Pacer
	poses    PoseSource
	log      *slog.Logger

	settleWindow    int
	settleThreshold float64

	disabled bool // no renderer configured

	// Mailboxes into the loop.
	poseCh chan CameraPose
	tierCh chan QualityTier
	tickCh chan uint64
	doneCh chan renderDone

	// Loop-owned state. Touched only by the run loop.
	state      State
	tier       QualityTier
	gate       renderGate
	history    *PoseHistory
	pose       CameraPose
	hasPose    bool
	tickGen    uint64
	cancelTick func()

	counters counters

	// Lifecycle.
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	startedMu   sync.Mutex
	started     bool
	unsubscribe func()
}

// New creates an orchestrator. See Config for defaults; a nil Renderer
// yields a degraded no-op instance (documented mode, not an error).
func New(cfg Config) *Orchestrator {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	if cfg.SettleWindow < 2 {
		cfg.SettleWindow = defaultSettleWindow
	}
	if cfg.SettleThreshold <= 0 {
		cfg.SettleThreshold = defaultSettleThreshold
	}
	if cfg.Pacer == nil {
		cfg.Pacer = NewTimerPacer(0)
	}

	o := &Orchestrator{
		renderer:        cfg.Renderer,
		sink:            cfg.Sink,
		pacer:           cfg.Pacer,
		poses:           cfg.Poses,
		log:             log,
		settleWindow:    cfg.SettleWindow,
		settleThreshold: cfg.SettleThreshold,
		tier:            cfg.Tier,
		history:         NewPoseHistory(cfg.SettleWindow),
		poseCh:          make(chan CameraPose, 1),
		tierCh:          make(chan QualityTier, 1),
		tickCh:          make(chan uint64, 1),
		doneCh:          make(chan renderDone, 1),
	}
	if cfg.Renderer == nil {
		o.disabled = true
		log.Warn("no renderer configured, viewport orchestration disabled")
	}
	return o
}

// Start spawns the run loop and, when a PoseSource is configured,
// subscribes it. Returns an error if already started. In degraded mode
// (no renderer) Start is a no-op returning nil.
func (o *Orchestrator) Start(ctx context.Context) error {
	if o.disabled {
		return nil
	}

	o.startedMu.Lock()
	defer o.startedMu.Unlock()

	if o.started {
		return fmt.Errorf("orchestrator already started")
	}

	o.ctx, o.cancel = context.WithCancel(ctx)
	o.started = true

	o.wg.Add(1)
	go o.run()

	if o.poses != nil {
		o.unsubscribe = o.poses.Subscribe(o.OnPose)
	}

	return nil
}

// Stop disposes the pose subscription and shuts the loop down, blocking
// until it exits. Idempotent.
func (o *Orchestrator) Stop() error {
	if o.disabled {
		return nil
	}

	o.startedMu.Lock()
	if !o.started {
		o.startedMu.Unlock()
		return nil
	}
	o.started = false
	unsubscribe := o.unsubscribe
	o.unsubscribe = nil
	o.startedMu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	o.cancel()
	o.wg.Wait()
	return nil
}

// OnPose accepts a materially-changed camera pose. Non-blocking: posts
// into a single-slot mailbox, overwriting (and counting as coalesced) any
// pose the loop has not consumed yet. Intended for a single pose source.
func (o *Orchestrator) OnPose(pose CameraPose) {
	if o.disabled {
		return
	}
	o.counters.posesReceived.Add(1)
	for {
		select {
		case o.poseCh <- pose:
			return
		default:
		}
		select {
		case <-o.poseCh:
			o.counters.posesCoalesced.Add(1)
		default:
		}
	}
}

// OnQualityChanged selects a new quality tier. Non-blocking, latest wins.
func (o *Orchestrator) OnQualityChanged(tier QualityTier) {
	if o.disabled {
		return
	}
	for {
		select {
		case o.tierCh <- tier:
			return
		default:
		}
		select {
		case <-o.tierCh:
		default:
		}
	}
}

// Stats returns an operational snapshot. Safe from any goroutine.
func (o *Orchestrator) Stats() StatsSnapshot {
	if o.disabled {
		return StatsSnapshot{State: StateIdle.String()}
	}
	return o.counters.snapshot(o.renderer.SampleIndex())
}

// run is the loop goroutine owning the whole state machine.
func (o *Orchestrator) run() {
	defer o.wg.Done()
	defer func() {
		if o.cancelTick != nil {
			o.cancelTick()
			o.cancelTick = nil
		}
	}()

	for {
		select {
		case <-o.ctx.Done():
			return
		case pose := <-o.poseCh:
			o.handlePose(pose)
		case tier := <-o.tierCh:
			o.handleTier(tier)
		case gen := <-o.tickCh:
			o.handleTick(gen)
		case done := <-o.doneCh:
			o.handleDone(done)
		}
	}
}

// handlePose is the cancellation/restart contract: any ongoing settle or
// progressive work is superseded the moment a newer pose exists.
func (o *Orchestrator) handlePose(pose CameraPose) {
	o.cancelScheduledTick()
	o.history.Reset()
	o.renderer.ResetAccumulation()
	o.pose = pose
	o.hasPose = true
	o.dispatchFresh(pose)
}

func (o *Orchestrator) handleTier(tier QualityTier) {
	if tier == o.tier {
		return
	}
	o.log.Debug("quality tier changed", "tier", tier.String())
	o.tier = tier
	if !o.hasPose {
		return
	}
	o.cancelScheduledTick()
	o.history.Reset()
	o.renderer.ResetAccumulation()
	o.dispatchFresh(o.pose)
}

// dispatchFresh issues a render for pose at interacting (forced-draft)
// resolution, or records it as pending when a render is already in flight.
func (o *Orchestrator) dispatchFresh(pose CameraPose) {
	w, h := computeResolution(o.tier, true, pose.ViewportWidth, pose.ViewportHeight)
	if w == 0 || h == 0 {
		// Collapsed viewport: skip entirely, no pending side effects.
		// An older pending pose is stale now (latest wins) so it is
		// dropped rather than re-dispatched later.
		o.counters.skippedDegenerate.Add(1)
		o.gate.DropPending()
		if o.gate.Busy() {
			o.setState(StateDispatching)
		} else {
			o.setState(StateIdle)
		}
		o.log.Debug("dispatch skipped, degenerate viewport",
			"viewport_w", pose.ViewportWidth,
			"viewport_h", pose.ViewportHeight)
		return
	}

	dispatched, overwrote := o.gate.TryDispatch(pose)
	if overwrote {
		o.counters.posesCoalesced.Add(1)
	}
	if !dispatched {
		o.setState(StatePendingRedispatch)
		return
	}
	o.setState(StateDispatching)
	o.startRender(pose, w, h, false)
}

// startRender spawns the render worker for an acquired gate.
func (o *Orchestrator) startRender(pose CameraPose, w, h int, progressive bool) {
	req := RenderRequest{
		Pose:        pose,
		Width:       w,
		Height:      h,
		TraceID:     uuid.New().String(),
		Progressive: progressive,
	}
	o.counters.dispatched.Add(1)
	o.log.Debug("render dispatched",
		"trace_id", req.TraceID,
		"width", w,
		"height", h,
		"progressive", progressive)

	go func() {
		pb, err := o.renderer.Render(o.ctx, req.Pose, req.Width, req.Height)
		select {
		case o.doneCh <- renderDone{req: req, pb: pb, err: err}:
		case <-o.ctx.Done():
		}
	}()
}

// handleDone is the single completion path for success and failure: clear
// the gate, re-dispatch a pending pose if one arrived while busy, otherwise
// hand off to the settle scheduler (or continue the progressive loop).
func (o *Orchestrator) handleDone(done renderDone) {
	if done.err != nil {
		o.counters.failures.Add(1)
		o.log.Warn("render failed",
			"trace_id", done.req.TraceID,
			"error", done.err)
	} else {
		o.counters.completed.Add(1)
		if done.pb != nil {
			if done.pb.TraceID == "" {
				done.pb.TraceID = done.req.TraceID
			}
			if o.sink != nil {
				o.sink.Present(done.pb, done.req.Pose.ViewportWidth, done.req.Pose.ViewportHeight)
			}
			o.counters.lastPresentedW.Store(int64(done.pb.Width))
			o.counters.lastPresentedH.Store(int64(done.pb.Height))
		}
	}

	next, redispatch := o.gate.OnComplete()
	if redispatch {
		o.dispatchFresh(next)
		return
	}
	if o.state == StateProgressive {
		// Already past the stability check; no need to re-verify, any
		// new pose aborts through handlePose.
		o.scheduleTick()
		return
	}
	o.enterSettling()
}

func (o *Orchestrator) setState(s State) {
	o.state = s
	o.counters.state.Store(int64(s))
}
