package internal

// Settle scheduling: after a completed render with no pending pose, decide
// whether to stop, recheck camera stability, or issue the next progressive
// refinement sample. Two-phase debounce-then-refine: waiting for quiescence
// first avoids spending renderer cycles on samples that continued motion
// would immediately invalidate.
//
// All methods here run on the orchestrator loop.

// enterSettling records the current position and either promotes to the
// progressive phase (camera held still across the whole history window) or
// schedules a recheck one pacing tick later. Rechecking on ticks rather
// than immediately lets a few frames of residual motion flow through before
// judging stability.
func (o *Orchestrator) enterSettling() {
	if !o.hasPose {
		o.setState(StateIdle)
		return
	}
	o.setState(StateSettling)
	o.history.Push(o.pose.Position)
	if !o.history.Settled(o.settleThreshold) {
		o.scheduleTick()
		return
	}
	o.log.Debug("camera settled",
		"window", o.settleWindow,
		"threshold", o.settleThreshold)
	o.setState(StateProgressive)
	o.scheduleTick()
}

// handleTick services a pacing tick. Ticks carry the generation they were
// scheduled under; a mismatch means the tick was superseded by a pose or
// tier event after it fired and must be ignored (stale-step guard).
func (o *Orchestrator) handleTick(gen uint64) {
	if gen != o.tickGen {
		return
	}
	o.cancelTick = nil
	switch o.state {
	case StateSettling:
		o.enterSettling()
	case StateProgressive:
		o.progressiveStep()
	}
}

// progressiveStep issues one refinement render for the unchanged pose, or
// stops once the renderer's sample index reaches the tier's target.
func (o *Orchestrator) progressiveStep() {
	idx := o.renderer.SampleIndex()
	target := o.tier.SampleTarget()
	if idx >= target {
		o.setState(StateIdle)
		o.log.Debug("progressive target reached",
			"samples", idx,
			"tier", o.tier.String())
		return
	}

	interacting := idx <= 1
	w, h := computeResolution(o.tier, interacting, o.pose.ViewportWidth, o.pose.ViewportHeight)
	if w == 0 || h == 0 {
		o.counters.skippedDegenerate.Add(1)
		o.setState(StateIdle)
		return
	}

	dispatched, _ := o.gate.TryDispatch(o.pose)
	if !dispatched {
		// Progressive steps are only reachable through a completion
		// with an idle gate; a busy gate here is a state machine bug.
		panic("orchestrator: progressive step while a render is in flight")
	}
	o.counters.progressiveSteps.Add(1)
	o.setState(StateProgressive)
	o.startRender(o.pose, w, h, true)
}

// scheduleTick arranges the next settle recheck or progressive step.
// Replaces any previously scheduled tick.
func (o *Orchestrator) scheduleTick() {
	if o.cancelTick != nil {
		o.cancelTick()
		o.cancelTick = nil
		o.counters.ticksCancelled.Add(1)
	}
	o.tickGen++
	gen := o.tickGen
	o.counters.ticksScheduled.Add(1)
	o.cancelTick = o.pacer.Schedule(func() { o.postTick(gen) })
}

// cancelScheduledTick unconditionally cancels any scheduled tick and bumps
// the generation so an already-fired, not-yet-consumed tick is dropped as
// stale. Called on every pose and tier event before any dispatch decision.
func (o *Orchestrator) cancelScheduledTick() {
	o.tickGen++
	if o.cancelTick == nil {
		return
	}
	o.cancelTick()
	o.cancelTick = nil
	o.counters.ticksCancelled.Add(1)
}

// postTick delivers a fired pacer callback into the loop mailbox.
// Single slot, newest generation wins.
func (o *Orchestrator) postTick(gen uint64) {
	for {
		select {
		case o.tickCh <- gen:
			return
		default:
		}
		select {
		case <-o.tickCh:
		default:
		}
	}
}
