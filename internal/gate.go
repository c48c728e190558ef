package internal

// renderGate enforces the single-flight invariant on the external renderer
// and coalesces poses that arrive while a render is in flight.
//
// Semantics:
//   - TryDispatch while idle acquires the gate (caller starts the render).
//   - TryDispatch while busy records the pose as the latest pending pose,
//     overwriting any previously pending one. Only the newest survives;
//     intermediate poses during a busy period are discarded, never queued.
//   - OnComplete releases the gate and hands back the pending pose, if any,
//     for the caller to re-dispatch.
//
// At most one render call is outstanding at any time. Violations are
// programming errors, not recoverable conditions, so the gate panics on an
// inconsistent completion.
//
// Not safe for concurrent use; owned by the orchestrator loop.
type renderGate struct {
	inFlight bool
	pending  *CameraPose
}

// TryDispatch attempts to acquire the gate for pose.
//
// Returns:
//   - dispatched=true: gate acquired, caller must start the render.
//   - dispatched=false: a render is in flight; pose recorded as pending.
//     overwrote=true when an earlier pending pose was discarded.
func (g *renderGate) TryDispatch(pose CameraPose) (dispatched, overwrote bool) {
	if g.inFlight {
		overwrote = g.pending != nil
		p := pose
		g.pending = &p
		return false, overwrote
	}
	g.inFlight = true
	return true, false
}

// OnComplete releases the gate after a render finished (success or failure).
// When a pose is pending it is returned with redispatch=true and cleared;
// the caller performs the follow-up dispatch through TryDispatch.
func (g *renderGate) OnComplete() (next CameraPose, redispatch bool) {
	if !g.inFlight {
		panic("renderGate: OnComplete without in-flight render (single-flight violation)")
	}
	g.inFlight = false
	if g.pending != nil {
		next = *g.pending
		g.pending = nil
		return next, true
	}
	return CameraPose{}, false
}

// DropPending discards any pending pose (a degenerate pose superseded it;
// latest-wins means the stale pending pose must not be re-dispatched).
// Reports whether a pose was dropped.
func (g *renderGate) DropPending() bool {
	had := g.pending != nil
	g.pending = nil
	return had
}

// Busy reports whether a render is currently outstanding.
func (g *renderGate) Busy() bool { return g.inFlight }

// HasPending reports whether a pose is waiting for re-dispatch.
func (g *renderGate) HasPending() bool { return g.pending != nil }
