package internal

// State is the orchestrator's lifecycle position. Exactly one instance per
// viewport; transitions happen only on pose arrival, render completion or a
// settle-scheduler tick, all on the orchestrator loop.
type State int

const (
	// StateIdle: nothing in flight, nothing scheduled. Initial state,
	// also re-entered when the progressive sample target is reached or a
	// degenerate viewport makes the current pose unrenderable.
	StateIdle State = iota

	// StateDispatching: a render is in flight, no newer pose waiting.
	StateDispatching

	// StatePendingRedispatch: a render is in flight and a newer pose
	// arrived while busy; it will be dispatched on completion.
	StatePendingRedispatch

	// StateSettling: last render delivered, waiting for the camera to
	// hold still across the pose-history window.
	StateSettling

	// StateProgressive: camera settled, refinement samples are being
	// issued one per pacing tick until the tier's sample target.
	StateProgressive
)

// String implements fmt.Stringer (used in logs, stats and metrics).
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDispatching:
		return "dispatching"
	case StatePendingRedispatch:
		return "pending_redispatch"
	case StateSettling:
		return "settling"
	case StateProgressive:
		return "progressive"
	default:
		return "unknown"
	}
}
