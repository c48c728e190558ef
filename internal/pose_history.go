package internal

import "math"

// PoseHistory is a fixed-size rolling window of recent camera positions.
// It answers one question: has the camera held still for the whole window?
//
// Semantics:
//   - Push appends and evicts the oldest entry beyond capacity.
//   - Settled compares every entry against the OLDEST entry, per axis,
//     with an absolute-difference threshold. Deliberately NOT a Euclidean
//     distance test: per-axis compare is a cheap approximation that is
//     good enough for quiescence detection.
//   - Reset clears the window; called whenever a fresh pose supersedes
//     ongoing settle/progressive work.
//
// Not safe for concurrent use; owned by the orchestrator loop.
type PoseHistory struct {
	capacity int
	entries  []Vec3
}

// NewPoseHistory creates a window holding the last capacity positions
// (the current sample plus capacity-1 predecessors).
func NewPoseHistory(capacity int) *PoseHistory {
	if capacity < 2 {
		capacity = 2
	}
	return &PoseHistory{
		capacity: capacity,
		entries:  make([]Vec3, 0, capacity),
	}
}

// Push appends a position, evicting the oldest entry when full.
func (h *PoseHistory) Push(p Vec3) {
	if len(h.entries) == h.capacity {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:h.capacity-1]
	}
	h.entries = append(h.entries, p)
}

// Len reports how many positions are currently in the window.
func (h *PoseHistory) Len() int { return len(h.entries) }

// Settled reports whether the window is fully populated and every entry is
// within thresholdPerAxis of the oldest entry on all three axes.
// An under-filled window is never settled.
func (h *PoseHistory) Settled(thresholdPerAxis float64) bool {
	if len(h.entries) < h.capacity {
		return false
	}
	first := h.entries[0]
	for _, e := range h.entries[1:] {
		d := e.Sub(first)
		if math.Abs(d.X) > thresholdPerAxis ||
			math.Abs(d.Y) > thresholdPerAxis ||
			math.Abs(d.Z) > thresholdPerAxis {
			return false
		}
	}
	return true
}

// Reset clears the window.
func (h *PoseHistory) Reset() {
	h.entries = h.entries[:0]
}
