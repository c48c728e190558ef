package internal

import "testing"

// --- Settlement window semantics ---

// TestSettledRequiresFullWindow validates that an under-filled window is
// never settled, even when every sample is identical.
func TestSettledRequiresFullWindow(t *testing.T) {
	h := NewPoseHistory(4)
	p := Vec3{X: 1, Y: 2, Z: 3}

	for i := 0; i < 3; i++ {
		h.Push(p)
		if h.Settled(0.01) {
			t.Fatalf("Settled() = true with %d/4 entries", h.Len())
		}
	}

	h.Push(p)
	if !h.Settled(0.01) {
		t.Fatal("Settled() = false with 4 identical entries")
	}
}

// TestSettledDuringAndAfterMotion validates the settling-correctness
// property: positions 1-3 differ from position 0 by more than the
// threshold on some axis, position 4 onward are all within threshold of
// position 3. Settled must stay false until the window holds only
// mutually-close samples, then turn true.
func TestSettledDuringAndAfterMotion(t *testing.T) {
	const threshold = 0.01
	h := NewPoseHistory(4)

	moving := []Vec3{
		{X: 0.00},
		{X: 0.05}, // > threshold from position 0
		{X: 0.10},
		{X: 0.15},
	}
	for i, p := range moving {
		h.Push(p)
		if h.Settled(threshold) {
			t.Fatalf("Settled() = true after moving sample %d", i)
		}
	}

	// Camera stops near the last moving position. The window still
	// contains moving samples for the next pushes; settled only once
	// the oldest entry is itself a resting sample.
	rest := Vec3{X: 0.152}
	for i := 0; i < 3; i++ {
		h.Push(rest)
		if h.Settled(threshold) {
			t.Fatalf("Settled() = true with moving sample still in window (rest push %d)", i)
		}
	}

	h.Push(rest)
	if !h.Settled(threshold) {
		t.Fatal("Settled() = false after window fully populated with resting samples")
	}
}

// TestSettledPerAxisNotEuclidean validates the deliberate per-axis
// comparison: a point whose every axis is within threshold is settled even
// though its Euclidean distance from the reference exceeds the threshold.
func TestSettledPerAxisNotEuclidean(t *testing.T) {
	const threshold = 0.01
	h := NewPoseHistory(2)

	h.Push(Vec3{})
	// Each axis offset 0.009 < threshold, Euclidean distance ≈ 0.0156.
	h.Push(Vec3{X: 0.009, Y: 0.009, Z: 0.009})

	if !h.Settled(threshold) {
		t.Fatal("Settled() = false for per-axis-close sample (Euclidean test leaked in)")
	}
}

// TestPushEvictsOldest validates the rolling-window eviction: once an
// out-of-threshold sample ages out, the window settles.
func TestPushEvictsOldest(t *testing.T) {
	h := NewPoseHistory(3)

	h.Push(Vec3{X: 10})
	h.Push(Vec3{X: 0.001})
	h.Push(Vec3{X: 0.002})
	if h.Settled(0.01) {
		t.Fatal("Settled() = true with outlier still oldest")
	}

	h.Push(Vec3{X: 0.003})
	if !h.Settled(0.01) {
		t.Fatal("Settled() = false after outlier evicted")
	}
	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}
}

// TestResetClearsWindow validates Reset (called whenever a fresh pose
// supersedes ongoing work).
func TestResetClearsWindow(t *testing.T) {
	h := NewPoseHistory(2)
	h.Push(Vec3{})
	h.Push(Vec3{})
	if !h.Settled(0.01) {
		t.Fatal("precondition failed: window should be settled")
	}

	h.Reset()
	if h.Len() != 0 {
		t.Fatalf("Len() = %d after Reset, want 0", h.Len())
	}
	if h.Settled(0.01) {
		t.Fatal("Settled() = true after Reset")
	}
}
