package internal

import "testing"

// --- Resolution policy ---

// TestComputeResolutionTierScales validates the per-tier scale factors on
// a viewport small enough to stay inside every pixel budget.
func TestComputeResolutionTierScales(t *testing.T) {
	tests := []struct {
		tier       QualityTier
		wantW      int
		wantH      int
	}{
		{TierDraft, 320, 240},
		{TierStandard, 640, 480},
		{TierHigh, 1280, 960},
	}
	for _, tc := range tests {
		w, h := computeResolution(tc.tier, false, 640, 480)
		if w != tc.wantW || h != tc.wantH {
			t.Errorf("computeResolution(%s, 640x480) = %dx%d, want %dx%d",
				tc.tier, w, h, tc.wantW, tc.wantH)
		}
	}
}

// TestComputeResolutionInteractingForcesDraft validates the interaction
// override: during the first samples after a reset the configured tier is
// ignored and draft sizing applies.
func TestComputeResolutionInteractingForcesDraft(t *testing.T) {
	w, h := computeResolution(TierHigh, true, 640, 480)
	if w != 320 || h != 240 {
		t.Errorf("interacting High tier = %dx%d, want draft 320x240", w, h)
	}
}

// TestComputeResolutionPixelBudget validates the budget rescale on the
// reference case: 3000x2000 at High (scale 2.0, budget 2.0e6) scales
// 6000x4000 down by sqrt(2e6/24e6) ≈ 0.2887 to ≈1732x1154, preserving
// aspect ratio within rounding and staying under budget.
func TestComputeResolutionPixelBudget(t *testing.T) {
	w, h := computeResolution(TierHigh, false, 3000, 2000)

	if w != 1732 || h != 1154 {
		t.Errorf("budgeted resolution = %dx%d, want 1732x1154", w, h)
	}
	if w*h > 2_000_000 {
		t.Errorf("budgeted area %d exceeds 2e6 budget", w*h)
	}

	aspect := float64(w) / float64(h)
	if aspect < 1.49 || aspect > 1.51 {
		t.Errorf("aspect ratio %.4f drifted from 1.5", aspect)
	}
}

// TestComputeResolutionDraftBudget validates that the interaction path is
// budgeted too: a huge viewport at draft scale still lands under the draft
// pixel budget.
func TestComputeResolutionDraftBudget(t *testing.T) {
	w, h := computeResolution(TierStandard, true, 4000, 4000)
	if w*h > 300_000 {
		t.Errorf("interacting area %d exceeds 3e5 draft budget (res %dx%d)", w*h, w, h)
	}
}

// TestComputeResolutionClampsToOne validates the ≥1 guarantee for tiny but
// positive viewports.
func TestComputeResolutionClampsToOne(t *testing.T) {
	w, h := computeResolution(TierDraft, false, 1, 1)
	if w != 1 || h != 1 {
		t.Errorf("1x1 viewport at draft = %dx%d, want 1x1", w, h)
	}
}

// TestComputeResolutionDegenerateViewport validates the skip contract: a
// collapsed viewport yields (0,0) and the caller must not dispatch.
func TestComputeResolutionDegenerateViewport(t *testing.T) {
	for _, vp := range [][2]int{{0, 0}, {0, 600}, {800, 0}, {-1, 600}} {
		w, h := computeResolution(TierStandard, false, vp[0], vp[1])
		if w != 0 || h != 0 {
			t.Errorf("viewport %dx%d = %dx%d, want 0x0", vp[0], vp[1], w, h)
		}
	}
}

// TestSampleTargets validates the per-tier progressive caps.
func TestSampleTargets(t *testing.T) {
	if got := TierDraft.SampleTarget(); got != 16 {
		t.Errorf("draft sample target = %d, want 16", got)
	}
	if got := TierStandard.SampleTarget(); got != 64 {
		t.Errorf("standard sample target = %d, want 64", got)
	}
	if got := TierHigh.SampleTarget(); got != 256 {
		t.Errorf("high sample target = %d, want 256", got)
	}
}

// TestParseQualityTier validates config-string mapping.
func TestParseQualityTier(t *testing.T) {
	for name, want := range map[string]QualityTier{
		"draft": TierDraft, "standard": TierStandard, "high": TierHigh,
	} {
		got, err := ParseQualityTier(name)
		if err != nil || got != want {
			t.Errorf("ParseQualityTier(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseQualityTier("ultra"); err == nil {
		t.Error("ParseQualityTier(\"ultra\") accepted an unknown tier")
	}
}
