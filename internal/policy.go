package internal

import "math"

// tierSpec bundles the fixed per-tier constants.
type tierSpec struct {
	scale        float64 // viewport → render resolution scale factor
	pixelBudget  float64 // max pixels per frame (w*h)
	sampleTarget int     // progressive accumulation stops at this index
}

// tierTable holds the per-tier constants. The budgets keep High-tier
// supersampling from exploding on large viewports; the sample targets bound
// how long progressive refinement runs once the camera settles.
var tierTable = [...]tierSpec{
	TierDraft:    {scale: 0.5, pixelBudget: 3.0e5, sampleTarget: 16},
	TierStandard: {scale: 1.0, pixelBudget: 9.2e5, sampleTarget: 64},
	TierHigh:     {scale: 2.0, pixelBudget: 2.0e6, sampleTarget: 256},
}

func (t QualityTier) spec() tierSpec {
	if t < TierDraft || t > TierHigh {
		return tierTable[TierStandard]
	}
	return tierTable[t]
}

// SampleTarget returns the tier's progressive sample cap.
func (t QualityTier) SampleTarget() int { return t.spec().sampleTarget }

// computeResolution maps (tier, interaction state, viewport size) to a
// render resolution.
//
// Algorithm:
//  1. While interacting (first or second sample since the last
//     accumulation reset) the tier is forced to Draft: quality is traded
//     for responsiveness during camera motion.
//  2. Scale the viewport by the effective tier's scale factor.
//  3. If the scaled area exceeds the tier's pixel budget, shrink both
//     dimensions by sqrt(budget/area): respects the budget while
//     preserving aspect ratio within rounding.
//  4. Outputs are clamped to ≥1 for any positive viewport. A collapsed
//     viewport (either dimension ≤0) returns (0, 0) and the caller MUST
//     skip the dispatch entirely (documented no-op, no pending side
//     effects).
func computeResolution(tier QualityTier, interacting bool, viewportW, viewportH int) (int, int) {
	if viewportW <= 0 || viewportH <= 0 {
		return 0, 0
	}

	effective := tier
	if interacting {
		effective = TierDraft
	}
	spec := effective.spec()

	rawW := math.Floor(float64(viewportW) * spec.scale)
	rawH := math.Floor(float64(viewportH) * spec.scale)

	if area := rawW * rawH; area > spec.pixelBudget {
		s := math.Sqrt(spec.pixelBudget / area)
		rawW = math.Floor(rawW * s)
		rawH = math.Floor(rawH * s)
	}

	w, h := int(rawW), int(rawH)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}
