package solver

import "math"

// Delta returns the signed shortest arc from `from` to `to`, in degrees,
// in the half-open range (-180, 180]. A positive value means `to` lies
// ahead of `from` in the direction of increasing longitude.
//
// Inputs need not be normalized.
func Delta(from, to float64) float64 {
	d := math.Mod(to-from, 360.0)
	if d <= -180.0 {
		d += 360.0
	} else if d > 180.0 {
		d -= 360.0
	}
	return d
}

// ahead reports whether a target with body-to-target delta d still lies
// ahead of the body. Exactly on target counts as reached, except at the
// start of a walk (see FindBracket).
func ahead(d float64) bool {
	return d > 0
}

// crossed reports whether the target changed sides between two samples
// with deltas d1 and d2. A side change across the ±180° seam (the body
// passing the point opposite the target) is not a crossing; samples are
// spaced so the body moves well under 180° between them.
func crossed(d1, d2 float64) bool {
	if ahead(d1) == ahead(d2) {
		return false
	}
	return math.Abs(d1-d2) < 180.0
}

// senseOf classifies a crossing from the deltas of its earlier and later
// samples.
func senseOf(earlier, later float64) Sense {
	if ahead(earlier) && !ahead(later) {
		return Direct
	}
	return Retrograde
}
