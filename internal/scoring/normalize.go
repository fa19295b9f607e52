// Package scoring normalizes raw acoustic metrics onto a common 0-100
// scale, composes them into category and final scores, and renders the
// threshold-band feedback that accompanies every score.
package scoring

import "math"

// Reference ranges anchoring raw perturbation metrics to the 0-100 scale.
// Jitter and shimmer are fractions where lower is better; HNR is in dB
// where higher is better.
const (
	jitterFloor   = 0.0
	jitterCeiling = 0.1

	shimmerFloor   = 0.0
	shimmerCeiling = 0.3

	hnrFloor   = 0.0
	hnrCeiling = 30.0
)

// Normalize maps value from the [lo, hi] reference range onto [0, 100],
// rounded to two decimals. With invert set, lo is the desirable end and
// scores run downward as value grows. A degenerate range scores 100: a
// metric that cannot discriminate should not penalize anyone.
func Normalize(value, lo, hi float64, invert bool) float64 {
	if lo == hi {
		return 100.0
	}

	fraction := (value - lo) / (hi - lo)
	if invert {
		fraction = 1 - fraction
	}

	return round2(clamp(fraction*100, 0, 100))
}

// NormalizeJitter scores a jitter fraction; 0 is perfect, 0.1 or worse is 0
func NormalizeJitter(jitter float64) float64 {
	return Normalize(jitter, jitterFloor, jitterCeiling, true)
}

// NormalizeShimmer scores a shimmer fraction; 0 is perfect, 0.3 or worse is 0
func NormalizeShimmer(shimmer float64) float64 {
	return Normalize(shimmer, shimmerFloor, shimmerCeiling, true)
}

// NormalizeHNR scores a harmonics-to-noise ratio in dB; 30 dB or more is 100
func NormalizeHNR(hnr float64) float64 {
	return Normalize(hnr, hnrFloor, hnrCeiling, false)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
