package extractors

import (
	"github.com/saymore/speech-analysis/pkg/audio/acoustic"
)

// ClarityScore rates articulation from the stability of the first two
// formant trajectories. Steady formant targets mean cleanly articulated
// vowels; a high coefficient of variation means the articulators never
// settle. Returns 0 when either trajectory is empty, so a recording where
// formant tracking failed reads as unintelligible instead of perfect.
func ClarityScore(f1, f2 acoustic.FrameSeries) float64 {
	if len(f1) == 0 || len(f2) == 0 {
		return 0
	}

	cv1 := coefficientOfVariation(f1.Values())
	cv2 := coefficientOfVariation(f2.Values())

	return round2(clamp(100*(1-(cv1+cv2)/2), 0, 100))
}

func coefficientOfVariation(values []float64) float64 {
	m := mean(values)
	if m == 0 {
		return 0
	}
	return popStdDev(values) / m
}
