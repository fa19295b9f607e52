package scoring

import "math"

// Category and final composition weights. Each set sums to exactly 1 so a
// composite can never leave the 0-100 scale through weighting alone.
const (
	weightVariation = 0.25
	weightSpeed     = 0.20
	weightClarity   = 0.30
	weightStability = 0.25

	weightIntensity       = 0.4
	weightEnergy          = 0.4
	weightEnergyVariation = 0.2

	weightFinalVoice      = 0.4
	weightFinalEnergy     = 0.4
	weightFinalConfidence = 0.2
)

// StabilityScore rates vocal steadiness from raw perturbation values.
// Jitter and shimmer are fractions; each point of either costs a point of
// score, while HNR credits half a point per dB.
func StabilityScore(jitter, shimmer, hnr float64) float64 {
	return round2(clamp(100-(jitter*100+shimmer*100)+hnr/2, 0, 100))
}

// SpeedScore rates speaking pace by its distance from the ideal rate in
// words per minute. Every WPM of deviation costs one point.
func SpeedScore(wpm, idealWPM float64) float64 {
	return round2(clamp(100-math.Abs(wpm-idealWPM), 0, 100))
}

// VoiceScore composes the voice quality category from its four sub-scores
func VoiceScore(variation, speed, clarity, stability float64) float64 {
	weighted := weightVariation*variation +
		weightSpeed*speed +
		weightClarity*clarity +
		weightStability*stability
	return round2(clamp(weighted, 0, 100))
}

// IntensityScore maps average RMS intensity onto 0-100. The logarithm
// compresses the top of the range so quiet speech is punished harder than
// loud speech is rewarded.
func IntensityScore(avgIntensity float64) float64 {
	return round2(clamp(math.Log1p(avgIntensity*30)*10, 0, 100))
}

// EnergyScore maps average log energy onto 0-100 linearly against the
// calibrated ceiling
func EnergyScore(avgEnergy, ceiling float64) float64 {
	if ceiling <= 0 {
		return 0
	}
	return round2(clamp(avgEnergy/ceiling*100, 0, 100))
}

// EnergyVariationScore rates dynamic range from the spread of segment
// intensity and energy values
func EnergyVariationScore(intensityStd, energyStd float64) float64 {
	return round2(clamp(math.Log1p((intensityStd+energyStd)/50)*100, 0, 100))
}

// EnergyCategoryScore composes the energy category from its three sub-scores
func EnergyCategoryScore(intensity, energy, variation float64) float64 {
	weighted := weightIntensity*intensity +
		weightEnergy*energy +
		weightEnergyVariation*variation
	return round2(clamp(weighted, 0, 100))
}

// FinalScore composes the overall public speaking score from the two
// category scores and the transcription confidence
func FinalScore(voice, energy, confidence float64) float64 {
	weighted := weightFinalVoice*voice +
		weightFinalEnergy*energy +
		weightFinalConfidence*confidence
	return round2(clamp(weighted, 0, 100))
}
