package scoring

import "strings"

// BandFeedback maps a 0-100 score to its threshold band's overall verdict
func BandFeedback(score float64) string {
	switch {
	case score >= 90:
		return "Outstanding delivery! Your speech is engaging, clear and confident."
	case score >= 80:
		return "Great job! Your delivery is strong with only minor areas to polish."
	case score >= 70:
		return "Good delivery overall, though a few aspects could use attention."
	case score >= 60:
		return "A decent effort, but several aspects of your delivery need work."
	case score >= 50:
		return "Your delivery needs improvement in multiple areas to hold an audience."
	default:
		return "Your delivery needs significant work. Focus on the fundamentals below."
	}
}

// VoiceFeedback builds per-metric advice for the voice quality category.
// Only sub-scores below their coaching threshold contribute a sentence; a
// clean category gets a single encouraging line.
func VoiceFeedback(variation, speed, clarity, stability float64) string {
	var advice []string

	if variation < 60 {
		advice = append(advice, "Your pitch is fairly monotone; vary your intonation to keep listeners engaged.")
	}
	if speed < 60 {
		advice = append(advice, "Your speaking pace strays far from a comfortable rate; aim for a steadier, conversational speed.")
	}
	if clarity < 60 {
		advice = append(advice, "Your articulation is hard to follow; slow down on key words and enunciate fully.")
	}
	if stability < 60 {
		advice = append(advice, "Your voice sounds strained or unsteady; breathe deeply and support your voice from the diaphragm.")
	}

	if len(advice) == 0 {
		return "Your voice quality is excellent. Keep up the varied, clear and steady delivery."
	}
	return strings.Join(advice, " ")
}

// EnergyFeedback builds per-metric advice for the energy category
func EnergyFeedback(intensity, energy, variation float64) string {
	var advice []string

	if intensity < 60 {
		advice = append(advice, "Your volume is on the quiet side; project more so the back of the room can hear you.")
	}
	if energy < 60 {
		advice = append(advice, "Your overall vocal energy is low; bring more enthusiasm into your delivery.")
	}
	if variation < 60 {
		advice = append(advice, "Your loudness barely changes; add dynamic contrast to emphasize important points.")
	}

	if len(advice) == 0 {
		return "Your vocal energy is excellent. The volume and dynamics suit a live audience well."
	}
	return strings.Join(advice, " ")
}
