package extractors

import "strings"

// WordsPerMinute computes speaking speed from a transcript and the recording
// duration in seconds. Words are whitespace-delimited tokens. A zero or
// negative duration yields 0 rather than a division blow-up.
func WordsPerMinute(transcript string, durationSeconds float64) float64 {
	if durationSeconds <= 0 {
		return 0
	}
	words := len(strings.Fields(transcript))
	return float64(words) / (durationSeconds / 60.0)
}
