package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saymore/speech-analysis/pkg/audio/acoustic"
)

func series(values ...float64) acoustic.FrameSeries {
	out := make(acoustic.FrameSeries, len(values))
	for i, v := range values {
		out[i] = acoustic.Frame{Time: float64(i) * 0.01, Value: v}
	}
	return out
}

func TestClarityScore(t *testing.T) {
	tests := []struct {
		name     string
		f1       acoustic.FrameSeries
		f2       acoustic.FrameSeries
		expected float64
	}{
		{
			name:     "perfectly steady formants",
			f1:       series(500, 500, 500, 500),
			f2:       series(1500, 1500, 1500, 1500),
			expected: 100,
		},
		{
			name:     "empty first formant track",
			f1:       nil,
			f2:       series(1500, 1500),
			expected: 0,
		},
		{
			name:     "empty second formant track",
			f1:       series(500, 500),
			f2:       nil,
			expected: 0,
		},
		{
			// F1: mean 500, popstd 100, cv 0.2; F2: mean 1500,
			// popstd 300, cv 0.2; clarity 100*(1-0.2) = 80
			name:     "moderate formant spread",
			f1:       series(400, 600, 400, 600),
			f2:       series(1200, 1800, 1200, 1800),
			expected: 80,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ClarityScore(tt.f1, tt.f2), 0.01)
		})
	}
}

func TestClarityScoreClampsAtZero(t *testing.T) {
	// Wild formant swings push the combined CV past 1; the score floors
	// at 0 instead of going negative
	f1 := series(100, 2000, 100, 2000)
	f2 := series(100, 3000, 100, 3000)

	score := ClarityScore(f1, f2)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 100.0)
}
