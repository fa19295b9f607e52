package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		lo       float64
		hi       float64
		invert   bool
		expected float64
	}{
		{"direct at floor", 0, 0, 30, false, 0},
		{"direct at midpoint", 15, 0, 30, false, 50},
		{"direct at ceiling", 30, 0, 30, false, 100},
		{"direct clamps above", 45, 0, 30, false, 100},
		{"direct clamps below", -5, 0, 30, false, 0},
		{"inverted at floor", 0, 0, 0.1, true, 100},
		{"inverted at midpoint", 0.05, 0, 0.1, true, 50},
		{"inverted at ceiling", 0.1, 0, 0.1, true, 0},
		{"inverted clamps above", 0.5, 0, 0.1, true, 0},
		{"degenerate range scores full", 7, 3, 3, false, 100},
		{"degenerate inverted range scores full", 7, 3, 3, true, 100},
		{"rounds to two decimals", 0.0333, 0, 0.1, true, 66.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Normalize(tt.value, tt.lo, tt.hi, tt.invert), 1e-9)
		})
	}
}

func TestPerturbationNormalizers(t *testing.T) {
	assert.Equal(t, 100.0, NormalizeJitter(0))
	assert.InDelta(t, 50.0, NormalizeJitter(0.05), 1e-9)
	assert.Equal(t, 0.0, NormalizeJitter(0.1))

	assert.Equal(t, 100.0, NormalizeShimmer(0))
	assert.InDelta(t, 50.0, NormalizeShimmer(0.15), 1e-9)
	assert.Equal(t, 0.0, NormalizeShimmer(0.3))

	assert.Equal(t, 0.0, NormalizeHNR(0))
	assert.InDelta(t, 50.0, NormalizeHNR(15), 1e-9)
	assert.Equal(t, 100.0, NormalizeHNR(30))
	assert.Equal(t, 100.0, NormalizeHNR(45))
}
