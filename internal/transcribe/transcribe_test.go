package transcribe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinTranscripts(t *testing.T) {
	tests := []struct {
		name     string
		segments []Segment
		expected string
	}{
		{
			name: "multiple segments",
			segments: []Segment{
				{Transcript: "hello there", Confidence: 95},
				{Transcript: "general kenobi", Confidence: 88},
			},
			expected: "hello there general kenobi",
		},
		{
			name:     "no segments",
			segments: nil,
			expected: "",
		},
		{
			name: "skips empty transcripts",
			segments: []Segment{
				{Transcript: "one"},
				{Transcript: ""},
				{Transcript: "two"},
			},
			expected: "one two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, JoinTranscripts(tt.segments))
		})
	}
}

func TestAverageConfidence(t *testing.T) {
	tests := []struct {
		name     string
		segments []Segment
		expected float64
	}{
		{
			name: "mean over segments",
			segments: []Segment{
				{Confidence: 90},
				{Confidence: 70},
			},
			expected: 80,
		},
		{
			name:     "empty transcription defaults to full confidence",
			segments: nil,
			expected: 100,
		},
		{
			name:     "single segment",
			segments: []Segment{{Confidence: 42.5}},
			expected: 42.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, AverageConfidence(tt.segments), 1e-9)
		})
	}
}

func TestEncodeLinear16(t *testing.T) {
	buf := encodeLinear16([]float64{0, 1, -1, 0.5, 2.0})

	assert.Len(t, buf, 10)
	// Zero sample
	assert.Equal(t, []byte{0x00, 0x00}, buf[0:2])
	// Full scale positive is 32767
	assert.Equal(t, []byte{0xFF, 0x7F}, buf[2:4])
	// Out-of-range samples clip instead of wrapping
	assert.Equal(t, buf[2:4], buf[8:10])
}
