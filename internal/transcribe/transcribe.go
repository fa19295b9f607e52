// Package transcribe converts recorded speech to text with per-segment
// recognition confidence. Transcription failures are recoverable: scoring
// degrades to acoustic-only metrics instead of failing the analysis.
package transcribe

import (
	"context"
	"strings"

	"github.com/saymore/speech-analysis/internal/storage"
)

// Segment is one recognized stretch of speech. Confidence is on the 0-100
// scale used throughout scoring.
type Segment struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
}

// Transcriber converts a clip to timestamp-ordered transcript segments.
// The language hint is a BCP 47 tag; implementations fall back to their
// configured default when it is empty or unparseable.
type Transcriber interface {
	Transcribe(ctx context.Context, clip *storage.Clip, languageHint string) ([]Segment, error)
}

// JoinTranscripts concatenates segment transcripts into the full text of
// the recording
func JoinTranscripts(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s.Transcript != "" {
			parts = append(parts, s.Transcript)
		}
	}
	return strings.Join(parts, " ")
}

// AverageConfidence returns the mean recognition confidence across segments.
// An empty transcription reports full confidence: with nothing recognized
// there is no evidence of misrecognition to discount the score for.
func AverageConfidence(segments []Segment) float64 {
	if len(segments) == 0 {
		return 100.0
	}

	sum := 0.0
	for _, s := range segments {
		sum += s.Confidence
	}
	return sum / float64(len(segments))
}
