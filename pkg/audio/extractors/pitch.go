// Package extractors turns frame-level acoustic measurements into the
// per-recording and per-segment metrics the scoring layer composes. Each
// extractor is a pure function of its inputs so recordings can be analyzed
// concurrently without shared state.
package extractors

import (
	"errors"
	"math"

	"github.com/saymore/speech-analysis/pkg/audio/acoustic"
	"github.com/saymore/speech-analysis/pkg/audio/segment"
	"github.com/saymore/speech-analysis/pkg/logging"
)

// ErrNoVoicedPitch indicates the recording contains no voiced frames at all,
// so pitch statistics and every score derived from them are undefined.
var ErrNoVoicedPitch = errors.New("No voiced pitch detected.")

// referencePitchHz anchors the semitone scale; 100 Hz sits between typical
// male and female speaking fundamentals.
const referencePitchHz = 100.0

// SegmentPitchStats summarizes the voiced pitch of one analysis segment in
// semitones relative to the 100 Hz reference. A segment with no voiced
// frames reports all zeros.
type SegmentPitchStats struct {
	Start  float64 `json:"segment_start"`
	Mean   float64 `json:"mean_pitch_st"`
	Median float64 `json:"median_pitch_st"`
	Min    float64 `json:"min_pitch_st"`
	Max    float64 `json:"max_pitch_st"`
	Std    float64 `json:"std_pitch_st"`
	Range  float64 `json:"pitch_range_st"`
}

// PitchResult carries the monotony assessment of a whole recording plus the
// per-segment pitch statistics that back it.
type PitchResult struct {
	MonotonyScore  float64             `json:"monotony_score"`
	VariationScore float64             `json:"pitch_variation_score"`
	Segments       []SegmentPitchStats `json:"per_segment_stats"`
}

// PitchExtractor derives intonation statistics from a voiced pitch track
type PitchExtractor struct {
	segmentWidth float64
	logger       logging.Logger
}

// NewPitchExtractor creates a pitch extractor using the given analysis
// segment width in seconds
func NewPitchExtractor(segmentWidth float64, logger logging.Logger) *PitchExtractor {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &PitchExtractor{
		segmentWidth: segmentWidth,
		logger: logger.WithFields(logging.Fields{
			"component": "pitch_extractor",
		}),
	}
}

// HzToSemitones converts a frequency in Hz to semitones relative to the
// 100 Hz reference
func HzToSemitones(hz float64) float64 {
	return 12 * math.Log2(hz/referencePitchHz)
}

// Extract computes monotony and per-segment pitch statistics from the voiced
// pitch track of a recording. It returns ErrNoVoicedPitch when the track is
// empty; monotony is meaningless without voiced speech.
func (e *PitchExtractor) Extract(track acoustic.FrameSeries, duration float64) (*PitchResult, error) {
	if len(track) == 0 {
		return nil, ErrNoVoicedPitch
	}

	semitones := make(acoustic.FrameSeries, len(track))
	for i, f := range track {
		semitones[i] = acoustic.Frame{Time: f.Time, Value: HzToSemitones(f.Value)}
	}

	all := semitones.Values()
	std := popStdDev(all)
	lo, hi := minMax(all)
	pitchRange := hi - lo

	// A perfectly flat contour has zero std and zero range; the epsilon
	// keeps the ratio defined in that case.
	monotony := round2(clamp(100*(1-std/(pitchRange+1e-5)), 0, 100))

	result := &PitchResult{
		MonotonyScore:  monotony,
		VariationScore: round2(100 - monotony),
	}

	for _, w := range segment.Windows(duration, e.segmentWidth) {
		window := semitones.Between(w.Start, w.Start+e.segmentWidth)
		result.Segments = append(result.Segments, segmentPitchStats(w.Start, window.Values()))
	}

	e.logger.Debug("pitch statistics extracted", logging.Fields{
		"voiced_frames": len(track),
		"segments":      len(result.Segments),
		"monotony":      monotony,
	})

	return result, nil
}

func segmentPitchStats(start float64, values []float64) SegmentPitchStats {
	if len(values) == 0 {
		// Unvoiced segments (silence, breaths) still appear in the
		// series so segment indices stay aligned across metrics.
		return SegmentPitchStats{Start: start}
	}

	lo, hi := minMax(values)
	return SegmentPitchStats{
		Start:  start,
		Mean:   round2(mean(values)),
		Median: round2(median(values)),
		Min:    round2(lo),
		Max:    round2(hi),
		Std:    round2(popStdDev(values)),
		Range:  round2(hi - lo),
	}
}
