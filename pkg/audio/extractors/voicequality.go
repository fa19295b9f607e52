package extractors

import (
	"math"

	"github.com/saymore/speech-analysis/pkg/audio/segment"
	"github.com/saymore/speech-analysis/pkg/logging"
)

// QualityMeasurer supplies per-segment perturbation measurements. Jitter and
// shimmer are fractions, HNR is in dB; all three are NaN when the segment is
// too short or too aperiodic to measure.
type QualityMeasurer interface {
	VoiceQuality(segmentSamples []float64) (jitter, shimmer, hnr float64)
}

// SegmentVoiceQuality holds the perturbation measurements of one segment.
// Unmeasurable jitter and shimmer are reported as 0; HNR is floored at 0 dB.
type SegmentVoiceQuality struct {
	Start   float64 `json:"segment_start"`
	Jitter  float64 `json:"jitter"`
	Shimmer float64 `json:"shimmer"`
	HNR     float64 `json:"hnr"`
}

// VoiceQualityResult aggregates perturbation over a recording. The overall
// values average only the segments that produced a valid measurement.
type VoiceQualityResult struct {
	Jitter   float64               `json:"avg_jitter"`
	Shimmer  float64               `json:"avg_shimmer"`
	HNR      float64               `json:"avg_hnr"`
	Segments []SegmentVoiceQuality `json:"per_segment_stats"`
}

// VoiceQualityExtractor measures jitter, shimmer and HNR segment by segment
type VoiceQualityExtractor struct {
	measurer     QualityMeasurer
	segmentWidth float64
	logger       logging.Logger
}

// NewVoiceQualityExtractor creates a voice quality extractor over the given
// measurer
func NewVoiceQualityExtractor(measurer QualityMeasurer, segmentWidth float64, logger logging.Logger) *VoiceQualityExtractor {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &VoiceQualityExtractor{
		measurer:     measurer,
		segmentWidth: segmentWidth,
		logger: logger.WithFields(logging.Fields{
			"component": "voice_quality_extractor",
		}),
	}
}

// Extract measures perturbation per segment and averages the valid segments.
// A recording where no segment could be measured yields zeros rather than an
// error; the downstream stability score then rests on HNR alone.
func (e *VoiceQualityExtractor) Extract(samples []float64, sampleRate int) *VoiceQualityResult {
	duration := float64(len(samples)) / float64(sampleRate)

	var jitters, shimmers, hnrs []float64
	result := &VoiceQualityResult{}

	for _, w := range segment.Windows(duration, e.segmentWidth) {
		lo := int(w.Start * float64(sampleRate))
		hi := int(w.End * float64(sampleRate))
		if hi > len(samples) {
			hi = len(samples)
		}

		jitter, shimmer, hnr := e.measurer.VoiceQuality(samples[lo:hi])
		if !math.IsNaN(hnr) && hnr < 0 {
			hnr = 0
		}

		jitters = append(jitters, jitter)
		shimmers = append(shimmers, shimmer)
		hnrs = append(hnrs, hnr)

		result.Segments = append(result.Segments, SegmentVoiceQuality{
			Start:   w.Start,
			Jitter:  finiteOrZero(jitter),
			Shimmer: finiteOrZero(shimmer),
			HNR:     finiteOrZero(hnr),
		})
	}

	result.Jitter = skipNaNMean(jitters)
	result.Shimmer = skipNaNMean(shimmers)
	result.HNR = skipNaNMean(hnrs)

	e.logger.Debug("voice quality extracted", logging.Fields{
		"segments":    len(result.Segments),
		"avg_jitter":  result.Jitter,
		"avg_shimmer": result.Shimmer,
		"avg_hnr":     result.HNR,
	})

	return result
}
