package extractors

import (
	"errors"
	"math"

	"github.com/saymore/speech-analysis/pkg/audio/acoustic"
	"github.com/saymore/speech-analysis/pkg/audio/segment"
	"github.com/saymore/speech-analysis/pkg/logging"
)

// ErrNoIntensityData indicates the recording produced no analysis segments,
// so loudness and energy metrics are undefined.
var ErrNoIntensityData = errors.New("No valid intensity or energy data detected.")

// SegmentLoudness holds the loudness measurements of one analysis segment
type SegmentLoudness struct {
	Start     float64 `json:"segment_start"`
	Intensity float64 `json:"intensity"`
	Energy    float64 `json:"energy"`
}

// LoudnessResult aggregates intensity and log-energy over a recording.
// The standard deviations feed the energy variation score.
type LoudnessResult struct {
	AvgIntensity float64           `json:"avg_intensity"`
	AvgEnergy    float64           `json:"avg_energy"`
	IntensityStd float64           `json:"intensity_std"`
	EnergyStd    float64           `json:"energy_std"`
	Segments     []SegmentLoudness `json:"per_segment_stats"`
}

// LoudnessExtractor measures per-segment intensity and log energy
type LoudnessExtractor struct {
	segmentWidth float64
	logger       logging.Logger
}

// NewLoudnessExtractor creates a loudness extractor using the given analysis
// segment width in seconds
func NewLoudnessExtractor(segmentWidth float64, logger logging.Logger) *LoudnessExtractor {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &LoudnessExtractor{
		segmentWidth: segmentWidth,
		logger: logger.WithFields(logging.Fields{
			"component": "loudness_extractor",
		}),
	}
}

// Extract measures intensity and log energy for every analysis segment.
// Intensity is the mean RMS amplitude of the segment scaled by 200; energy
// is the base-10 log of the segment's summed squared amplitude, floored at
// zero and scaled to roughly the 0-400 range. Returns ErrNoIntensityData
// when the recording tiles into no segments at all.
func (e *LoudnessExtractor) Extract(samples []float64, sampleRate int, rmsTrack acoustic.FrameSeries) (*LoudnessResult, error) {
	duration := float64(len(samples)) / float64(sampleRate)

	windows := segment.Windows(duration, e.segmentWidth)
	if len(windows) == 0 {
		return nil, ErrNoIntensityData
	}

	result := &LoudnessResult{}
	var intensities, energies []float64

	for _, w := range windows {
		intensity := mean(rmsTrack.Between(w.Start, w.End).Values()) * 200

		lo := int(w.Start * float64(sampleRate))
		hi := int(w.End * float64(sampleRate))
		if hi > len(samples) {
			hi = len(samples)
		}

		sumSq := 0.0
		for _, s := range samples[lo:hi] {
			sumSq += s * s
		}
		energy := math.Max(math.Log10(sumSq+1e-8)*10, 0) * 10

		intensities = append(intensities, intensity)
		energies = append(energies, energy)
		result.Segments = append(result.Segments, SegmentLoudness{
			Start:     w.Start,
			Intensity: round2(intensity),
			Energy:    round2(energy),
		})
	}

	result.AvgIntensity = mean(intensities)
	result.AvgEnergy = mean(energies)
	result.IntensityStd = popStdDev(intensities)
	result.EnergyStd = popStdDev(energies)

	e.logger.Debug("loudness extracted", logging.Fields{
		"segments":      len(result.Segments),
		"avg_intensity": result.AvgIntensity,
		"avg_energy":    result.AvgEnergy,
	})

	return result, nil
}
